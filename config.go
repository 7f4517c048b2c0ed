// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// configs is used to store the values of the different parameters of an
// Engine. Steps are indices in the Fibonacci sequence.
type configs struct {
	step      int          // initial step of the node table
	cachediff int          // difference between the steps of the operation cache and of the node table
	maxstep   int          // maximal step of the node table
	stackstep int          // initial step of the operand stack
	logger    *slog.Logger // destination of diagnostics
}

// Option is a configuration option for New, like Nodestep or Cachediff.
type Option func(*configs)

func makeconfigs() *configs {
	return &configs{
		step:      _DEFAULTSTEP,
		cachediff: _DEFAULTCACHEDIFF,
		maxstep:   _MAXSTEP,
		stackstep: _DEFAULTSTACKSTEP,
	}
}

func (c *configs) check() error {
	if c.step < _MINSTEP || c.step > _MAXSTEP {
		return fmt.Errorf("node step %d not in [%d..%d]", c.step, _MINSTEP, _MAXSTEP)
	}
	if c.maxstep < c.step || c.maxstep > _MAXSTEP {
		return fmt.Errorf("max step %d not in [%d..%d]", c.maxstep, c.step, _MAXSTEP)
	}
	if c.stackstep < 1 || c.stackstep > _MAXSTEP {
		return fmt.Errorf("stack step %d not in [1..%d]", c.stackstep, _MAXSTEP)
	}
	return nil
}

// Nodestep is a configuration option (function). Used as a parameter in New it
// sets the initial size of the node table to fib(step). The unique table has
// fib(step+1) buckets. The table grows by one step each time a garbage
// collection finds more than fib(step-1) live nodes. The default value is 30,
// for 832 040 nodes. The smallest accepted value is 6.
func Nodestep(step int) Option {
	return func(c *configs) {
		c.step = step
	}
}

// Cachediff is a configuration option (function). Used as a parameter in New it
// sets the difference between the Fibonacci step of the operation cache and
// the one of the node table. The value may be negative, in which case the cache
// is smaller than the node table. The default value is 1.
func Cachediff(diff int) Option {
	return func(c *configs) {
		c.cachediff = diff
	}
}

// Maxstep is a configuration option (function). Used as a parameter in New it
// sets a limit on the growth of the node table. When a garbage collection
// cannot free a node and the table already has size fib(maxstep), the engine
// stops with a fatal ErrTableFull error. The default value is 92, the largest
// step whose size fits in an int64.
func Maxstep(step int) Option {
	return func(c *configs) {
		c.maxstep = step
	}
}

// Stackstep is a configuration option (function). Used as a parameter in New
// it sets the initial capacity of the operand stack to fib(step). The default
// value is 22.
func Stackstep(step int) Option {
	return func(c *configs) {
		c.stackstep = step
	}
}

// Logger is a configuration option (function). Used as a parameter in New it
// sets the logger for the engine diagnostics. Garbage collections, resizing
// events and cache migrations are logged at the Debug level. By default we use
// slog.Default().
func Logger(l *slog.Logger) Option {
	return func(c *configs) {
		c.logger = l
	}
}

// ************************************************************

// Config is the serialized form of the engine options, for instance in a YAML
// configuration file. A zero field means that we keep the default value,
// except for CacheDiff that can be zero or negative and is only used when the
// key is present.
type Config struct {
	Step      int  `yaml:"step"`
	CacheDiff *int `yaml:"cache_diff"`
	MaxStep   int  `yaml:"max_step"`
	StackStep int  `yaml:"stack_step"`
}

// LoadConfig reads a YAML configuration document. Unknown keys are an error.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := &Config{}
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding ldd config: %w", err)
	}
	return c, nil
}

// Options returns the configuration options corresponding to the fields set
// in c, that can be used in a call to New.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Step != 0 {
		opts = append(opts, Nodestep(c.Step))
	}
	if c.CacheDiff != nil {
		opts = append(opts, Cachediff(*c.CacheDiff))
	}
	if c.MaxStep != 0 {
		opts = append(opts, Maxstep(c.MaxStep))
	}
	if c.StackStep != 0 {
		opts = append(opts, Stackstep(c.StackStep))
	}
	return opts
}
