// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dalzilio/ldd"
	"github.com/dalzilio/ldd/internal/models"
	"github.com/spf13/cobra"
)

var errLimit = errors.New("limit reached")

func newCyclersCmd(a *app) *cobra.Command {
	var out string
	var lazy bool
	cmd := &cobra.Command{
		Use:   "cyclers N",
		Short: "Compute the reachable states of Milner's scheduler with N cyclers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid number of cyclers %q", args[0])
			}
			m := models.Cyclers(n)
			d, err := a.engine.NewDomain(m.Size)
			if err != nil {
				return err
			}
			var reach *ldd.Set
			var berr error
			if err := ldd.Catch(func() {
				var init *ldd.Set
				var rels []*ldd.Relation
				if init, rels, berr = m.Build(d, lazy); berr == nil {
					reach = d.NewSet()
					reach.LeastFixpoint(init, rels...)
				}
			}); err != nil {
				return err
			}
			if berr != nil {
				return berr
			}
			nodes, states := reach.Count()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s states, %d nodes\n", m.Name, states, nodes)
			if out != "" {
				return a.save(reach, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the reachable states in this file")
	cmd.Flags().BoolVar(&lazy, "lazy", false, "build the transition relations on the fly")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Print the number of vectors and nodes of a saved set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0], length)
			if err != nil {
				return err
			}
			nodes, count := s.Count()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Vectors:\t%s\nNodes:\t%d\n", count, nodes)
			if vec, ok := s.Example(); ok {
				fmt.Fprintf(w, "Example:\t%v\n", vec)
			}
			fmt.Fprintln(w, a.engine.Stats())
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "len", "n", 0, "length of the vectors in the set")
	_ = cmd.MarkFlagRequired("len")
	return cmd
}

func newEnumCmd(a *app) *cobra.Command {
	var length, limit int
	cmd := &cobra.Command{
		Use:   "enum FILE",
		Short: "Print the vectors of a saved set in lexicographic order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0], length)
			if err != nil {
				return err
			}
			w := bufio.NewWriter(cmd.OutOrStdout())
			count := 0
			if ferr := ldd.Catch(func() {
				err = s.Enum(func(vec []int) error {
					if limit > 0 && count == limit {
						return errLimit
					}
					count++
					_, err := fmt.Fprintln(w, vec)
					return err
				})
			}); ferr != nil {
				return fmt.Errorf("enumerating %s: %w", args[0], ferr)
			}
			if err != nil && !errors.Is(err, errLimit) {
				return err
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&length, "len", "n", 0, "length of the vectors in the set")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximal number of vectors printed (0 for all)")
	_ = cmd.MarkFlagRequired("len")
	return cmd
}

func newDotCmd(a *app) *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Print a saved set in the DOT format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0], length)
			if err != nil {
				return err
			}
			return s.Dot(cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&length, "len", "n", 0, "length of the vectors in the set")
	_ = cmd.MarkFlagRequired("len")
	return cmd
}

// ************************************************************

func (a *app) save(s *ldd.Set, path string) error {
	opts, err := a.persistOptions()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f, opts...); err != nil {
		f.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	a.log.Debug("set saved", "file", path)
	return f.Close()
}

// load reads a set of vectors of the given length from path. Malformed files
// are reported as errors.
func (a *app) load(path string, length int) (s *ldd.Set, err error) {
	opts, err := a.persistOptions()
	if err != nil {
		return nil, err
	}
	d, err := a.engine.NewDomain(length)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if ferr := ldd.Catch(func() {
		s, err = d.LoadSet(bufio.NewReader(f), opts...)
	}); ferr != nil {
		return nil, fmt.Errorf("loading %s: %w", path, ferr)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}
