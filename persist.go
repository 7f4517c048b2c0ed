// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Diagrams are saved in a binary big-endian format. A diagram segment starts
// with the number n of nodes (U64), that includes the two constants, followed
// by the n-2 real nodes in post-order. Each node is a record with its id (U64),
// numbered consecutively from 2, its value (U32) and the ids of its down and
// right successors (U64), that are always smaller than its own id. A constant
// diagram is saved with a count equal to its id (0 or 1) and no records. The
// projection of a relation is saved in a separate segment with its length
// (S32) followed by its levels (S32).

// Compression is the algorithm used to compress saved diagrams.
type Compression uint8

const (
	// CompressionNone writes the binary format as is.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 frames (fast).
	CompressionLZ4
	// CompressionZstd uses Zstandard frames (better ratio).
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression returns the compression with the given name, one of none,
// lz4 or zstd.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", name)
	}
}

type persistConfig struct {
	compression Compression
}

// PersistOption is an option for the functions that save or load diagrams.
type PersistOption func(*persistConfig)

// WithCompression compresses saved segments with c. The same option must be
// used when loading. A compressed segment may read ahead in its input, so
// every compressed segment should be stored in its own stream.
func WithCompression(c Compression) PersistOption {
	return func(pc *persistConfig) {
		pc.compression = c
	}
}

func makePersistConfig(opts []PersistOption) persistConfig {
	pc := persistConfig{}
	for _, f := range opts {
		f(&pc)
	}
	return pc
}

// writeSegment calls write on a buffered (and possibly compressed) writer on
// top of w and flushes everything at the end.
func writeSegment(w io.Writer, opts []PersistOption, write func(*bufio.Writer) error) error {
	pc := makePersistConfig(opts)
	var closer io.Closer
	switch pc.compression {
	case CompressionNone:
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		w, closer = zw, zw
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		w, closer = zw, zw
	default:
		return fmt.Errorf("unknown compression %d", pc.compression)
	}
	bw := bufio.NewWriter(w)
	err := write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if closer != nil {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// readSegment calls read on a (possibly decompressed) reader on top of r. We
// do not buffer r when it is not compressed, so that consecutive segments can
// be read from the same stream.
func readSegment(r io.Reader, opts []PersistOption, read func(io.Reader) error) error {
	pc := makePersistConfig(opts)
	switch pc.compression {
	case CompressionNone:
		return read(r)
	case CompressionLZ4:
		return read(lz4.NewReader(r))
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zr.Close()
		return read(zr)
	default:
		return fmt.Errorf("unknown compression %d", pc.compression)
	}
}

func readfull(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("reading %s: %w", what, err)
	}
	return nil
}

// ************************************************************

// save writes the diagram segment of n.
func (e *Engine) save(w *bufio.Writer, n NodeID) error {
	var buf [28]byte
	if n <= 1 {
		binary.BigEndian.PutUint64(buf[:8], uint64(n))
		_, err := w.Write(buf[:8])
		return err
	}
	count := e.nodecount(n)
	binary.BigEndian.PutUint64(buf[:8], count)
	if _, err := w.Write(buf[:8]); err != nil {
		return err
	}
	ids := make(map[NodeID]uint64, count)
	ids[False], ids[True] = 0, 1
	var err error
	var write func(NodeID)
	write = func(n NodeID) {
		if err != nil {
			return
		}
		if _, ok := ids[n]; ok {
			return
		}
		nd := e.nodes[n]
		write(nd.down)
		write(nd.right)
		id := uint64(len(ids))
		ids[n] = id
		binary.BigEndian.PutUint64(buf[0:], id)
		binary.BigEndian.PutUint32(buf[8:], nd.value)
		binary.BigEndian.PutUint64(buf[12:], ids[nd.down])
		binary.BigEndian.PutUint64(buf[20:], ids[nd.right])
		_, err = w.Write(buf[:])
	}
	write(n)
	e.log.Debug("ldd diagram saved", "nodes", count, "table", len(e.nodes))
	return err
}

// load reads a diagram segment and returns its root. Nodes are rebuilt with
// makenode, so the result shares its nodes with the diagrams already in e.
func (e *Engine) load(r io.Reader) (NodeID, error) {
	var buf [28]byte
	if err := readfull(r, buf[:8], "node count"); err != nil {
		return False, err
	}
	count := binary.BigEndian.Uint64(buf[:8])
	if count < 2 {
		return NodeID(count), nil
	}
	e.loading = make([]NodeID, 2, min(count, 1<<16))
	e.loading[0], e.loading[1] = False, True
	defer func() {
		e.loading = nil
	}()
	root := False
	for uint64(len(e.loading)) < count {
		if err := readfull(r, buf[:], fmt.Sprintf("node %d of %d", len(e.loading), count)); err != nil {
			return False, err
		}
		id := binary.BigEndian.Uint64(buf[0:])
		value := binary.BigEndian.Uint32(buf[8:])
		down := binary.BigEndian.Uint64(buf[12:])
		right := binary.BigEndian.Uint64(buf[20:])
		if id != uint64(len(e.loading)) {
			e.fail(ErrMalformed, "node %d found at position %d, nodes must be numbered consecutively from 2", id, len(e.loading))
		}
		if down >= id || right >= id {
			e.fail(ErrMalformed, "forward reference in node %d (%d, %d)", id, down, right)
		}
		root = e.makenode(value, e.loading[down], e.loading[right])
		e.loading = append(e.loading, root)
	}
	e.log.Debug("ldd diagram loaded", "nodes", count)
	return root, nil
}

// ************************************************************

// Save writes the elements of s to w.
func (s *Set) Save(w io.Writer, opts ...PersistOption) error {
	e := s.check()
	return writeSegment(w, opts, func(bw *bufio.Writer) error {
		return e.save(bw, s.root)
	})
}

// LoadSet returns a new full set with the elements saved in r.
func (d *Domain) LoadSet(r io.Reader, opts ...PersistOption) (*Set, error) {
	var root NodeID
	err := readSegment(r, opts, func(r io.Reader) error {
		var err error
		root, err = d.e.load(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	s := d.newSet(nil, true)
	s.root = root
	return s, nil
}

// Save writes the transitions of r to w. The projection of r is not saved, see
// SaveProjection.
func (r *Relation) Save(w io.Writer, opts ...PersistOption) error {
	e := r.check()
	return writeSegment(w, opts, func(bw *bufio.Writer) error {
		return e.save(bw, r.root)
	})
}

// Load replaces the transitions of r with the ones saved in rd.
func (r *Relation) Load(rd io.Reader, opts ...PersistOption) error {
	e := r.check()
	return readSegment(rd, opts, func(rd io.Reader) error {
		root, err := e.load(rd)
		if err == nil {
			r.root = root
		}
		return err
	})
}

// SaveProjection writes the projection of r to w.
func (r *Relation) SaveProjection(w io.Writer, opts ...PersistOption) error {
	r.check()
	return writeSegment(w, opts, func(bw *bufio.Writer) error {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(int32(len(r.proj))))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
		for _, l := range r.proj {
			binary.BigEndian.PutUint32(buf[:], uint32(int32(l)))
			if _, err := bw.Write(buf[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadRelationProjection returns a new empty relation with the projection
// saved in rd. We return an error if the levels are not valid for d.
func (d *Domain) LoadRelationProjection(rd io.Reader, opts ...PersistOption) (*Relation, error) {
	var levels []int
	err := readSegment(rd, opts, func(rd io.Reader) error {
		var buf [4]byte
		if err := readfull(rd, buf[:], "projection length"); err != nil {
			return err
		}
		n := int32(binary.BigEndian.Uint32(buf[:]))
		if n < 0 || int(n) > d.size {
			d.e.fail(ErrMalformed, "projection length %d not in [0..%d]", n, d.size)
		}
		levels = make([]int, n)
		for k := range levels {
			if err := readfull(rd, buf[:], "projection level"); err != nil {
				return err
			}
			levels[k] = int(int32(binary.BigEndian.Uint32(buf[:])))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.NewRelation(levels)
}
