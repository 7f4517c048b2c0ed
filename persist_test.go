// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	m := randomVectors(r, 100, 4, 10)
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			d := testDomain(t, 4)
			s := setOf(d, m)
			var buf bytes.Buffer
			require.NoError(t, s.Save(&buf, WithCompression(c)))

			// load in a fresh engine, and in the same one
			for _, target := range []*Domain{testDomain(t, 4), d} {
				loaded, err := target.LoadSet(&buf, WithCompression(c))
				require.NoError(t, err)
				assert.True(t, loaded.IsFull())
				assert.Equal(t, keys(m), elements(t, loaded))
				assert.Equal(t, s.NodeCount(), loaded.NodeCount())
				buf.Reset()
				require.NoError(t, s.Save(&buf, WithCompression(c)))
			}
			loaded, err := d.LoadSet(&buf, WithCompression(c))
			require.NoError(t, err)
			assert.True(t, loaded.Equal(s), "same engine gives the same root")
		})
	}
}

func TestSaveConstants(t *testing.T) {
	d := testDomain(t, 0)
	s := d.NewSet()
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, buf.Bytes())
	loaded, err := d.LoadSet(&buf)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	s.Add([]int{})
	require.NoError(t, s.Save(&buf))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, buf.Bytes())
	loaded, err = d.LoadSet(&buf)
	require.NoError(t, err)
	assert.Equal(t, True, loaded.Root())
}

func TestSaveFormat(t *testing.T) {
	d := testDomain(t, 1)
	s := d.NewSet()
	s.Add([]int{5})
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	expected := []byte{
		0, 0, 0, 0, 0, 0, 0, 3, // count
		0, 0, 0, 0, 0, 0, 0, 2, // id
		0, 0, 0, 5, // value
		0, 0, 0, 0, 0, 0, 0, 1, // down
		0, 0, 0, 0, 0, 0, 0, 0, // right
	}
	assert.Equal(t, expected, buf.Bytes())
}

func TestSaveRelation(t *testing.T) {
	d := testDomain(t, 4)
	rel, err := d.NewRelation([]int{1, 3})
	require.NoError(t, err)
	rel.Add([]int{0, 1}, []int{2, 3})
	rel.Add([]int{4, 1}, []int{2, 0})

	// both segments in the same uncompressed stream
	var buf bytes.Buffer
	require.NoError(t, rel.SaveProjection(&buf))
	require.NoError(t, rel.Save(&buf))

	other := testDomain(t, 4)
	loaded, err := other.LoadRelationProjection(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, loaded.Levels())
	assert.True(t, loaded.IsEmpty())
	require.NoError(t, loaded.Load(&buf))
	assert.Equal(t, 2.0, loaded.Cardinality())
	assert.Zero(t, buf.Len())

	src := other.NewSet()
	src.Add([]int{9, 0, 9, 1})
	dst := other.NewSet()
	dst.Next(src, loaded)
	assert.Equal(t, []string{"[9 2 9 3]"}, elements(t, dst))

	// projection with levels outside of the domain
	buf.Reset()
	require.NoError(t, rel.SaveProjection(&buf))
	small := testDomain(t, 2)
	_, err = small.LoadRelationProjection(&buf)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	d := testDomain(t, 1)
	s := d.NewSet()
	s.Add([]int{5})
	s.Add([]int{7})
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	data := buf.Bytes()

	// truncated stream
	_, err := d.LoadSet(bytes.NewReader(data[:len(data)-3]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = d.LoadSet(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// ids must be consecutive
	bad := append([]byte{}, data...)
	binary.BigEndian.PutUint64(bad[8:], 3)
	err = Catch(func() { _, _ = d.LoadSet(bytes.NewReader(bad)) })
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Nil(t, d.e.loading)

	// successors must be saved before their parents
	bad = append([]byte{}, data...)
	binary.BigEndian.PutUint64(bad[8+20:], 2)
	err = Catch(func() { _, _ = d.LoadSet(bytes.NewReader(bad)) })
	assert.ErrorIs(t, err, ErrMalformed)

	// projection lengths outside of [0..size]
	for _, length := range [][]byte{{0xff, 0xff, 0xff, 0xff}, {0x7f, 0xff, 0xff, 0xff}, {0, 0, 0, 2}} {
		err = Catch(func() { _, _ = d.LoadRelationProjection(bytes.NewReader(length)) })
		assert.ErrorIs(t, err, ErrMalformed, "length %v", length)
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseCompression("gzip")
	assert.Error(t, err)
}
