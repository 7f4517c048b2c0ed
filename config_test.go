// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(strings.NewReader("step: 12\ncache_diff: -1\nstack_step: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, c.Step)
	require.NotNil(t, c.CacheDiff)
	assert.Equal(t, -1, *c.CacheDiff)
	assert.Equal(t, 8, c.StackStep)
	assert.Len(t, c.Options(), 3)

	e, err := New(c.Options()...)
	require.NoError(t, err)
	assert.Equal(t, fib(12), len(e.nodes))
	assert.Equal(t, fib(11), len(e.opcache.table))
	assert.Equal(t, fib(8), cap(e.stack))

	c, err = LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, c.CacheDiff)
	assert.Empty(t, c.Options())

	_, err = LoadConfig(strings.NewReader("step: 12\nnodesize: 100\n"))
	assert.Error(t, err, "unknown keys are rejected")

	c, err = LoadConfig(strings.NewReader("step: 3\n"))
	require.NoError(t, err)
	_, err = New(c.Options()...)
	assert.Error(t, err)
}

func TestLoadConfigZeroCacheDiff(t *testing.T) {
	c, err := LoadConfig(strings.NewReader("step: 12\ncache_diff: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, c.CacheDiff)
	assert.Equal(t, 0, *c.CacheDiff)
	assert.Len(t, c.Options(), 2)

	e, err := New(c.Options()...)
	require.NoError(t, err)
	assert.Equal(t, fib(12), len(e.opcache.table), "the cache has the size of the node table")

	c, err = LoadConfig(strings.NewReader("step: 12\n"))
	require.NoError(t, err)
	e, err = New(c.Options()...)
	require.NoError(t, err)
	assert.Equal(t, fib(13), len(e.opcache.table), "default difference")
}
