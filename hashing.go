// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash functions

// hash mixes a 32 bits tag with two 64 bits operands. It is used both for the
// unique table, with the triple (value, down, right), and for the operation
// cache, with an operation tag and its two main operands.
func hash(tag uint32, a, b uint64) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:], tag)
	binary.LittleEndian.PutUint64(buf[4:], a)
	binary.LittleEndian.PutUint64(buf[12:], b)
	return xxhash.Sum64(buf[:])
}

// The hash function for nodes is #(value, down, right)

func (e *Engine) nodehash(n NodeID) uint64 {
	return hash(e.nodes[n].value, uint64(e.nodes[n].down), uint64(e.nodes[n].right))
}

// The hash function for cache entries is #(op | proj << 16, a, b ^ c). The
// projection id is only folded in the tag; lookups always compare the whole
// key.

func (k cacheKey) hash() uint64 {
	tag := uint32(k.op) | (uint32(k.proj)^uint32(k.level))<<16
	return hash(tag, uint64(k.a), uint64(k.b)^(uint64(k.c)*0x9E3779B97F4A7C15))
}
