// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package ldd

// ************************************************************

// opcache is a direct-mapped cache shared by all the operations: each key has
// exactly one slot and storing a new result unconditionally overwrites the
// previous entry in this slot. A miss is always safe, it only means that we
// have to compute the result again.
type opcache struct {
	table  []cacheEntry
	opHit  int // entries found in the operation cache
	opMiss int // entries not found in the operation cache
}

// cacheKey identifies an operation together with its operands. Fields that are
// not used by an operation are left to zero. The level is only used for
// operations parameterized by a depth, like universe.
type cacheKey struct {
	op    opcode
	level int32
	proj  NodeID // projection id, 1 when not relevant
	a     NodeID
	b     NodeID
	c     NodeID
}

// cacheEntry is a unit of information stored in the cache. The count field is
// only meaningful for opCount entries; res is meaningful for all the others.
type cacheEntry struct {
	cacheKey
	res   NodeID
	count float64
}

// ************************************************************

func (e *Engine) cacheinit(size int) {
	e.opcache.table = make([]cacheEntry, size)
}

func (e *Engine) cacheslot(k cacheKey) *cacheEntry {
	return &e.opcache.table[k.hash()%uint64(len(e.opcache.table))]
}

func (e *Engine) lookup(k cacheKey) (NodeID, bool) {
	entry := e.cacheslot(k)
	if entry.cacheKey == k {
		e.opHit++
		return entry.res, true
	}
	e.opMiss++
	return 0, false
}

// store records the result of an operation. The slot is recomputed since the
// cache may have been resized while computing res.
func (e *Engine) store(k cacheKey, res NodeID) NodeID {
	*e.cacheslot(k) = cacheEntry{cacheKey: k, res: res}
	return res
}

func (e *Engine) lookupCount(n NodeID) (float64, bool) {
	entry := e.cacheslot(cacheKey{op: opCount, a: n})
	if entry.op == opCount && entry.a == n {
		e.opHit++
		return entry.count, true
	}
	e.opMiss++
	return 0, false
}

func (e *Engine) storeCount(n NodeID, count float64) float64 {
	k := cacheKey{op: opCount, a: n}
	*e.cacheslot(k) = cacheEntry{cacheKey: k, count: count}
	return count
}

// ************************************************************

// alive reports whether node n survives the current garbage collection. It
// can only be called during a collection, between the mark and sweep phases.
func (e *Engine) alive(n NodeID) bool {
	return n <= 1 || e.ismarked(n)
}

// valid reports whether all the nodes referenced by a cache entry are still
// alive.
func (e *Engine) valid(entry *cacheEntry) bool {
	switch entry.op {
	case opCount:
		return e.alive(entry.a)
	case opUnion, opMinus, opIntersect, opProject, opNext, opPrev,
		opCopyMatch, opSat, opRelprod, opUniverse:
		return e.alive(entry.a) && e.alive(entry.b) && e.alive(entry.c) &&
			e.alive(entry.proj) && e.alive(entry.res)
	default:
		e.fail(ErrMissingCase, "cache entry with opcode %v", entry.op)
		return false
	}
}

// cacheclean drops the entries referring to dead nodes. When size differs from
// the current size of the cache, the live entries are rehashed in a new table
// and we return the number of entries copied.
func (e *Engine) cacheclean(size int) int {
	if size == len(e.opcache.table) {
		for k := range e.opcache.table {
			entry := &e.opcache.table[k]
			if entry.op != opUnused && !e.valid(entry) {
				*entry = cacheEntry{}
			}
		}
		return 0
	}
	old := e.opcache.table
	e.opcache.table = make([]cacheEntry, size)
	copied := 0
	for k := range old {
		entry := &old[k]
		if entry.op == opUnused || !e.valid(entry) {
			continue
		}
		*e.cacheslot(entry.cacheKey) = *entry
		copied++
	}
	return copied
}
