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

//go:build debug
// +build debug

package ldd

const _DEBUG bool = true

// ******************************************************************************************************

// checkCanonical verifies, after a garbage collection, that no two nodes in the
// unique table have the same content, that siblings are ordered and that all
// the marking bits are cleared.
func (e *Engine) checkCanonical() {
	type triple struct {
		value       uint32
		down, right NodeID
	}
	seen := make(map[triple]NodeID)
	for k, n := range e.unique {
		for ; n != 0; n = e.nodes[n].chain {
			nd := e.nodes[n]
			t := triple{nd.value, nd.down, nd.right}
			if m, ok := seen[t]; ok {
				e.fail(ErrCorrupt, "nodes %d and %d are equal", m, n)
			}
			seen[t] = n
			if nd.down == 0 {
				e.fail(ErrCorrupt, "node %d has an empty down edge", n)
			}
			if nd.right > 1 && nd.value >= e.nodes[nd.right].value {
				e.fail(ErrOrder, "node %d has value %d before %d", n, nd.value, e.nodes[nd.right].value)
			}
			if e.nodehash(n)%uint64(len(e.unique)) != uint64(k) {
				e.fail(ErrCorrupt, "node %d in the wrong bucket %d", n, k)
			}
		}
	}
	if c := e.marks.Count(); c != 0 {
		e.fail(ErrCorrupt, "%d nodes still marked after collection", c)
	}
	e.log.Debug("ldd canonical check", "nodes", len(seen))
}
