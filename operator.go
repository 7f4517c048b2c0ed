// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

// opcode identifies the operation memoized in an entry of the operation cache.
type opcode uint16

const (
	opUnused    opcode = iota // Free slot
	opCount                   // Cardinality of a set
	opUnion                   // Set union
	opMinus                   // Set difference
	opProject                 // Projection on a list of levels
	opNext                    // Image by a relation
	opPrev                    // Pre-image by a relation
	opCopyMatch               // Selection of vectors matching a pattern
	opIntersect               // Set intersection
	opSat                     // Saturation of a diagram
	opRelprod                 // Relational product during saturation
	opUniverse                // Values observed at a level
)

var opnames = [12]string{
	opUnused:    "unused",
	opCount:     "count",
	opUnion:     "union",
	opMinus:     "minus",
	opProject:   "project",
	opNext:      "next",
	opPrev:      "prev",
	opCopyMatch: "copy-match",
	opIntersect: "intersect",
	opSat:       "saturate",
	opRelprod:   "relprod",
	opUniverse:  "universe",
}

func (op opcode) String() string {
	if int(op) < len(opnames) {
		return opnames[op]
	}
	return "unknown"
}
