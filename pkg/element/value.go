package element

import (
	"fmt"
	"reflect"

	"salto.dev/core/pkg/elemid"
)

// Kind discriminates the variants of Value. Per spec §9, code must never
// branch on Value's underlying Go type beyond this discriminator.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// ReferenceExpression denotes a traversal path through the merged element
// graph (spec §3.2). The blueprint parser is responsible for resolving the
// textual dotted path into a target ElemID; any remaining segments index
// into that element's own value once it is looked up (e.g. a reference to
// a specific key of an instance's value map).
type ReferenceExpression struct {
	TargetID elemid.ElemID
	Path     []string
}

// Traversal returns the full dotted path this reference denotes, for
// display and for cycle-detection keys (spec §4.3: "visited-set keyed by
// the dotted traversal path").
func (r ReferenceExpression) Traversal() string {
	s := r.TargetID.FullName()
	for _, p := range r.Path {
		s += "." + p
	}
	return s
}

// Value is a tagged union over Salto's dynamic value space: null,
// boolean, number, string, list, map, or a reference expression (spec
// §3.2, §9).
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	m    map[string]Value
	ref  ReferenceExpression
}

func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Number(n float64) Value     { return Value{kind: KindNumber, n: n} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func List(vs ...Value) Value     { return Value{kind: KindList, list: vs} }
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}
func Reference(ref ReferenceExpression) Value { return Value{kind: KindReference, ref: ref} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) Number() (float64, bool)  { return v.n, v.kind == KindNumber }
func (v Value) String() (string, bool)   { return v.s, v.kind == KindString }
func (v Value) List() ([]Value, bool)    { return v.list, v.kind == KindList }
func (v Value) Map() (map[string]Value, bool) { return v.m, v.kind == KindMap }
func (v Value) Reference() (ReferenceExpression, bool) {
	return v.ref, v.kind == KindReference
}

// GoString renders a Go-syntax-ish form for test failure messages.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "Null()"
	case KindBool:
		return fmt.Sprintf("Bool(%v)", v.b)
	case KindNumber:
		return fmt.Sprintf("Number(%v)", v.n)
	case KindString:
		return fmt.Sprintf("String(%q)", v.s)
	case KindList:
		return fmt.Sprintf("List(%v)", v.list)
	case KindMap:
		return fmt.Sprintf("Map(%v)", v.m)
	case KindReference:
		return fmt.Sprintf("Reference(%s)", v.ref.Traversal())
	default:
		return "Value{}"
	}
}

// Equal reports deep structural equality. Lists and maps compare
// element-wise; references compare by target and path (spec §4.1.3:
// "lists and scalars replace only if equal").
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, vv := range v.m {
			ov, ok := other.m[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	case KindReference:
		return v.ref.TargetID.Equal(other.ref.TargetID) && reflect.DeepEqual(v.ref.Path, other.ref.Path)
	default:
		return false
	}
}

// CloneMap returns a shallow copy of a Value map, used throughout the
// merger to avoid mutating an input element's maps in place.
func CloneMap(m map[string]Value) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
