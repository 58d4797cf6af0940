// Package elemid implements ElemID, the structured identifier shared by
// every element, field, instance value path and annotation in a Salto
// blueprint graph (spec §3.1).
package elemid

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// IDType classifies what kind of thing an ElemID names.
type IDType string

const (
	// IDTypeType identifies a PrimitiveType or ObjectType.
	IDTypeType IDType = "type"
	// IDTypeField identifies a Field declared inside an ObjectType.
	IDTypeField IDType = "field"
	// IDTypeAttr identifies a nested path inside an annotation or
	// annotation-type map.
	IDTypeAttr IDType = "attr"
	// IDTypeInstance identifies an InstanceElement, optionally with a
	// nested value path appended.
	IDTypeInstance IDType = "instance"
	// IDTypeAnnotation identifies a single annotation value on a type or
	// field.
	IDTypeAnnotation IDType = "annotation"
	// IDTypeVar identifies a Variable. Variables live in the reserved
	// "var" adapter namespace.
	IDTypeVar IDType = "var"
)

// VarsNamespace is the reserved adapter name for the variable namespace
// (spec §3.1).
const VarsNamespace = "var"

// ConfigInstanceName is the reserved instance name that marks an adapter's
// singleton configuration instance (used by IsConfig and by the workspace
// when deciding where to persist a blueprint, §4.4.2 flush).
const ConfigInstanceName = "_config"

// ElemID is an ordered tuple (adapter, type, id-type, ...name parts). Two
// ElemIDs are equal iff every field of the tuple is equal (spec §3.1).
type ElemID struct {
	Adapter   string
	Type      string
	IDType    IDType
	NameParts []string
}

// New constructs a top-level type ElemID (adapter.type).
func New(adapter, typeName string) ElemID {
	return ElemID{Adapter: adapter, Type: typeName, IDType: IDTypeType}
}

// NewVar constructs an ElemID in the reserved variable namespace.
func NewVar(name string) ElemID {
	return ElemID{Adapter: VarsNamespace, Type: "", IDType: IDTypeVar, NameParts: []string{name}}
}

// NewField constructs the ElemID of a field declared inside the named
// object type.
func NewField(adapter, typeName, fieldName string) ElemID {
	return ElemID{Adapter: adapter, Type: typeName, IDType: IDTypeField, NameParts: []string{fieldName}}
}

// NewInstance constructs the ElemID of an instance of the named type.
func NewInstance(adapter, typeName, instanceName string) ElemID {
	return ElemID{Adapter: adapter, Type: typeName, IDType: IDTypeInstance, NameParts: []string{instanceName}}
}

// CreateNestedID returns a copy of id with the given path segments
// appended to its name parts, e.g. to reference a specific value key
// inside an instance (used by merge/validation errors to point at
// "ins.field2" style nested locations).
func (id ElemID) CreateNestedID(parts ...string) ElemID {
	next := make([]string, 0, len(id.NameParts)+len(parts))
	next = append(next, id.NameParts...)
	next = append(next, parts...)
	return ElemID{Adapter: id.Adapter, Type: id.Type, IDType: id.IDType, NameParts: next}
}

// CreateTopLevelParentID returns the ElemID of the type this id belongs
// to, stripping any field/instance/attr/annotation qualification.
func (id ElemID) CreateTopLevelParentID() ElemID {
	return ElemID{Adapter: id.Adapter, Type: id.Type, IDType: IDTypeType}
}

// IsTopLevel reports whether id names a PrimitiveType/ObjectType directly
// (no field, instance or nested name parts).
func (id ElemID) IsTopLevel() bool {
	return id.IDType == IDTypeType && len(id.NameParts) == 0
}

// IsConfig reports whether id names an adapter's singleton configuration
// instance (spec §4.4.2).
func (id ElemID) IsConfig() bool {
	return id.IDType == IDTypeInstance && len(id.NameParts) == 1 && id.NameParts[0] == ConfigInstanceName
}

// NestingLevel reports how many name-part segments this id carries beyond
// its type/adapter root.
func (id ElemID) NestingLevel() int {
	return len(id.NameParts)
}

// Parent returns the ElemID one level up the hierarchy and true, or the
// zero ElemID and false if id has no parent (a bare type, or a variable).
func (id ElemID) Parent() (ElemID, bool) {
	switch {
	case id.IDType == IDTypeVar:
		return ElemID{}, false
	case len(id.NameParts) > 1:
		return ElemID{Adapter: id.Adapter, Type: id.Type, IDType: id.IDType, NameParts: id.NameParts[:len(id.NameParts)-1]}, true
	case len(id.NameParts) == 1:
		return id.CreateTopLevelParentID(), true
	default:
		return ElemID{}, false
	}
}

// FullName renders the canonical dotted string for id.
func (id ElemID) FullName() string {
	var b strings.Builder
	if id.IDType == IDTypeVar {
		b.WriteString(VarsNamespace)
		for _, p := range id.NameParts {
			b.WriteByte('.')
			b.WriteString(p)
		}
		return b.String()
	}
	if id.Adapter != "" {
		b.WriteString(id.Adapter)
	}
	if id.Type != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(id.Type)
	}
	switch id.IDType {
	case IDTypeType:
		// nothing further: adapter.type is the full name of a type.
	case IDTypeField:
		writeSep(&b, "field")
	case IDTypeInstance:
		writeSep(&b, "instance")
	case IDTypeAnnotation:
		writeSep(&b, "annotation")
	case IDTypeAttr:
		writeSep(&b, "attr")
	}
	for _, p := range id.NameParts {
		writeSep(&b, p)
	}
	return b.String()
}

func writeSep(b *strings.Builder, s string) {
	if b.Len() > 0 {
		b.WriteByte('.')
	}
	b.WriteString(s)
}

// String implements fmt.Stringer as FullName, so ElemIDs print usefully in
// error messages and test failures.
func (id ElemID) String() string {
	return id.FullName()
}

// Equal reports whether id and other name the same element (spec §3.1:
// "two ElemIDs are equal iff tuples are equal").
func (id ElemID) Equal(other ElemID) bool {
	return id.Adapter == other.Adapter &&
		id.Type == other.Type &&
		id.IDType == other.IDType &&
		slices.Equal(id.NameParts, other.NameParts)
}

// Compare imposes a total, deterministic order over ElemIDs so that
// merge/validation error lists and source-map iteration can be sorted
// reproducibly regardless of input order (spec §5 ordering guarantees).
func (id ElemID) Compare(other ElemID) int {
	if c := cmp.Compare(id.Adapter, other.Adapter); c != 0 {
		return c
	}
	if c := cmp.Compare(id.Type, other.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(id.IDType, other.IDType); c != 0 {
		return c
	}
	n := min(len(id.NameParts), len(other.NameParts))
	for i := 0; i < n; i++ {
		if c := cmp.Compare(id.NameParts[i], other.NameParts[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(id.NameParts), len(other.NameParts))
}

// GoString gives ElemID a useful %#v rendering for test failure output.
func (id ElemID) GoString() string {
	return fmt.Sprintf("elemid.ElemID{%s}", id.FullName())
}
