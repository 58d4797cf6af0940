package element

import (
	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/sourcerange"
)

// Primitive enumerates the built-in scalar types a PrimitiveType can wrap
// (spec §3.2).
type Primitive string

const (
	PrimitiveString  Primitive = "STRING"
	PrimitiveNumber  Primitive = "NUMBER"
	PrimitiveBoolean Primitive = "BOOLEAN"
)

// DefaultAnnotation is the reserved annotation key the default-injection
// pass looks for on both field and type annotations (spec §4.1.4).
const DefaultAnnotation = "DEFAULT"

// RequiredAnnotation is the reserved field annotation key the validator
// checks to decide whether an instance omitting that field is an error
// (spec §4.3's "required field omitted in an instance"). A field is
// required iff this annotation is present and holds Bool(true).
const RequiredAnnotation = "_required"

// UpdateMarkerSuffix is the reserved final name part that marks a field's
// declared type as the merge "update" marker type (spec §4.1.1).
const UpdateMarkerSuffix = "update"

// Type is implemented by every concrete type element a TypeRef can
// resolve to: PrimitiveType, ObjectType, and the parametric ListType
// wrapper.
type Type interface {
	isType()
}

// TypeRef is either a concrete type handle or a placeholder carrying only
// an ElemID, to be filled in by the Reference Resolver after merge (spec
// §3.2, §4.2, §9 "placeholder types").
type TypeRef struct {
	ID       elemid.ElemID
	Resolved Type
}

// PlaceholderTypeRef creates an unresolved TypeRef naming id.
func PlaceholderTypeRef(id elemid.ElemID) TypeRef {
	return TypeRef{ID: id}
}

// ResolvedTypeRef creates a TypeRef that is already resolved to t.
func ResolvedTypeRef(id elemid.ElemID, t Type) TypeRef {
	return TypeRef{ID: id, Resolved: t}
}

// IsResolved reports whether the Reference Resolver has already filled
// in this TypeRef's handle.
func (t TypeRef) IsResolved() bool {
	return t.Resolved != nil
}

// Equal compares two TypeRefs by the ElemID they name, matching spec
// §3.2's definition of ListType equality ("equal iff inner types are
// equal") and giving every other user of TypeRef the same identity-based
// comparison.
func (t TypeRef) Equal(other TypeRef) bool {
	return t.ID.Equal(other.ID)
}

// PrimitiveType is a built-in scalar type declaration (spec §3.2).
type PrimitiveType struct {
	ID              elemid.ElemID
	Primitive       Primitive
	Annotations     map[string]Value
	AnnotationTypes map[string]TypeRef
	SourceRanges    []sourcerange.SourceRange
}

func (*PrimitiveType) isType() {}

// ElemID implements Element.
func (p *PrimitiveType) ElemID() elemid.ElemID { return p.ID }

// Ranges implements Element.
func (p *PrimitiveType) Ranges() []sourcerange.SourceRange { return p.SourceRanges }

// Field is a single field declared inside an ObjectType (spec §3.2). It
// is not itself a top-level Element of the merger's input stream; it
// exists only nested inside its owning ObjectType.
type Field struct {
	ParentID    elemid.ElemID
	Name        string
	Type        TypeRef
	Annotations map[string]Value
}

// ElemID returns the field's own identity, nested under its parent type.
func (f *Field) ElemID() elemid.ElemID {
	return elemid.NewField(f.ParentID.Adapter, f.ParentID.Type, f.Name)
}

// IsUpdateMarker reports whether f's declared type is the reserved
// update-marker type: its ElemID's name parts end with "update" (spec
// §4.1.1).
func (f *Field) IsUpdateMarker() bool {
	parts := f.Type.ID.NameParts
	if len(parts) == 0 {
		return f.Type.ID.Type == UpdateMarkerSuffix
	}
	return parts[len(parts)-1] == UpdateMarkerSuffix
}

// ObjectType is a composite type declaration (spec §3.2). As merger
// *input* an ObjectType declaration may be a base or an update
// contribution for the same ElemID; see pkg/merger.
type ObjectType struct {
	ID              elemid.ElemID
	Fields          map[string]*Field
	Annotations     map[string]Value
	AnnotationTypes map[string]TypeRef
	IsSettings      bool
	SourceRanges    []sourcerange.SourceRange
}

func (*ObjectType) isType() {}

func (o *ObjectType) ElemID() elemid.ElemID              { return o.ID }
func (o *ObjectType) Ranges() []sourcerange.SourceRange { return o.SourceRanges }

// IsUpdateDeclaration reports whether every field this declaration
// carries is typed with the update marker (spec §4.1.1). A declaration
// with zero fields is treated as an update when it carries no base-only
// markers either — see the documented Open Question decision in
// DESIGN.md: an empty, annotation-only declaration is an update.
func (o *ObjectType) IsUpdateDeclaration() bool {
	if len(o.Fields) == 0 {
		return true
	}
	for _, f := range o.Fields {
		if !f.IsUpdateMarker() {
			return false
		}
	}
	return true
}

// InstanceElement is a concrete instance of an ObjectType (spec §3.2).
type InstanceElement struct {
	ID           elemid.ElemID
	Type         TypeRef
	Value        map[string]Value
	Annotations  map[string]Value
	SourceRanges []sourcerange.SourceRange
}

func (i *InstanceElement) ElemID() elemid.ElemID              { return i.ID }
func (i *InstanceElement) Ranges() []sourcerange.SourceRange { return i.SourceRanges }

// Variable is a named literal value living in the reserved "var"
// namespace (spec §3.2, §3.1).
type Variable struct {
	ID           elemid.ElemID
	Value        Value
	SourceRanges []sourcerange.SourceRange
}

func (v *Variable) ElemID() elemid.ElemID              { return v.ID }
func (v *Variable) Ranges() []sourcerange.SourceRange { return v.SourceRanges }

// ListType is a parametric wrapper type: List<Inner>. It is never itself
// merged by ElemID; two ListTypes are equal iff their inner TypeRefs
// resolve to the same ElemID (spec §3.2).
type ListType struct {
	Inner TypeRef
}

func (*ListType) isType() {}

// Equal compares two ListTypes by their inner type's identity.
func (l *ListType) Equal(other *ListType) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.Inner.Equal(other.Inner)
}

// Element is the top-level union the Merger consumes: every standalone
// declaration in a blueprint is one of these four variants (spec §3.2).
type Element interface {
	ElemID() elemid.ElemID
	Ranges() []sourcerange.SourceRange
}

var (
	_ Element = (*PrimitiveType)(nil)
	_ Element = (*ObjectType)(nil)
	_ Element = (*InstanceElement)(nil)
	_ Element = (*Variable)(nil)
)
