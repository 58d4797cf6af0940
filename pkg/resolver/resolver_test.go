package resolver_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/resolver"
)

func TestResolve_FieldAndInstanceTypes(t *testing.T) {
	strID := elemid.New("builtin", "STRING")
	str := &element.PrimitiveType{ID: strID, Primitive: element.PrimitiveString}

	objID := elemid.New("adapter", "T")
	field := &element.Field{ParentID: objID, Name: "f", Type: element.PlaceholderTypeRef(strID)}
	obj := &element.ObjectType{ID: objID, Fields: map[string]*element.Field{"f": field}}

	instID := elemid.NewInstance("adapter", "T", "i")
	inst := &element.InstanceElement{ID: instID, Type: element.PlaceholderTypeRef(objID)}

	merged := []element.Element{str, obj, inst}
	resolver.Resolve(merged)

	qt.Assert(t, qt.IsTrue(field.Type.IsResolved()))
	qt.Assert(t, qt.Equals(field.Type.Resolved, element.Type(str)))
	qt.Assert(t, qt.IsTrue(inst.Type.IsResolved()))
	qt.Assert(t, qt.Equals(inst.Type.Resolved, element.Type(obj)))
}

func TestResolve_UnresolvedPlaceholderStays(t *testing.T) {
	objID := elemid.New("adapter", "T")
	field := &element.Field{ParentID: objID, Name: "f", Type: element.PlaceholderTypeRef(elemid.New("adapter", "Missing"))}
	obj := &element.ObjectType{ID: objID, Fields: map[string]*element.Field{"f": field}}

	resolver.Resolve([]element.Element{obj})

	qt.Assert(t, qt.IsFalse(field.Type.IsResolved()))
	qt.Assert(t, qt.DeepEquals(field.Type.ID, elemid.New("adapter", "Missing")))
}

func TestResolve_RecursiveTypeTerminates(t *testing.T) {
	id := elemid.New("adapter", "recursive")
	field := &element.Field{ParentID: id, Name: "field", Type: element.PlaceholderTypeRef(id)}
	obj := &element.ObjectType{ID: id, Fields: map[string]*element.Field{"field": field}}

	done := make(chan struct{})
	go func() {
		resolver.Resolve([]element.Element{obj})
		close(done)
	}()
	<-done
	qt.Assert(t, qt.IsTrue(field.Type.IsResolved()))
	qt.Assert(t, qt.Equals(field.Type.Resolved, element.Type(obj)))
}

// I5: resolving twice is idempotent.
func TestResolve_Idempotent(t *testing.T) {
	strID := elemid.New("builtin", "STRING")
	str := &element.PrimitiveType{ID: strID, Primitive: element.PrimitiveString}
	objID := elemid.New("adapter", "T")
	field := &element.Field{ParentID: objID, Name: "f", Type: element.PlaceholderTypeRef(strID)}
	obj := &element.ObjectType{ID: objID, Fields: map[string]*element.Field{"f": field}}

	merged := []element.Element{str, obj}
	resolver.Resolve(merged)
	first := field.Type
	resolver.Resolve(merged)
	qt.Assert(t, qt.DeepEquals(field.Type.ID, first.ID))
	qt.Assert(t, qt.Equals(field.Type.Resolved, first.Resolved))
}

func TestResolve_ListInnerType(t *testing.T) {
	strID := elemid.New("builtin", "STRING")
	str := &element.PrimitiveType{ID: strID, Primitive: element.PrimitiveString}

	objID := elemid.New("adapter", "T")
	listType := &element.ListType{Inner: element.PlaceholderTypeRef(strID)}
	field := &element.Field{ParentID: objID, Name: "f", Type: element.ResolvedTypeRef(elemid.New("adapter", "ListOfString"), listType)}
	obj := &element.ObjectType{ID: objID, Fields: map[string]*element.Field{"f": field}}

	resolver.Resolve([]element.Element{str, obj})

	qt.Assert(t, qt.IsTrue(listType.Inner.IsResolved()))
	qt.Assert(t, qt.Equals(listType.Inner.Resolved, element.Type(str)))
}
