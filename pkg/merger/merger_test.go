package merger_test

import (
	"math/rand"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/merger"
)

var cmpOpts = cmp.AllowUnexported(element.Value{})

func updateMarkerType() elemid.ElemID {
	return elemid.New("builtin", "update")
}

func strField(parent elemid.ElemID, name string) *element.Field {
	return &element.Field{
		ParentID: parent,
		Name:     name,
		Type:     element.PlaceholderTypeRef(elemid.New("builtin", "STRING")),
	}
}

// scenario 1 from spec §8: a base plus marker-typed field updates and
// annotation updates merge into one ObjectType with zero errors.
func TestMerge_UpdateWinsType(t *testing.T) {
	id := elemid.New("salesforce", "Account")
	base := &element.ObjectType{
		ID: id,
		Fields: map[string]*element.Field{
			"field1": strField(id, "field1"),
			"field2": strField(id, "field2"),
		},
	}
	update1 := &element.ObjectType{
		ID: id,
		Fields: map[string]*element.Field{
			"field1": {ParentID: id, Name: "field1", Type: element.PlaceholderTypeRef(updateMarkerType())},
		},
	}
	update2 := &element.ObjectType{
		ID: id,
		Fields: map[string]*element.Field{
			"field2": {ParentID: id, Name: "field2", Type: element.PlaceholderTypeRef(updateMarkerType())},
		},
	}
	updateAnnoType := &element.ObjectType{
		ID:              id,
		AnnotationTypes: map[string]element.TypeRef{"anno1": element.PlaceholderTypeRef(elemid.New("builtin", "STRING"))},
	}
	updateAnnoValue := &element.ObjectType{
		ID:          id,
		Annotations: map[string]element.Value{"anno1": element.String("updated")},
	}

	merged, errs := merger.Merge([]element.Element{base, update1, update2, updateAnnoType, updateAnnoValue})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.HasLen(merged, 1))

	obj := merged[0].(*element.ObjectType)
	qt.Assert(t, qt.DeepEquals(obj.Fields["field1"].Type.ID, elemid.New("builtin", "STRING")))
	qt.Assert(t, qt.DeepEquals(obj.Fields["field2"].Type.ID, elemid.New("builtin", "STRING")))
	qt.Assert(t, qt.IsTrue(obj.Annotations["anno1"].Equal(element.String("updated"))))
}

// scenario 2: an update names a field the base doesn't declare.
func TestMerge_MissingBaseField(t *testing.T) {
	id := elemid.New("adapter", "base")
	base := &element.ObjectType{
		ID:     id,
		Fields: map[string]*element.Field{"field1": strField(id, "field1")},
	}
	update := &element.ObjectType{
		ID:     id,
		Fields: map[string]*element.Field{"field3": {ParentID: id, Name: "field3", Type: element.PlaceholderTypeRef(updateMarkerType())}},
	}

	merged, errs := merger.Merge([]element.Element{base, update})
	qt.Assert(t, qt.HasLen(merged, 1))
	qt.Assert(t, qt.HasLen(errs, 1))

	var target *merger.NoBaseDefinitionMergeError
	qt.Assert(t, qt.ErrorAs(errs[0], &target))
	qt.Assert(t, qt.DeepEquals(target.ElemID(), id.CreateNestedID("field3")))
}

// scenario 3: two instance declarations disagree on a shared key.
func TestMerge_ConflictingInstanceKeys(t *testing.T) {
	instID := elemid.NewInstance("adapter", "T", "ins")
	typeID := elemid.New("adapter", "T")
	ins1 := &element.InstanceElement{
		ID:    instID,
		Type:  element.PlaceholderTypeRef(typeID),
		Value: map[string]element.Value{"field2": element.String("ins1")},
	}
	ins2 := &element.InstanceElement{
		ID:    instID,
		Type:  element.PlaceholderTypeRef(typeID),
		Value: map[string]element.Value{"field1": element.String("ins1"), "field2": element.String("ins2")},
	}

	_, errs := merger.Merge([]element.Element{ins1, ins2})
	qt.Assert(t, qt.HasLen(errs, 1))
	var target *merger.DuplicateInstanceKeyError
	qt.Assert(t, qt.ErrorAs(errs[0], &target))
	qt.Assert(t, qt.DeepEquals(target.ElemID(), instID.CreateNestedID("field2")))
}

// scenario 4: default injection cascade - a missing field takes its
// field-level DEFAULT, and a present field is not overwritten by its
// type's DEFAULT.
func TestMerge_DefaultInjectionCascade(t *testing.T) {
	adapter := "adapter"
	typeWithDefaultID := elemid.New(adapter, "HasDefault")
	typeWithDefault := &element.ObjectType{
		ID:          typeWithDefaultID,
		Annotations: map[string]element.Value{element.DefaultAnnotation: element.String("type")},
	}

	nestedID := elemid.New(adapter, "Nested")
	field1 := &element.Field{ParentID: nestedID, Name: "field1", Type: element.PlaceholderTypeRef(elemid.New("builtin", "STRING")),
		Annotations: map[string]element.Value{element.DefaultAnnotation: element.String("field1")}}
	field2 := &element.Field{ParentID: nestedID, Name: "field2", Type: element.PlaceholderTypeRef(typeWithDefaultID)}
	nested := &element.ObjectType{
		ID:     nestedID,
		Fields: map[string]*element.Field{"field1": field1, "field2": field2},
	}

	instID := elemid.NewInstance(adapter, "Nested", "inst1")
	inst := &element.InstanceElement{
		ID:    instID,
		Type:  element.PlaceholderTypeRef(nestedID),
		Value: map[string]element.Value{"field2": element.String("ins1")},
	}

	merged, errs := merger.Merge([]element.Element{typeWithDefault, nested, inst})
	qt.Assert(t, qt.HasLen(errs, 0))

	var mergedInst *element.InstanceElement
	for _, e := range merged {
		if i, ok := e.(*element.InstanceElement); ok {
			mergedInst = i
		}
	}
	qt.Assert(t, qt.IsTrue(mergedInst != nil))
	qt.Assert(t, qt.IsTrue(mergedInst.Value["field1"].Equal(element.String("field1"))))
	qt.Assert(t, qt.IsTrue(mergedInst.Value["field2"].Equal(element.String("ins1"))))
}

// scenario 5: a self-referential type does not make the merger (or its
// default-injection pass) recurse forever.
func TestMerge_RecursiveTypeStability(t *testing.T) {
	id := elemid.New("adapter", "recursive")
	field := &element.Field{ParentID: id, Name: "field", Type: element.PlaceholderTypeRef(id)}
	typ := &element.ObjectType{ID: id, Fields: map[string]*element.Field{"field": field}}
	inst := &element.InstanceElement{
		ID:    elemid.NewInstance("adapter", "recursive", "inst1"),
		Type:  element.PlaceholderTypeRef(id),
		Value: map[string]element.Value{},
	}

	done := make(chan struct{})
	var merged []element.Element
	var errs []error
	go func() {
		m, e := merger.Merge([]element.Element{typ, inst})
		merged = m
		for _, err := range e {
			errs = append(errs, err)
		}
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	<-done
	qt.Assert(t, qt.HasLen(merged, 2))
	qt.Assert(t, qt.HasLen(errs, 0))
}

// scenario 6: variable uniqueness.
func TestMerge_VariableUniqueness(t *testing.T) {
	v1 := &element.Variable{ID: elemid.NewVar("varName"), Value: element.Number(1)}
	v2 := &element.Variable{ID: elemid.NewVar("varName"), Value: element.Number(2)}
	_, errs := merger.Merge([]element.Element{v1, v2})
	qt.Assert(t, qt.HasLen(errs, 1))
	var target *merger.DuplicateVariableNameError
	qt.Assert(t, qt.ErrorAs(errs[0], &target))

	va := &element.Variable{ID: elemid.NewVar("a"), Value: element.Number(1)}
	vb := &element.Variable{ID: elemid.NewVar("b"), Value: element.Number(2)}
	merged, errs2 := merger.Merge([]element.Element{va, vb})
	qt.Assert(t, qt.HasLen(errs2, 0))
	qt.Assert(t, qt.HasLen(merged, 2))
}

// I1: merging any permutation of the same input elements yields
// structurally equal merged output (up to error-list order).
func TestMerge_DeterminismUnderPermutation(t *testing.T) {
	id := elemid.New("adapter", "T")
	base := &element.ObjectType{ID: id, Fields: map[string]*element.Field{"f": strField(id, "f")}}
	upd := &element.ObjectType{ID: id, Annotations: map[string]element.Value{"a": element.String("v")}}
	instID := elemid.NewInstance("adapter", "T", "i")
	ins1 := &element.InstanceElement{ID: instID, Type: element.PlaceholderTypeRef(id), Value: map[string]element.Value{"x": element.Number(1)}}
	ins2 := &element.InstanceElement{ID: instID, Type: element.PlaceholderTypeRef(id), Value: map[string]element.Value{"y": element.Number(2)}}

	elements := []element.Element{base, upd, ins1, ins2}
	first, firstErrs := merger.Merge(append([]element.Element{}, elements...))

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		perm := append([]element.Element{}, elements...)
		rnd.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		merged, errs := merger.Merge(perm)
		if diff := cmp.Diff(first, merged, cmpOpts); diff != "" {
			t.Fatalf("merge not permutation invariant: %s", diff)
		}
		qt.Assert(t, qt.Equals(len(errs), len(firstErrs)))
	}
}

// I2: merging a single element yields that element unchanged.
func TestMerge_IdentityOnSingleElement(t *testing.T) {
	id := elemid.New("adapter", "Solo")
	obj := &element.ObjectType{ID: id, Fields: map[string]*element.Field{"f": strField(id, "f")}}
	merged, errs := merger.Merge([]element.Element{obj})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.HasLen(merged, 1))
	if diff := cmp.Diff(obj, merged[0], cmpOpts); diff != "" {
		t.Fatalf("single-element merge changed the element: %s", diff)
	}
}

// I3: a no-op update (no fields, no annotations) leaves the base
// unchanged.
func TestMerge_NoOpUpdate(t *testing.T) {
	id := elemid.New("adapter", "T")
	base := &element.ObjectType{ID: id, Fields: map[string]*element.Field{"f": strField(id, "f")}}
	noop := &element.ObjectType{ID: id}

	merged, errs := merger.Merge([]element.Element{base, noop})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.HasLen(merged, 1))
	obj := merged[0].(*element.ObjectType)
	qt.Assert(t, qt.DeepEquals(obj.Fields["f"].Type.ID, elemid.New("builtin", "STRING")))
}
