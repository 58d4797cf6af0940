// Package resolver implements the Reference Resolver (spec §4.2): a
// single post-merge pass over the merged element graph that replaces
// every TypeRef placeholder with a handle to the concrete merged type
// carrying the same ElemID, leaving placeholders for ElemIDs that don't
// resolve to anything (downstream validation reports those).
package resolver

import (
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
)

// Resolve mutates merged in place, populating every TypeRef it can find
// inside a Field's type, an ObjectType/PrimitiveType's annotation types,
// a ListType's inner type, or an InstanceElement's type. It is safe to
// call twice: resolving an already-resolved TypeRef is a no-op overwrite
// with the same value (spec §8 I5, reference idempotence).
func Resolve(merged []element.Element) {
	byID := make(map[string]element.Type, len(merged))
	for _, e := range merged {
		switch v := e.(type) {
		case *element.ObjectType:
			byID[v.ID.FullName()] = v
		case *element.PrimitiveType:
			byID[v.ID.FullName()] = v
		}
	}

	r := &resolution{byID: byID}
	for _, e := range merged {
		switch v := e.(type) {
		case *element.ObjectType:
			r.resolveObject(v)
		case *element.PrimitiveType:
			r.resolveAnnotationTypes(v.AnnotationTypes)
		case *element.InstanceElement:
			v.Type = r.resolveTypeRef(v.Type, errlist.NewElemIDSet())
		}
	}
}

type resolution struct {
	byID map[string]element.Type
}

func (r *resolution) resolveObject(o *element.ObjectType) {
	r.resolveAnnotationTypes(o.AnnotationTypes)
	for _, f := range o.Fields {
		f.Type = r.resolveTypeRef(f.Type, errlist.NewElemIDSet())
	}
}

func (r *resolution) resolveAnnotationTypes(m map[string]element.TypeRef) {
	for k, tr := range m {
		m[k] = r.resolveTypeRef(tr, errlist.NewElemIDSet())
	}
}

// resolveTypeRef resolves tr against the merged-element arena. A TypeRef
// that is already resolved to a List<...> wrapper still needs its inner
// TypeRef resolved, since the parser builds ListType wrappers directly
// rather than as a merged, ElemID-addressable element (spec §3.2); every
// other already-resolved TypeRef is left untouched, which is what makes a
// second Resolve pass a no-op (spec §8 I5). visited guards the List<...>
// recursion against a pathological self-referential chain (spec §4.2,
// §9): once an ElemID has been visited in this resolution chain, it is
// not re-entered.
func (r *resolution) resolveTypeRef(tr element.TypeRef, visited errlist.ElemIDSet) element.TypeRef {
	if lt, ok := tr.Resolved.(*element.ListType); ok {
		if !visited.Add(tr.ID) {
			lt.Inner = r.resolveTypeRef(lt.Inner, visited)
		}
		return tr
	}
	if tr.IsResolved() {
		return tr
	}
	target, ok := r.byID[tr.ID.FullName()]
	if !ok {
		return element.PlaceholderTypeRef(tr.ID)
	}
	return element.ResolvedTypeRef(tr.ID, target)
}
