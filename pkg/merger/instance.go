package merger

import (
	"strings"

	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
)

// mergeInstanceGroups applies the §4.1.3 instance deep-merge algorithm,
// then the §4.1.4 default-injection pass, to every ElemID group of
// InstanceElement declarations. mergedObjects is keyed by the owning
// ObjectType's full name so default values can be looked up without
// waiting for the (separate, post-merge) Reference Resolver pass.
func mergeInstanceGroups(groups map[string][]*element.InstanceElement, mergedObjects []*element.ObjectType, errs *errlist.List) []*element.InstanceElement {
	objectsByName := make(map[string]*element.ObjectType, len(mergedObjects))
	for _, o := range mergedObjects {
		objectsByName[o.ID.FullName()] = o
	}

	keys := sortedKeys(groups)
	out := make([]*element.InstanceElement, 0, len(groups))
	for _, key := range keys {
		decls := groups[key]
		stableSortBySourceRange(decls, (*element.InstanceElement).Ranges)

		first := decls[0]
		merged := &element.InstanceElement{
			ID:          first.ID,
			Type:        first.Type,
			Value:       element.CloneMap(first.Value),
			Annotations: element.CloneMap(first.Annotations),
		}
		merged.SourceRanges = append(merged.SourceRanges, first.SourceRanges...)

		vm := &valueMerger{instanceID: merged.ID, errs: errs}
		for _, d := range decls[1:] {
			merged.Value = vm.merge(merged.Value, d.Value, nil)
			for key, val := range d.Annotations {
				if existing, exists := merged.Annotations[key]; exists {
					if !existing.Equal(val) {
						errs.Add(newDuplicateAnnotationError(merged.ID, key))
					}
					continue
				}
				if merged.Annotations == nil {
					merged.Annotations = map[string]element.Value{}
				}
				merged.Annotations[key] = val
			}
			merged.SourceRanges = append(merged.SourceRanges, d.SourceRanges...)
		}

		if objType, ok := objectsByName[merged.Type.ID.FullName()]; ok {
			injectDefaults(merged, objType, objectsByName, errlist.NewElemIDSet())
		}

		out = append(out, merged)
	}
	return out
}

// valueMerger implements the deep-merge rule of §4.1.3: maps merge
// recursively key by key, while lists and scalars merge silently only
// when equal and otherwise raise a DuplicateInstanceKeyError pointing at
// the offending nested path.
type valueMerger struct {
	instanceID elemid.ElemID
	errs       *errlist.List
}

// merge folds src into dst, recursing into nested maps and reporting a
// DuplicateInstanceKeyError for every differing scalar/list collision.
// The returned map is always a new value; dst is never mutated in place.
func (vm *valueMerger) merge(dst, src map[string]element.Value, path []string) map[string]element.Value {
	out := element.CloneMap(dst)
	for k, sv := range src {
		dv, exists := out[k]
		if !exists {
			out[k] = sv
			continue
		}
		childPath := append(append([]string{}, path...), k)
		if dv.Kind() == element.KindMap && sv.Kind() == element.KindMap {
			dm, _ := dv.Map()
			sm, _ := sv.Map()
			out[k] = element.Map(vm.merge(dm, sm, childPath))
			continue
		}
		if dv.Equal(sv) {
			continue
		}
		vm.errs.Add(newDuplicateInstanceKeyError(vm.instanceID.CreateNestedID(childPath...), strings.Join(childPath, ".")))
	}
	return out
}

