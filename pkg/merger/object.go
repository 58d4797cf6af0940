package merger

import (
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
)

// mergeObjectGroups applies the §4.1.2 object merge algorithm to every
// ElemID group of ObjectType declarations.
func mergeObjectGroups(groups map[string][]*element.ObjectType, errs *errlist.List) []*element.ObjectType {
	keys := sortedKeys(groups)
	out := make([]*element.ObjectType, 0, len(groups))
	for _, key := range keys {
		decls := groups[key]
		stableSortBySourceRange(decls, (*element.ObjectType).Ranges)

		var base *element.ObjectType
		var baseCount int
		var updates []*element.ObjectType
		for _, d := range decls {
			if d.IsUpdateDeclaration() {
				updates = append(updates, d)
				continue
			}
			baseCount++
			if base == nil {
				base = d
			}
		}

		// When no declaration in the group is a base, the first field-less
		// declaration (if any) serves as the base and the remaining
		// declarations apply to it as updates. This lets a standalone
		// annotation-only type merge on its own.
		if baseCount == 0 {
			for i, d := range updates {
				if len(d.Fields) == 0 {
					base, baseCount = d, 1
					updates = append(updates[:i:i], updates[i+1:]...)
					break
				}
			}
		}

		switch {
		case baseCount == 0:
			errs.Add(newNoBaseDefinitionMergeError(decls[0].ID, "no base definition found"))
			continue
		case baseCount > 1:
			errs.Add(newMultipleBaseDefinitionsMergeError(decls[0].ID, baseCount))
			continue
		}

		merged := &element.ObjectType{
			ID:              base.ID,
			Fields:          cloneFields(base.Fields),
			Annotations:     cloneValueMap(base.Annotations),
			AnnotationTypes: cloneTypeRefMap(base.AnnotationTypes),
			IsSettings:      base.IsSettings,
		}
		merged.SourceRanges = append(merged.SourceRanges, base.SourceRanges...)
		for _, d := range decls {
			if d != base {
				merged.SourceRanges = append(merged.SourceRanges, d.SourceRanges...)
			}
		}

		for _, u := range updates {
			applyObjectUpdate(merged, u, errs)
		}

		out = append(out, merged)
	}
	return out
}

// applyObjectUpdate folds one update declaration's field, annotation and
// annotation-type contributions into merged, following §4.1.2 steps 2-3.
func applyObjectUpdate(merged *element.ObjectType, update *element.ObjectType, errs *errlist.List) {
	for name, field := range update.Fields {
		baseField, ok := merged.Fields[name]
		if !ok {
			errs.Add(newNoBaseDefinitionMergeError(merged.ID.CreateNestedID(name), "update names a field absent from the base"))
			continue
		}
		// A field typed with the reserved update marker only flags the
		// field as touched; it carries no real type override (see
		// DESIGN.md's resolution of the marker-typed-field open
		// question). Any other declared type is treated as a genuine
		// override.
		if !field.IsUpdateMarker() {
			baseField.Type = field.Type
		}
		for key, val := range field.Annotations {
			if existing, exists := baseField.Annotations[key]; exists {
				if !existing.Equal(val) {
					errs.Add(newDuplicateAnnotationFieldDefinitionError(baseField.ElemID(), key))
				}
				continue
			}
			if baseField.Annotations == nil {
				baseField.Annotations = map[string]element.Value{}
			}
			baseField.Annotations[key] = val
		}
	}

	for key, val := range update.Annotations {
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

	for key, tr := range update.AnnotationTypes {
		if existing, exists := merged.AnnotationTypes[key]; exists {
			if !existing.Equal(tr) {
				errs.Add(newDuplicateAnnotationTypeError(merged.ID, key))
			}
			continue
		}
		if merged.AnnotationTypes == nil {
			merged.AnnotationTypes = map[string]element.TypeRef{}
		}
		merged.AnnotationTypes[key] = tr
	}
}

// The clone helpers below keep a nil map nil, so an element merged on its
// own comes out structurally identical to its input.

func cloneFields(fields map[string]*element.Field) map[string]*element.Field {
	if fields == nil {
		return nil
	}
	out := make(map[string]*element.Field, len(fields))
	for name, f := range fields {
		cp := *f
		cp.Annotations = cloneValueMap(f.Annotations)
		out[name] = &cp
	}
	return out
}

func cloneValueMap(m map[string]element.Value) map[string]element.Value {
	if m == nil {
		return nil
	}
	return element.CloneMap(m)
}

func cloneTypeRefMap(m map[string]element.TypeRef) map[string]element.TypeRef {
	if m == nil {
		return nil
	}
	out := make(map[string]element.TypeRef, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
