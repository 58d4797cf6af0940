// Package merger implements the identity-keyed fold described in spec
// §4.1: a flat, unordered sequence of elements goes in, a deduplicated
// sequence of merged elements plus an ordered list of typed merge
// failures comes out. The fold is designed so that any permutation of
// the input produces the same merged output and the same error
// membership (spec §8 I1).
package merger

import (
	"sort"

	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
)

// Merge folds elements into merged output plus an error list, following
// the classification and merge rules of spec §4.1.
func Merge(elements []element.Element) ([]element.Element, errlist.List) {
	var errs errlist.List

	objectGroups := map[string][]*element.ObjectType{}
	primitiveGroups := map[string][]*element.PrimitiveType{}
	instanceGroups := map[string][]*element.InstanceElement{}
	variableGroups := map[string][]*element.Variable{}

	for _, e := range elements {
		switch v := e.(type) {
		case *element.ObjectType:
			key := v.ID.FullName()
			objectGroups[key] = append(objectGroups[key], v)
		case *element.PrimitiveType:
			key := v.ID.FullName()
			primitiveGroups[key] = append(primitiveGroups[key], v)
		case *element.InstanceElement:
			key := v.ID.FullName()
			instanceGroups[key] = append(instanceGroups[key], v)
		case *element.Variable:
			key := v.ID.FullName()
			variableGroups[key] = append(variableGroups[key], v)
		}
	}

	mergedObjects := mergeObjectGroups(objectGroups, &errs)
	mergedPrimitives := mergePrimitiveGroups(primitiveGroups, &errs)
	mergedInstances := mergeInstanceGroups(instanceGroups, mergedObjects, &errs)
	mergedVariables := mergeVariableGroups(variableGroups, &errs)

	out := make([]element.Element, 0, len(mergedObjects)+len(mergedPrimitives)+len(mergedInstances)+len(mergedVariables))
	for _, o := range mergedObjects {
		out = append(out, o)
	}
	for _, p := range mergedPrimitives {
		out = append(out, p)
	}
	for _, i := range mergedInstances {
		out = append(out, i)
	}
	for _, v := range mergedVariables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ElemID().Compare(out[j].ElemID()) < 0
	})

	return out, errs
}

func mergePrimitiveGroups(groups map[string][]*element.PrimitiveType, errs *errlist.List) []*element.PrimitiveType {
	keys := sortedKeys(groups)
	out := make([]*element.PrimitiveType, 0, len(groups))
	for _, key := range keys {
		decls := groups[key]
		if len(decls) > 1 {
			errs.Add(newMultiplePrimitiveTypesUnsupportedError(decls[0].ID))
			continue
		}
		out = append(out, decls[0])
	}
	return out
}

func mergeVariableGroups(groups map[string][]*element.Variable, errs *errlist.List) []*element.Variable {
	keys := sortedKeys(groups)
	out := make([]*element.Variable, 0, len(groups))
	for _, key := range keys {
		decls := groups[key]
		if len(decls) > 1 {
			errs.Add(newDuplicateVariableNameError(decls[0].ID))
			continue
		}
		out = append(out, decls[0])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

