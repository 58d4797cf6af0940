package merger

import (
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
)

// injectDefaults fills in every field of objType missing from inst.Value,
// following §4.1.4: a field-level DEFAULT annotation wins when present;
// otherwise, when the field's declared type is a merged ObjectType, that
// type's own DEFAULT annotation is used. A DEFAULT annotation on a
// PrimitiveType is not consulted.
// Present keys, including explicit nulls, are never overwritten. visited
// guards against infinite recursion through self-referential types (spec
// §4.1.4, §9, scenario 5).
func injectDefaults(inst *element.InstanceElement, objType *element.ObjectType, objectsByName map[string]*element.ObjectType, visited errlist.ElemIDSet) {
	if visited.Add(objType.ID) {
		return
	}
	if inst.Value == nil {
		inst.Value = map[string]element.Value{}
	}
	for name, field := range objType.Fields {
		if _, present := inst.Value[name]; present {
			continue
		}
		if v, ok := field.Annotations[element.DefaultAnnotation]; ok {
			inst.Value[name] = v
			continue
		}
		if fieldType, ok := objectsByName[field.Type.ID.FullName()]; ok {
			if v, ok := fieldType.Annotations[element.DefaultAnnotation]; ok {
				inst.Value[name] = v
				continue
			}
		}
	}
}

// CreateDefaultInstanceFromType builds the value map for a fresh instance
// of objType using only field-level DEFAULT annotations, recursing into
// nested object-typed fields and terminating on a type ElemID already
// seen (spec §4.1.4's create_default_instance_from_type helper).
func CreateDefaultInstanceFromType(objType *element.ObjectType, objectsByName map[string]*element.ObjectType) map[string]element.Value {
	return createDefaultValue(objType, objectsByName, errlist.NewElemIDSet())
}

func createDefaultValue(objType *element.ObjectType, objectsByName map[string]*element.ObjectType, visited errlist.ElemIDSet) map[string]element.Value {
	out := map[string]element.Value{}
	if visited.Add(objType.ID) {
		return out
	}
	for name, field := range objType.Fields {
		if v, ok := field.Annotations[element.DefaultAnnotation]; ok {
			out[name] = v
			continue
		}
		if nested, ok := objectsByName[field.Type.ID.FullName()]; ok {
			nestedValue := createDefaultValue(nested, objectsByName, visited)
			if len(nestedValue) > 0 {
				out[name] = element.Map(nestedValue)
			}
		}
	}
	return out
}
