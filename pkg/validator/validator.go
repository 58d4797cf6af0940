// Package validator implements the Validator (spec §4.3): a read-only pass
// over the merged, resolved element graph that reports structural problems
// the Merger and Reference Resolver can't catch on their own — unresolved
// references, value/type mismatches, reference cycles and missing required
// fields. It never mutates its input.
package validator

import (
	"strconv"

	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
)

// Validate walks every InstanceElement in merged and returns every
// validation error found, in no particular order (callers that want a
// stable rendering should call errlist.List.SortByElemID).
func Validate(merged []element.Element) errlist.List {
	byID := make(map[string]element.Element, len(merged))
	for _, e := range merged {
		byID[e.ElemID().FullName()] = e
	}
	v := &validation{byID: byID}
	for _, e := range merged {
		if inst, ok := e.(*element.InstanceElement); ok {
			v.validateInstance(inst)
		}
	}
	return v.errs
}

type validation struct {
	byID map[string]element.Element
	errs errlist.List
}

func (v *validation) validateInstance(inst *element.InstanceElement) {
	if !inst.Type.IsResolved() {
		v.errs.Add(newUnresolvedReferenceValidationError(inst.ID, inst.Type.ID.FullName()))
		v.walkFields(inst.Value, nil, inst.ID)
		return
	}
	objType, ok := inst.Type.Resolved.(*element.ObjectType)
	if !ok {
		v.errs.Add(newInvalidValueTypeValidationError(inst.ID, "instance type is not an object type"))
		return
	}
	v.walkFields(inst.Value, objType.Fields, inst.ID)
}

// walkFields visits every key of value exactly once: keys with a declared
// field are checked against that field's type, and every required field
// absent from value is reported. fields is nil when the instance's type
// itself failed to resolve, in which case only reference checks run.
func (v *validation) walkFields(value map[string]element.Value, fields map[string]*element.Field, originID elemid.ElemID) {
	for key, val := range value {
		f, hasField := fields[key]
		nested := originID.CreateNestedID(key)
		if hasField {
			v.walkValue(val, f.Type, true, nested)
		} else {
			v.walkValue(val, element.TypeRef{}, false, nested)
		}
	}
	for name, f := range fields {
		if _, present := value[name]; present {
			continue
		}
		if required, ok := f.Annotations[element.RequiredAnnotation]; ok {
			if b, isBool := required.Bool(); isBool && b {
				v.errs.Add(newMissingRequiredFieldValidationError(originID.CreateNestedID(name), name))
			}
		}
	}
}

// walkValue visits a single value node exactly once. When hasType is true,
// expectedType is the declared type val is supposed to conform to;
// references defer their own type checking to whatever they resolve to, so
// they are reported via checkReference instead of the switch below.
func (v *validation) walkValue(val element.Value, expectedType element.TypeRef, hasType bool, originID elemid.ElemID) {
	if ref, isRef := val.Reference(); isRef {
		v.checkReference(ref, originID)
		return
	}

	switch val.Kind() {
	case element.KindMap:
		m, _ := val.Map()
		if hasType {
			switch t := expectedType.Resolved.(type) {
			case *element.ObjectType:
				v.walkFields(m, t.Fields, originID)
				return
			case nil:
				if expectedType.ID.FullName() != "" {
					v.errs.Add(newUnresolvedReferenceValidationError(originID, expectedType.ID.FullName()))
				}
			default:
				v.errs.Add(newInvalidValueTypeValidationError(originID, "expected an object-typed value"))
			}
		}
		for k, sub := range m {
			v.walkValue(sub, element.TypeRef{}, false, originID.CreateNestedID(k))
		}

	case element.KindList:
		list, _ := val.List()
		var inner element.TypeRef
		innerKnown := false
		if hasType {
			switch t := expectedType.Resolved.(type) {
			case *element.ListType:
				inner, innerKnown = t.Inner, true
			case nil:
				if expectedType.ID.FullName() != "" {
					v.errs.Add(newUnresolvedReferenceValidationError(originID, expectedType.ID.FullName()))
				}
			default:
				v.errs.Add(newInvalidValueTypeValidationError(originID, "expected a list-typed value"))
			}
		}
		for i, item := range list {
			v.walkValue(item, inner, innerKnown, originID.CreateNestedID(strconv.Itoa(i)))
		}

	default: // scalar or null leaf
		if !hasType || val.Kind() == element.KindNull {
			return
		}
		switch t := expectedType.Resolved.(type) {
		case *element.PrimitiveType:
			if !primitiveMatches(t.Primitive, val.Kind()) {
				v.errs.Add(newInvalidValueTypeValidationError(originID, "expected "+string(t.Primitive)+", got "+val.Kind().String()))
			}
		case *element.ListType:
			v.errs.Add(newInvalidValueTypeValidationError(originID, "expected a list-typed value"))
		case *element.ObjectType:
			v.errs.Add(newInvalidValueTypeValidationError(originID, "expected an object-typed value"))
		case nil:
			if expectedType.ID.FullName() != "" {
				v.errs.Add(newUnresolvedReferenceValidationError(originID, expectedType.ID.FullName()))
			}
		}
	}
}

func primitiveMatches(p element.Primitive, k element.Kind) bool {
	switch p {
	case element.PrimitiveString:
		return k == element.KindString
	case element.PrimitiveNumber:
		return k == element.KindNumber
	case element.PrimitiveBoolean:
		return k == element.KindBool
	default:
		return true
	}
}

// checkReference follows ref through the merged element graph, reporting
// an unresolved reference if its target (or any intermediate hop) doesn't
// exist, and a circular reference if the chain revisits a traversal it has
// already seen (spec §4.3: "visited-set keyed by the dotted traversal
// path").
func (v *validation) checkReference(ref element.ReferenceExpression, originID elemid.ElemID) {
	seen := map[string]bool{}
	cur := ref
	for {
		key := cur.Traversal()
		if seen[key] {
			v.errs.Add(newCircularReferenceValidationError(originID, key))
			return
		}
		seen[key] = true

		target, ok := v.byID[cur.TargetID.FullName()]
		if !ok {
			v.errs.Add(newUnresolvedReferenceValidationError(originID, key))
			return
		}
		val, ok := lookupPath(target, cur.Path)
		if !ok {
			v.errs.Add(newUnresolvedReferenceValidationError(originID, key))
			return
		}
		next, isRef := val.Reference()
		if !isRef {
			return
		}
		cur = next
	}
}

// lookupPath navigates path into target's own value, if it has one. An
// empty path against any existing element is itself a resolved reference
// (e.g. a reference naming a type rather than a value inside it).
func lookupPath(target element.Element, path []string) (element.Value, bool) {
	var root element.Value
	switch t := target.(type) {
	case *element.InstanceElement:
		root = element.Map(t.Value)
	case *element.Variable:
		root = t.Value
	default:
		if len(path) == 0 {
			return element.Null(), true
		}
		return element.Value{}, false
	}
	cur := root
	for _, p := range path {
		m, ok := cur.Map()
		if !ok {
			return element.Value{}, false
		}
		next, ok := m[p]
		if !ok {
			return element.Value{}, false
		}
		cur = next
	}
	return cur, true
}
