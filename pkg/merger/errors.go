package merger

import (
	"fmt"

	"salto.dev/core/pkg/elemid"
)

// mergeError is the shared base embedded by every named merge error. Per
// spec §7/§9, stringifying any merge error must yield
// "Error merging <full_name>: <message>", and every error carries the
// ElemID it was raised against.
type mergeError struct {
	id     elemid.ElemID
	reason string
}

func (e mergeError) Error() string {
	return fmt.Sprintf("Error merging %s: %s", e.id.FullName(), e.reason)
}

func (e mergeError) ElemID() elemid.ElemID { return e.id }

// NoBaseDefinitionMergeError is raised when an ObjectType ElemID has zero
// base declarations, or an update declaration names a field absent from
// the base (spec §4.1.1).
type NoBaseDefinitionMergeError struct{ mergeError }

func newNoBaseDefinitionMergeError(id elemid.ElemID, reason string) *NoBaseDefinitionMergeError {
	return &NoBaseDefinitionMergeError{mergeError{id, reason}}
}

// MultipleBaseDefinitionsMergeError is raised when more than one base
// declaration exists for the same ObjectType ElemID.
type MultipleBaseDefinitionsMergeError struct{ mergeError }

func newMultipleBaseDefinitionsMergeError(id elemid.ElemID, count int) *MultipleBaseDefinitionsMergeError {
	return &MultipleBaseDefinitionsMergeError{mergeError{id, fmt.Sprintf("found %d base definitions, expected at most 1", count)}}
}

// DuplicateAnnotationFieldDefinitionError is raised when two field
// declarations contribute the same annotation key.
type DuplicateAnnotationFieldDefinitionError struct{ mergeError }

func newDuplicateAnnotationFieldDefinitionError(id elemid.ElemID, key string) *DuplicateAnnotationFieldDefinitionError {
	return &DuplicateAnnotationFieldDefinitionError{mergeError{id, fmt.Sprintf("duplicate field annotation %q", key)}}
}

// DuplicateAnnotationTypeError is raised when two object declarations
// contribute the same annotation-type entry.
type DuplicateAnnotationTypeError struct{ mergeError }

func newDuplicateAnnotationTypeError(id elemid.ElemID, key string) *DuplicateAnnotationTypeError {
	return &DuplicateAnnotationTypeError{mergeError{id, fmt.Sprintf("duplicate annotation type %q", key)}}
}

// DuplicateAnnotationError is raised when two object declarations
// contribute the same annotation value.
type DuplicateAnnotationError struct{ mergeError }

func newDuplicateAnnotationError(id elemid.ElemID, key string) *DuplicateAnnotationError {
	return &DuplicateAnnotationError{mergeError{id, fmt.Sprintf("duplicate annotation %q", key)}}
}

// DuplicateInstanceKeyError is raised when two instances sharing an
// ElemID contribute conflicting values for the same value key.
type DuplicateInstanceKeyError struct{ mergeError }

func newDuplicateInstanceKeyError(id elemid.ElemID, key string) *DuplicateInstanceKeyError {
	return &DuplicateInstanceKeyError{mergeError{id, fmt.Sprintf("duplicate instance key %q", key)}}
}

// MultiplePrimitiveTypesUnsupportedError is raised when two PrimitiveTypes
// share an ElemID (primitive types may never be "updated").
type MultiplePrimitiveTypesUnsupportedError struct{ mergeError }

func newMultiplePrimitiveTypesUnsupportedError(id elemid.ElemID) *MultiplePrimitiveTypesUnsupportedError {
	return &MultiplePrimitiveTypesUnsupportedError{mergeError{id, "multiple primitive type definitions are not supported"}}
}

// DuplicateVariableNameError is raised when two Variables share an
// ElemID.
type DuplicateVariableNameError struct{ mergeError }

func newDuplicateVariableNameError(id elemid.ElemID) *DuplicateVariableNameError {
	return &DuplicateVariableNameError{mergeError{id, "duplicate variable definition"}}
}
