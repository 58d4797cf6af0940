package validator

import (
	"fmt"

	"salto.dev/core/pkg/elemid"
)

// validationError is the shared base embedded by every named validation
// error. Per spec §4.3/§7, every validation error carries the ElemID it
// was raised against, a human-readable message, and a fixed severity.
type validationError struct {
	id       elemid.ElemID
	reason   string
	severity Severity
}

func (e validationError) Error() string {
	return fmt.Sprintf("Error validating %s: %s", e.id.FullName(), e.reason)
}

func (e validationError) ElemID() elemid.ElemID { return e.id }

func (e validationError) Severity() Severity { return e.severity }

// ValidationError is implemented by every error the Validator produces.
type ValidationError interface {
	error
	ElemID() elemid.ElemID
	Severity() Severity
}

// UnresolvedReferenceValidationError is raised when a TypeRef or a
// ReferenceExpression's target ElemID does not resolve to anything in the
// merged element graph. It is the only validation error kind with
// SeverityError; every other kind is a Warning (spec §4.3, §7).
type UnresolvedReferenceValidationError struct{ validationError }

func newUnresolvedReferenceValidationError(id elemid.ElemID, target string) *UnresolvedReferenceValidationError {
	return &UnresolvedReferenceValidationError{validationError{id, fmt.Sprintf("unresolved reference to %q", target), SeverityError}}
}

// InvalidValueTypeValidationError is raised when an instance value's kind
// does not match its field's declared type.
type InvalidValueTypeValidationError struct{ validationError }

func newInvalidValueTypeValidationError(id elemid.ElemID, reason string) *InvalidValueTypeValidationError {
	return &InvalidValueTypeValidationError{validationError{id, reason, SeverityWarning}}
}

// CircularReferenceValidationError is raised when a ReferenceExpression
// ultimately refers back to itself through a chain of other references.
type CircularReferenceValidationError struct{ validationError }

func newCircularReferenceValidationError(id elemid.ElemID, traversal string) *CircularReferenceValidationError {
	return &CircularReferenceValidationError{validationError{id, fmt.Sprintf("circular reference through %q", traversal), SeverityWarning}}
}

// MissingRequiredFieldValidationError is raised when an instance omits a
// field its type marks required (spec §4.3).
type MissingRequiredFieldValidationError struct{ validationError }

func newMissingRequiredFieldValidationError(id elemid.ElemID, name string) *MissingRequiredFieldValidationError {
	return &MissingRequiredFieldValidationError{validationError{id, fmt.Sprintf("missing required field %q", name), SeverityWarning}}
}

var (
	_ ValidationError = (*UnresolvedReferenceValidationError)(nil)
	_ ValidationError = (*InvalidValueTypeValidationError)(nil)
	_ ValidationError = (*CircularReferenceValidationError)(nil)
	_ ValidationError = (*MissingRequiredFieldValidationError)(nil)
)
