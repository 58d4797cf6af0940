package workspace

import (
	"errors"
	"fmt"

	"salto.dev/core/pkg/validator"
)

// ErrExistingWorkspace is returned by Init when a workspace root is already
// discoverable at or above the target base directory (spec §4.4.2, §7
// "programmer failures").
var ErrExistingWorkspace = errors.New("a workspace already exists at or above this directory")

// ErrNotEmptyWorkspace is returned by Init when the config path, local
// storage directory, or state file already exists at the target base
// directory, even though no workspace root was found above it.
var ErrNotEmptyWorkspace = errors.New("target directory is not empty")

// Severity classifies how serious a WorkspaceError is (spec §7).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "Error"
	}
	return "Warning"
}

// WorkspaceError is the unified projection of a parse, merge or validation
// error, carrying the source text fragments it was raised against (spec
// §4.4.2 get_workspace_errors, §7).
type WorkspaceError struct {
	SourceFragments []string
	Error           string
	Severity        Severity
	Cause           error
}

// severityOfValidationError maps a validator.ValidationError to a
// WorkspaceError severity: only an unresolved reference is an Error, every
// other validation error kind is a Warning (spec §7). Parse and merge
// errors are always reported as Error by GetWorkspaceErrors.
func severityOfValidationError(v validator.ValidationError) Severity {
	if _, ok := v.(*validator.UnresolvedReferenceValidationError); ok {
		return SeverityError
	}
	return SeverityWarning
}

func existingWorkspaceError(baseDir string) error {
	return fmt.Errorf("%w: found while scanning up from %s", ErrExistingWorkspace, baseDir)
}

func notEmptyWorkspaceError(path string) error {
	return fmt.Errorf("%w: %s already exists", ErrNotEmptyWorkspace, path)
}
