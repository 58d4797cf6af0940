// Package errlist provides the shared error plumbing used by the merger
// and the validator: a typed error interface that always carries the
// offending ElemID, and an ordered list type that implements error so a
// whole pass's failures can be returned and printed as one value. It
// mirrors the shape of the teacher's cue/errors package (an Error
// interface plus a list aggregate) without the token-position interning
// machinery that package needs for a full parser/evaluator.
package errlist

import (
	"sort"
	"strings"

	"salto.dev/core/pkg/elemid"
)

// Error is implemented by every merge and validation error. Per spec §7,
// every structural failure carries the ElemID it was raised against and a
// human-readable message, and is returned as data rather than thrown.
type Error interface {
	error
	ElemID() elemid.ElemID
}

// List is an ordered collection of Errors. It implements error itself so
// a pass's accumulated failures can be handed back as a single value, the
// same role the teacher's cue/errors list/wrapped types play.
type List []Error

// Error joins every message on its own line.
func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Add appends err to the list.
func (l *List) Add(err Error) {
	*l = append(*l, err)
}

// SortByElemID returns a copy of l sorted by ElemID for deterministic
// display and test comparison. Spec §4.1 only requires error *membership*
// to be order-independent (I1); callers that want a stable rendering sort
// explicitly rather than relying on merge/validation order.
func (l List) SortByElemID() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ElemID().Compare(out[j].ElemID()) < 0
	})
	return out
}

// ElemIDSet is a membership set of ElemIDs used by the merger and the
// resolver to implement the "visited" tracking the spec's cycle-safety
// notes (§4.2, §9) require. The validator's reference-cycle check keys its
// own visited set by traversal path instead.
type ElemIDSet map[string]struct{}

// NewElemIDSet creates an empty set.
func NewElemIDSet() ElemIDSet {
	return make(ElemIDSet)
}

// Add inserts id and reports whether it was already present.
func (s ElemIDSet) Add(id elemid.ElemID) (alreadyPresent bool) {
	key := id.FullName() + "\x00" + string(id.IDType)
	_, ok := s[key]
	s[key] = struct{}{}
	return ok
}

// Has reports whether id is a member.
func (s ElemIDSet) Has(id elemid.ElemID) bool {
	key := id.FullName() + "\x00" + string(id.IDType)
	_, ok := s[key]
	return ok
}
