package workspace

import (
	"sort"

	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/errlist"
	"salto.dev/core/pkg/merger"
	"salto.dev/core/pkg/resolver"
	"salto.dev/core/pkg/sourcerange"
	"salto.dev/core/pkg/validator"
)

// Errors groups the three error tiers a workspace state carries (spec
// §4.4.1).
type Errors struct {
	Parse      []ParseError
	Merge      errlist.List
	Validation errlist.List
}

// WorkspaceState is the immutable snapshot a Workspace swaps wholesale on
// every rebuild (spec §4.4.1, §9 glossary "Workspace state"). Callers must
// treat a returned WorkspaceState as read-only.
type WorkspaceState struct {
	ParsedBlueprints map[string]*ParsedBlueprint
	SourceMap        map[string][]sourcerange.SourceRange
	Elements         []element.Element
	Errors           Errors
}

// saltoConfigID is the built-in adapter-config anchor type every
// workspace state's element stream carries, independent of any parsed
// blueprint (spec §4.4.3 step 2: "append the built-in saltoConfigType").
var saltoConfigID = elemid.New("salto", "config")

func saltoConfigType() *element.ObjectType {
	return &element.ObjectType{ID: saltoConfigID, Fields: map[string]*element.Field{}}
}

// createWorkspaceState implements create_workspace_state (spec §4.4.3): it
// unions every blueprint's source map, concatenates their elements plus
// the built-in config type, and runs Merger → Reference Resolver →
// Validator over the result. Blueprint iteration is sorted by filename so
// the resulting parse-error order, and everything derived from it, is
// deterministic (spec §5 "Ordering guarantees").
func createWorkspaceState(parsed map[string]*ParsedBlueprint) WorkspaceState {
	filenames := make([]string, 0, len(parsed))
	for name := range parsed {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	sourceMap := map[string][]sourcerange.SourceRange{}
	var elements []element.Element
	var parseErrs []ParseError
	for _, name := range filenames {
		bp := parsed[name]
		for id, ranges := range bp.SourceMap {
			sourceMap[id] = append(sourceMap[id], ranges...)
		}
		elements = append(elements, bp.Elements...)
		parseErrs = append(parseErrs, bp.Errors...)
	}
	elements = append(elements, saltoConfigType())

	merged, mergeErrs := merger.Merge(elements)
	resolver.Resolve(merged)
	validationErrs := validator.Validate(merged)

	return WorkspaceState{
		ParsedBlueprints: parsed,
		SourceMap:        sourceMap,
		Elements:         merged,
		Errors: Errors{
			Parse:      parseErrs,
			Merge:      mergeErrs,
			Validation: validationErrs,
		},
	}
}
