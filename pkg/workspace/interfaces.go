package workspace

import (
	"time"

	"salto.dev/core/pkg/elemid"
	"salto.dev/core/pkg/element"
	"salto.dev/core/pkg/sourcerange"
)

// ParseError is a single failure the blueprint parser reported while
// reading a buffer (spec §6.1).
type ParseError struct {
	Subject sourcerange.SourceRange
	Detail  string
}

func (e ParseError) Error() string { return e.Detail }

// ParsedBlueprint is the result of parsing one blueprint file (spec §6.1).
type ParsedBlueprint struct {
	Filename     string
	Buffer       []byte
	Elements     []element.Element
	SourceMap    map[string][]sourcerange.SourceRange
	Errors       []ParseError
	LastModified time.Time
}

// Parser is the consumed blueprint parser (spec §6.1). The core never
// imports a concrete parser; callers supply one.
type Parser interface {
	Parse(filename string, buffer []byte) ParsedBlueprint
}

// DirEntry is one entry yielded by FileLayer.Walk (spec §6.2).
type DirEntry struct {
	FullPath string
	Basename string
}

// FileLayer is the consumed file-system abstraction (spec §6.2). A real
// implementation is provided by osFileLayer; tests substitute an in-memory
// one.
type FileLayer interface {
	Exists(path string) bool
	ReadTextFile(path string) (string, error)
	WriteTextFile(path string, content string) error
	Mkdirp(path string) error
	Remove(path string) error
	ModTime(path string) (time.Time, error)
	// Walk recursively lists every regular file under root, skipping
	// directories and files whose basename starts with ".".
	Walk(root string) ([]DirEntry, error)
}

// CacheKey identifies one parse-cache entry (spec §6.3).
type CacheKey struct {
	Filename     string
	LastModified time.Time
}

// ParseCache is the consumed, advisory parse cache (spec §6.3). A miss
// means "reparse"; callers never treat an absent entry as an error.
type ParseCache interface {
	Get(key CacheKey) (ParsedBlueprint, bool)
	Put(key CacheKey, value ParsedBlueprint)
}

// ChangeAction classifies a DetailedChange (spec glossary: "Detailed
// change").
type ChangeAction int

const (
	ChangeAdd ChangeAction = iota
	ChangeModify
	ChangeRemove
)

// DetailedChange is a structured add/modify/remove targeting an ElemID
// with before/after payloads (spec glossary).
type DetailedChange struct {
	ID     elemid.ElemID
	Action ChangeAction
	Before *element.Value
	After  *element.Value
}

// ChangeLocation pairs a DetailedChange with the SourceRange it maps to in
// some blueprint's buffer (spec §6.4).
type ChangeLocation struct {
	Change   DetailedChange
	Location sourcerange.SourceRange
}

// ChangeApplier is the consumed pair of blueprint-update helpers (spec
// §6.4). The workspace treats both as pure functions of their arguments.
type ChangeApplier interface {
	GetChangeLocations(change DetailedChange, sourceMap map[string][]sourcerange.SourceRange) ([]ChangeLocation, error)
	UpdateBlueprintData(buffer []byte, changes []ChangeLocation) ([]byte, error)
}
