// Package workspace implements the Workspace Coordinator (spec §4.4): it
// owns the authoritative in-memory element state, tracks which blueprint
// files have pending edits, and re-runs Merger → Reference Resolver →
// Validator whenever that state changes. It never embeds a concrete
// parser, file system, or plugin: every collaborator is consumed through
// the interfaces in interfaces.go so this package stays free of I/O
// policy (spec §6).
package workspace

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"salto.dev/core/pkg/sourcerange"
	"salto.dev/core/pkg/validator"
)

const (
	localStorageDirName = ".salto"
	credentialsDirName  = "credentials"
)

// Workspace is the single logical owner of a workspace's state. Per spec
// §5, callers must serialize set/remove/update/flush calls externally.
// Each method holds the internal mutex while it reads or swaps the state
// and the dirty set; the concurrent I/O goroutines do not take it, and
// UpdateBlueprints and Flush release it around their I/O, so overlapping
// external calls can still observe stale state.
type Workspace struct {
	mu sync.Mutex

	baseDir         string
	localStorageDir string

	config Config
	state  WorkspaceState
	dirty  map[string]struct{}

	parser  Parser
	files   FileLayer
	cache   ParseCache
	changes ChangeApplier
	logger  *log.Logger
}

// New constructs a Workspace bound to baseDir and its collaborators. It
// does not touch disk; call Init or Load to populate state.
func New(baseDir string, parser Parser, files FileLayer, cache ParseCache, changes ChangeApplier) *Workspace {
	return &Workspace{
		baseDir:         baseDir,
		localStorageDir: filepath.Join(baseDir, localStorageDirName),
		dirty:           map[string]struct{}{},
		parser:          parser,
		files:           files,
		cache:           cache,
		changes:         changes,
		logger:          log.Default(),
	}
}

// Init creates a fresh workspace rooted at w's base directory (spec
// §4.4.2). name defaults to the base directory's basename.
func (w *Workspace) Init(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if root, ok := w.findWorkspaceRootAbove(w.baseDir); ok {
		return fmt.Errorf("%w (%s)", existingWorkspaceError(w.baseDir), root)
	}

	configPath := filepath.Join(w.baseDir, ConfigFilename)
	stateFilePath := filepath.Join(w.localStorageDir, "state.bp")
	for _, p := range []string{configPath, w.localStorageDir, stateFilePath} {
		if w.files.Exists(p) {
			return notEmptyWorkspaceError(p)
		}
	}

	if name == "" {
		name = filepath.Base(w.baseDir)
	}
	if err := w.files.Mkdirp(w.baseDir); err != nil {
		return fmt.Errorf("create workspace base dir: %w", err)
	}
	if err := w.files.Mkdirp(filepath.Join(w.localStorageDir, credentialsDirName)); err != nil {
		return fmt.Errorf("create local storage dir: %w", err)
	}

	cfg := newConfig(name)
	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	if err := w.files.WriteTextFile(configPath, string(data)); err != nil {
		return fmt.Errorf("write workspace config: %w", err)
	}
	w.config = cfg
	w.state = createWorkspaceState(map[string]*ParsedBlueprint{})
	return nil
}

// findWorkspaceRootAbove walks upward from dir looking for an existing
// ConfigFilename, per §4.4.2's "discoverable at or above base_dir".
func (w *Workspace) findWorkspaceRootAbove(dir string) (string, bool) {
	cur := dir
	for {
		if w.files.Exists(filepath.Join(cur, ConfigFilename)) {
			return cur, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// Load reads the workspace config, gathers every blueprint from the base
// directory, the credentials sub-directory, and any additionalPaths, then
// builds the initial state (spec §4.4.2 load). Per spec §5, the
// individual file reads and cache lookups run concurrently.
func (w *Workspace) Load(useCache bool, additionalPaths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	configPath := filepath.Join(w.baseDir, ConfigFilename)
	raw, err := w.files.ReadTextFile(configPath)
	if err != nil {
		return fmt.Errorf("read workspace config: %w", err)
	}
	cfg, err := unmarshalConfig([]byte(raw))
	if err != nil {
		return err
	}
	w.config = cfg

	paths, err := w.gatherBlueprintPaths(additionalPaths)
	if err != nil {
		return err
	}

	parsed, err := w.parseAll(paths, useCache)
	if err != nil {
		return err
	}

	w.state = createWorkspaceState(parsed)
	w.dirty = map[string]struct{}{}
	return nil
}

// gatherBlueprintPaths lists every *.bp file under the base directory and
// the credentials sub-directory, plus any additionalPaths, sorted and
// de-duplicated (spec §4.4.2, §6.2 "skip dot-prefixed directories").
func (w *Workspace) gatherBlueprintPaths(additionalPaths []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, root := range []string{w.baseDir, filepath.Join(w.localStorageDir, credentialsDirName)} {
		entries, err := w.files.Walk(root)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
		for _, e := range entries {
			if !strings.HasSuffix(e.Basename, ".bp") {
				continue
			}
			if e.Basename == ConfigFilename {
				continue
			}
			add(e.FullPath)
		}
	}
	for _, p := range additionalPaths {
		add(p)
	}
	sort.Strings(paths)
	return paths, nil
}

// parseAll reads and parses every path concurrently via a bounded
// errgroup (spec §5: "blueprint reads from disk ... can run in
// parallel"), consulting the parse cache first when useCache is set.
func (w *Workspace) parseAll(paths []string, useCache bool) (map[string]*ParsedBlueprint, error) {
	results := make([]*ParsedBlueprint, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			bp, err := w.parseOne(path, useCache)
			if err != nil {
				return err
			}
			results[i] = bp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*ParsedBlueprint, len(paths))
	for i, path := range paths {
		out[path] = results[i]
	}
	return out, nil
}

func (w *Workspace) parseOne(path string, useCache bool) (*ParsedBlueprint, error) {
	mtime, err := w.files.ModTime(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	key := CacheKey{Filename: path, LastModified: mtime}
	if useCache && w.cache != nil {
		if cached, ok := w.cache.Get(key); ok {
			bp := cached
			return &bp, nil
		}
	}

	content, err := w.files.ReadTextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	parsed := w.parser.Parse(path, []byte(content))
	parsed.LastModified = mtime
	if w.cache != nil {
		w.cache.Put(key, parsed)
	}
	return &parsed, nil
}

// SetBlueprints parses each blueprint, overwrites the matching entries in
// the current state's parsed-blueprint map, marks those filenames dirty,
// and rebuilds state (spec §4.4.2 set_blueprints).
func (w *Workspace) SetBlueprints(bps ...RawBlueprint) {
	w.mu.Lock()
	defer w.mu.Unlock()

	parsed := cloneParsedBlueprints(w.state.ParsedBlueprints)
	for _, raw := range bps {
		bp := w.parser.Parse(raw.Filename, raw.Buffer)
		parsed[raw.Filename] = &bp
		w.dirty[raw.Filename] = struct{}{}
	}
	w.state = createWorkspaceState(parsed)
}

// RawBlueprint is an unparsed blueprint buffer supplied to SetBlueprints.
type RawBlueprint struct {
	Filename string
	Buffer   []byte
}

// RemoveBlueprints drops the named blueprints, marks their filenames
// dirty, and rebuilds state (spec §4.4.2 remove_blueprints).
func (w *Workspace) RemoveBlueprints(names ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	parsed := cloneParsedBlueprints(w.state.ParsedBlueprints)
	for _, name := range names {
		delete(parsed, name)
		w.dirty[name] = struct{}{}
	}
	w.state = createWorkspaceState(parsed)
}

// UpdateBlueprints locates each change's insertion point via the source
// map, splices it into the owning blueprint's buffer grouped by filename,
// then calls SetBlueprints with the results. A change whose location
// can't be found or whose splice fails is logged and skipped (spec §4.4.2
// update_blueprints).
func (w *Workspace) UpdateBlueprints(changes ...DetailedChange) {
	w.mu.Lock()
	sourceMap := w.state.SourceMap
	byFilename := map[string][]ChangeLocation{}
	for _, change := range changes {
		locs, err := w.changes.GetChangeLocations(change, sourceMap)
		if err != nil {
			w.logger.Printf("workspace: skipping change to %s: %v", change.ID.FullName(), err)
			continue
		}
		for _, loc := range locs {
			byFilename[loc.Location.Filename] = append(byFilename[loc.Location.Filename], loc)
		}
	}
	parsed := w.state.ParsedBlueprints
	w.mu.Unlock()

	var updated []RawBlueprint
	for filename, locs := range byFilename {
		bp, ok := parsed[filename]
		if !ok {
			w.logger.Printf("workspace: skipping changes to unknown blueprint %s", filename)
			continue
		}
		newBuffer, err := w.changes.UpdateBlueprintData(bp.Buffer, locs)
		if err != nil {
			w.logger.Printf("workspace: skipping changes to %s: %v", filename, err)
			continue
		}
		updated = append(updated, RawBlueprint{Filename: filename, Buffer: newBuffer})
	}
	w.SetBlueprints(updated...)
}

// Flush writes every dirty blueprint to disk (deleting files whose
// blueprint was removed), refreshes the parse cache, and clears
// dirty_blueprints (spec §4.4.2 flush). Writes run concurrently via a
// bounded errgroup (spec §5).
func (w *Workspace) Flush() error {
	w.mu.Lock()
	dirty := make([]string, 0, len(w.dirty))
	for name := range w.dirty {
		dirty = append(dirty, name)
	}
	parsed := w.state.ParsedBlueprints
	w.mu.Unlock()

	g := new(errgroup.Group)
	g.SetLimit(8)
	written := make([]string, len(dirty))
	for i, name := range dirty {
		i, name := i, name
		g.Go(func() error {
			bp, ok := parsed[name]
			if !ok {
				if err := w.files.Remove(name); err != nil {
					return fmt.Errorf("remove %s: %w", name, err)
				}
				return nil
			}
			path := w.flushPath(name, bp)
			if err := w.files.Mkdirp(filepath.Dir(path)); err != nil {
				return fmt.Errorf("mkdirp for %s: %w", path, err)
			}
			if err := w.files.WriteTextFile(path, string(bp.Buffer)); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			written[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i, path := range written {
		if path == "" {
			continue
		}
		name := dirty[i]
		bp := parsed[name]
		if mtime, err := w.files.ModTime(path); err == nil && w.cache != nil {
			w.cache.Put(CacheKey{Filename: path, LastModified: mtime}, *bp)
		}
		delete(w.dirty, name)
	}
	return nil
}

// flushPath implements §4.4.2's placement rule: a blueprint holding a
// single config instance of an adapter is written under
// localStorage/credentials/<adapter>.bp, everything else under
// baseDir/<filename>.
func (w *Workspace) flushPath(filename string, bp *ParsedBlueprint) string {
	if adapter, ok := singleConfigInstanceAdapter(bp); ok {
		return filepath.Join(w.localStorageDir, credentialsDirName, adapter+".bp")
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(w.baseDir, filename)
}

// GetWorkspaceErrors projects every parse, merge, and validation error
// into a WorkspaceError carrying the offending source fragments (spec
// §4.4.2 get_workspace_errors).
func (w *Workspace) GetWorkspaceErrors() []WorkspaceError {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []WorkspaceError
	for _, pe := range w.state.Errors.Parse {
		frag := extractFragments(w.state.ParsedBlueprints, []sourcerange.SourceRange{pe.Subject})
		out = append(out, WorkspaceError{SourceFragments: frag, Error: pe.Detail, Severity: SeverityError})
	}
	for _, me := range w.state.Errors.Merge {
		ranges := w.state.SourceMap[me.ElemID().FullName()]
		out = append(out, WorkspaceError{
			SourceFragments: extractFragments(w.state.ParsedBlueprints, ranges),
			Error:           me.Error(),
			Severity:        SeverityError,
		})
	}
	for _, ve := range w.state.Errors.Validation {
		ranges := w.state.SourceMap[ve.ElemID().FullName()]
		sev := SeverityWarning
		if vErr, ok := ve.(validator.ValidationError); ok {
			sev = severityOfValidationError(vErr)
		}
		out = append(out, WorkspaceError{
			SourceFragments: extractFragments(w.state.ParsedBlueprints, ranges),
			Error:           ve.Error(),
			Severity:        sev,
		})
	}
	return out
}

// State returns the current, immutable state snapshot (spec §3.4's
// "merged elements and validation errors are immutable snapshots";
// supplemented accessor, see SPEC_FULL.md).
func (w *Workspace) State() WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// DirtyBlueprintNames returns the filenames currently pending persistence,
// sorted for deterministic test assertions (supplemented read-only view
// of dirty_blueprints, spec §4.4.1).
func (w *Workspace) DirtyBlueprintNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.dirty))
	for name := range w.dirty {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneParsedBlueprints(m map[string]*ParsedBlueprint) map[string]*ParsedBlueprint {
	out := make(map[string]*ParsedBlueprint, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func extractFragments(blueprints map[string]*ParsedBlueprint, ranges []sourcerange.SourceRange) []string {
	var out []string
	for _, r := range ranges {
		bp, ok := blueprints[r.Filename]
		if !ok || !r.IsValid() {
			continue
		}
		if r.Start.Byte < 0 || r.End.Byte > len(bp.Buffer) || r.Start.Byte > r.End.Byte {
			continue
		}
		out = append(out, string(bp.Buffer[r.Start.Byte:r.End.Byte]))
	}
	return out
}
