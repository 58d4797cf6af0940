package workspace_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"salto.dev/core/pkg/workspace"
)

// memFileLayer is an in-memory FileLayer, grounded on the teacher's use of
// io/fs overlays in cue/load for test substitution (cue/load/overlayfs.go).
type memFileLayer struct {
	mu     sync.Mutex
	files  map[string][]byte
	mtimes map[string]time.Time
	dirs   map[string]bool
	clock  time.Time
}

func newMemFileLayer() *memFileLayer {
	return &memFileLayer{
		files:  map[string][]byte{},
		mtimes: map[string]time.Time{},
		dirs:   map[string]bool{},
		clock:  time.Unix(0, 0),
	}
}

func (m *memFileLayer) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isFile := m.files[path]
	return isFile || m.dirs[path]
}

func (m *memFileLayer) ReadTextFile(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return string(data), nil
}

func (m *memFileLayer) WriteTextFile(path string, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	m.files[path] = []byte(content)
	m.mtimes[path] = m.clock
	return nil
}

func (m *memFileLayer) Mkdirp(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *memFileLayer) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("no such file: %s", path)
	}
	delete(m.files, path)
	delete(m.mtimes, path)
	return nil
}

func (m *memFileLayer) ModTime(path string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.mtimes[path]
	if !ok {
		return time.Time{}, fmt.Errorf("no such file: %s", path)
	}
	return t, nil
}

func (m *memFileLayer) Walk(root string) ([]workspace.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []workspace.DirEntry
	prefix := strings.TrimSuffix(root, "/") + "/"
	for path := range m.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") {
			continue
		}
		out = append(out, workspace.DirEntry{FullPath: path, Basename: base})
	}
	return out, nil
}
