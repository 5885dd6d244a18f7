package tree

import (
	"path/filepath"
	"strings"
	"sync"
)

// Registry buffers completed root suites until a loader takes them.
// Package-level DSL declarations run during init, so access is guarded.
type Registry struct {
	mu     sync.Mutex
	suites []*Suite
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a completed root suite.
func (r *Registry) Add(s *Suite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suites = append(r.suites, s)
}

// Len returns the number of buffered suites.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.suites)
}

// Take returns every buffered suite in registration order and clears the
// buffer.
func (r *Registry) Take() []*Suite {
	r.mu.Lock()
	defer r.mu.Unlock()
	taken := r.suites
	r.suites = nil
	return taken
}

// TakeFile returns the suites declared in path, in registration order, and
// removes them from the buffer. Other suites stay buffered.
func (r *Registry) TakeFile(path string) []*Suite {
	r.mu.Lock()
	defer r.mu.Unlock()

	var taken, kept []*Suite
	for _, s := range r.suites {
		if SamePath(s.File, path) {
			taken = append(taken, s)
		} else {
			kept = append(kept, s)
		}
	}
	r.suites = kept
	return taken
}

// Files returns the distinct declaring files of buffered suites, in the order
// they were first registered.
func (r *Registry) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	var files []string
	for _, s := range r.suites {
		if s.File == "" || seen[s.File] {
			continue
		}
		seen[s.File] = true
		files = append(files, s.File)
	}
	return files
}

// SamePath reports whether a and b name the same source file. When either
// path is absolute the relative one is resolved against the working directory
// and the two must be identical. Two relative paths also match when one ends
// in the other at a directory boundary.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if absClean(a) == absClean(b) {
		return true
	}
	if filepath.IsAbs(a) || filepath.IsAbs(b) {
		return false
	}
	// Binaries built with -trimpath record the declaring file under its
	// module path.
	ra, rb := filepath.ToSlash(filepath.Clean(a)), filepath.ToSlash(filepath.Clean(b))
	return strings.HasSuffix(ra, "/"+rb) || strings.HasSuffix(rb, "/"+ra)
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(filepath.Clean(p))
}
