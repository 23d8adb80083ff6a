// Package registry caches parsed guideline documents and their indexes keyed
// by guideline version.
//
// The registry replaces the ambient global guideline cache of the original
// service with an explicit object: callers construct one, hand it a source
// for raw guideline bytes, and pass it around. Entries are built at most once
// per version even under concurrent first access, are immutable once built,
// and are removed only by explicit invalidation.
package registry

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pvaneck/refstack/internal/guideline"
	"github.com/pvaneck/refstack/internal/index"
	"github.com/pvaneck/refstack/internal/parser"
)

// Source resolves raw guideline content for a version. The fetch itself
// (filesystem, HTTP, whatever) is entirely the caller's concern; the registry
// only sees bytes.
type Source func(version string) ([]byte, error)

// Entry is one cached guideline version: the parsed document plus its index.
// Both are immutable and safe for concurrent read-only use.
type Entry struct {
	Document *guideline.Document
	Index    *index.Index
}

// Registry caches parse+index results per guideline version.
type Registry struct {
	source Source

	mu      sync.RWMutex
	entries map[string]*Entry

	group singleflight.Group
}

// New creates a registry backed by the given source.
func New(source Source) *Registry {
	return &Registry{
		source:  source,
		entries: make(map[string]*Entry),
	}
}

// Get returns the entry for a guideline version, building it on first use.
//
// Concurrent first access for the same version performs exactly one
// fetch+parse+index; all callers share the built entry or the build error.
// Build errors are not cached: a later Get retries the source.
func (r *Registry) Get(version string) (*Entry, error) {
	r.mu.RLock()
	entry, ok := r.entries[version]
	r.mu.RUnlock()
	if ok {
		return entry, nil
	}

	v, err, _ := r.group.Do(version, func() (any, error) {
		// Double-check under the group: another flight may have completed
		// between the read-lock miss and entering the group.
		r.mu.RLock()
		entry, ok := r.entries[version]
		r.mu.RUnlock()
		if ok {
			return entry, nil
		}

		raw, err := r.source(version)
		if err != nil {
			return nil, fmt.Errorf("fetch guideline %s: %w", version, err)
		}

		doc, err := parser.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse guideline %s: %w", version, err)
		}

		built := &Entry{
			Document: doc,
			Index:    index.New(doc),
		}

		r.mu.Lock()
		r.entries[version] = built
		r.mu.Unlock()

		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Entry), nil
}

// Invalidate removes a cached version. The next Get rebuilds it from the
// source. Invalidation is the only way an entry leaves the cache.
func (r *Registry) Invalidate(version string) {
	r.mu.Lock()
	delete(r.entries, version)
	r.mu.Unlock()
}

// Versions returns the currently cached versions, in no particular order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := make([]string, 0, len(r.entries))
	for v := range r.entries {
		versions = append(versions, v)
	}
	return versions
}
