// Package endpoint resolves which API base URL the client talks to from
// layered configuration sources, and builds request URLs against it.
package endpoint

import (
	"strings"
	"sync"
)

// versionPrefix is the API version path segment. BuildURL guarantees it never
// appears twice in a resolved URL.
const versionPrefix = "/api/v1"

// DefaultBase is the computed fallback when no source provides a base URL.
const DefaultBase = "http://127.0.0.1:8010"

// Sources are the candidate base URLs in precedence order:
// override > flag > persisted > default. Empty values are skipped.
type Sources struct {
	Override  string // environment override (DIET_API_BASE)
	Flag      string // per-invocation --api flag
	Persisted string // saved preference from a previous run
	Default   string // computed default; DefaultBase when empty
}

// Resolve picks the single winning base URL.
func (s Sources) Resolve() string {
	for _, v := range []string{s.Override, s.Flag, s.Persisted, s.Default} {
		if v != "" {
			return normalize(v)
		}
	}
	return DefaultBase
}

func normalize(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// Resolver holds the resolved base URL for the lifetime of the process.
// It is constructed once at startup and passed to every component that
// issues requests; nothing reads configuration ad hoc after that.
type Resolver struct {
	mu      sync.RWMutex
	base    string
	subs    []func(string)
	persist func(string)
}

// NewResolver resolves the sources and persists the winner so subsequent
// sessions reuse it. persist may be nil.
func NewResolver(src Sources, persist func(string)) *Resolver {
	r := &Resolver{base: src.Resolve(), persist: persist}
	if r.persist != nil {
		r.persist(r.base)
	}
	return r
}

// Base returns the current base URL.
func (r *Resolver) Base() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.base
}

// SetBase replaces the base URL, persists it, and notifies subscribers.
func (r *Resolver) SetBase(base string) {
	base = normalize(base)
	if base == "" {
		base = DefaultBase
	}
	r.mu.Lock()
	r.base = base
	subs := make([]func(string), len(r.subs))
	copy(subs, r.subs)
	persist := r.persist
	r.mu.Unlock()

	if persist != nil {
		persist(base)
	}
	for _, fn := range subs {
		fn(base)
	}
}

// Subscribe registers a callback invoked whenever the base URL changes.
func (r *Resolver) Subscribe(fn func(base string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// BuildURL joins the base and path. Absolute URLs pass through unchanged.
// When both the base and the path carry the version prefix, the duplicate is
// collapsed so the result contains it exactly once.
func (r *Resolver) BuildURL(path string) string {
	if isAbsolute(path) {
		return path
	}
	base := r.Base()
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if hasVersionSuffix(base) && hasVersionPrefix(path) {
		path = path[len(versionPrefix):]
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
	}
	return base + path
}

func isAbsolute(path string) bool {
	p := strings.ToLower(path)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func hasVersionSuffix(base string) bool {
	return strings.HasSuffix(strings.ToLower(base), versionPrefix)
}

func hasVersionPrefix(path string) bool {
	p := strings.ToLower(path)
	return p == versionPrefix || strings.HasPrefix(p, versionPrefix+"/")
}
