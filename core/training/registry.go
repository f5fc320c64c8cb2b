package training

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Registry caches engines by session key and serializes operations on one key.
// The store stays the source of truth, so entries may be dropped at any time.
// Idle entries beyond Deps.MaxSessions are evicted, least recently used first.
type Registry struct {
	deps  Deps
	limit int

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	mu     sync.Mutex
	engine *Engine
	cached atomic.Bool

	// guarded by Registry.mu
	refs int
	used time.Time
}

func (ent *registryEntry) set(eng *Engine) {
	ent.engine = eng
	ent.cached.Store(eng != nil)
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:    deps,
		limit:   deps.withDefaults().MaxSessions,
		entries: make(map[string]*registryEntry),
	}
}

// Deps returns the collaborators engines are built with.
func (r *Registry) Deps() Deps { return r.deps }

// Do runs fn with the engine for (mod, userID) while holding that session's lock.
// Operations on different sessions run in parallel. When fn fails for any reason
// other than input validation the cached engine is discarded and reloaded next time.
func (r *Registry) Do(ctx context.Context, mod *Module, userID string, fn func(*Engine) error) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMissingUserID
	}
	if mod == nil {
		return errors.New("training: module is nil")
	}

	key := mod.SessionKey(userID)
	ent := r.acquire(key)
	defer r.release(key, ent)
	ent.mu.Lock()
	defer ent.mu.Unlock()

	if ent.engine == nil {
		eng, err := Load(ctx, r.deps, mod, userID)
		if err != nil {
			return err
		}
		ent.set(eng)
	}
	if err := fn(ent.engine); err != nil {
		if !errors.Is(err, ErrEmptyMessage) {
			ent.set(nil)
		}
		return err
	}
	return nil
}

// Drop removes the cached engine for key.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	ent, ok := r.entries[key]
	if ok {
		ent.refs++
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	ent.mu.Lock()
	ent.set(nil)
	ent.mu.Unlock()
	r.release(key, ent)
}

// Len reports the number of cached engines without waiting on busy sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ent := range r.entries {
		if ent.cached.Load() {
			n++
		}
	}
	return n
}

func (r *Registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) acquire(key string) *registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, ok := r.entries[key]
	if !ok {
		ent = &registryEntry{}
		r.entries[key] = ent
	}
	ent.refs++
	ent.used = time.Now()
	return ent
}

// release forgets entries without an engine once nobody holds them and trims
// the cache back under its limit.
func (r *Registry) release(key string, ent *registryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent.refs--
	if ent.refs == 0 && !ent.cached.Load() {
		delete(r.entries, key)
	}
	r.evictLocked()
}

func (r *Registry) evictLocked() {
	if len(r.entries) <= r.limit {
		return
	}
	type idle struct {
		key  string
		used time.Time
	}
	var victims []idle
	for key, ent := range r.entries {
		if ent.refs == 0 {
			victims = append(victims, idle{key: key, used: ent.used})
		}
	}
	slices.SortFunc(victims, func(a, b idle) int { return a.used.Compare(b.used) })
	for _, v := range victims {
		if len(r.entries) <= r.limit {
			return
		}
		delete(r.entries, v.key)
	}
}
