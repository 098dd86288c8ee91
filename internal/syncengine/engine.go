// Package syncengine reconciles optimistic local mutations against the
// remote store. A mutation lands locally first and is rendered immediately;
// exactly one propagation attempt follows, and a failure is surfaced, never
// rolled back and never retried automatically.
package syncengine

import (
	"fmt"
	"sync"

	"github.com/lifehealth/dietcli/internal/models"
)

// Outcome is the result of one mutation or resync, always suitable for
// showing to the user as-is.
type Outcome struct {
	Status models.SyncStatus
	Detail string
}

// Recorder receives every outcome. *journal.Journal satisfies this.
type Recorder interface {
	Record(feature, entityID, action, status, detail string) error
}

// Mutation is one optimistic change to a mirrored collection.
type Mutation struct {
	Feature  string
	EntityID string
	Action   string

	// Apply updates the in-memory collection. Runs under the engine's
	// state lock before any network activity.
	Apply func()
	// Persist writes the collection to the mirror store. Runs under the
	// state lock, once after Apply and once after Reconcile.
	Persist func()
	// Push performs the single remote propagation. nil marks a
	// local-only mutation (e.g. removal, which has no delete contract
	// with the remote).
	Push func() error
	// Reconcile records the propagation result on the entity, keyed by
	// identity so out-of-order completions cannot touch other items.
	// Runs under the state lock. err is nil on success.
	Reconcile func(err error)
}

// Engine coordinates optimistic mutations. Independent entities may have
// propagations in flight concurrently; per-entity locks guarantee a second
// propagation for the same entity never starts before the first completes.
type Engine struct {
	stateMu sync.Mutex
	rec     Recorder

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates an engine. rec may be nil.
func New(rec Recorder) *Engine {
	return &Engine{rec: rec, locks: make(map[string]*sync.Mutex)}
}

// Mutate applies m locally, attempts one propagation, reconciles by entity
// identity, and returns the surfaced outcome.
func (e *Engine) Mutate(m Mutation) Outcome {
	e.stateMu.Lock()
	if m.Apply != nil {
		m.Apply()
	}
	if m.Persist != nil {
		m.Persist()
	}
	e.stateMu.Unlock()

	var out Outcome
	if m.Push == nil {
		out = Outcome{Status: models.SyncLocalOnly, Detail: "Removed locally (not synced)"}
		e.record(m, out)
		return out
	}

	lock := e.entityLock(m.Feature + "/" + m.EntityID)
	lock.Lock()
	err := m.Push()
	lock.Unlock()

	e.stateMu.Lock()
	if m.Reconcile != nil {
		m.Reconcile(err)
	}
	if m.Persist != nil {
		m.Persist()
	}
	e.stateMu.Unlock()

	if err != nil {
		out = Outcome{Status: models.SyncLocalOnly, Detail: fmt.Sprintf("Saved locally (%v)", err)}
	} else {
		out = Outcome{Status: models.SyncConfirmed, Detail: "Synced to API"}
	}
	e.record(m, out)
	return out
}

// Resync runs the bulk choreography: an optional server-side trigger with
// explicit parameters, then a wholesale re-fetch that replaces the mirror.
// Bulk generation content is not known to the client in advance, so this is
// a deliberate "re-sync from source of truth", distinct from per-item
// optimism.
func (e *Engine) Resync(feature, action string, trigger func() error, fetch func() error) Outcome {
	if trigger != nil {
		if err := trigger(); err != nil {
			out := Outcome{Status: models.SyncLocalOnly, Detail: fmt.Sprintf("Kept local state (%v)", err)}
			e.record(Mutation{Feature: feature, Action: action}, out)
			return out
		}
	}

	e.stateMu.Lock()
	err := fetch()
	e.stateMu.Unlock()

	var out Outcome
	if err != nil {
		out = Outcome{Status: models.SyncLocalOnly, Detail: fmt.Sprintf("Kept local state (%v)", err)}
	} else {
		out = Outcome{Status: models.SyncSuperseded, Detail: "Replaced from server"}
	}
	e.record(Mutation{Feature: feature, Action: action}, out)
	return out
}

// WithState runs fn under the engine's state lock. Read paths that render
// collections mutated from other goroutines use this.
func (e *Engine) WithState(fn func()) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	fn()
}

func (e *Engine) entityLock(key string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	if l, ok := e.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	e.locks[key] = l
	return l
}

func (e *Engine) record(m Mutation, out Outcome) {
	if e.rec == nil {
		return
	}
	// The journal is best effort; an unwritable log must not block the
	// mutation it describes.
	_ = e.rec.Record(m.Feature, m.EntityID, m.Action, string(out.Status), out.Detail)
}
