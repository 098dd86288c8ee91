// Package session tracks authentication validity, remaining session time,
// and expiry handling. It is the single owner of liveness polling so the
// polling transport can later be swapped for a push-based one without
// touching call sites.
package session

import (
	"fmt"
	"sync"

	"github.com/lifehealth/dietcli/internal/models"
)

// State is the session lifecycle position.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateExpiring
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpiring:
		return "expiring"
	default:
		return "unauthenticated"
	}
}

// Reason marks why the user was sent back to sign-in, so the destination can
// explain itself.
type Reason string

const (
	// ReasonExpired: a previously-valid session failed a periodic check.
	ReasonExpired Reason = "expired"
	// ReasonDenied: a gating check found no valid session.
	ReasonDenied Reason = "denied"
)

// expiringBelow is the remaining-seconds threshold for the expiring state.
const expiringBelow = 60

// RemainingUnknown means the server has not told us a countdown value.
const RemainingUnknown = -1

// Event is a snapshot published to subscribers after every transition or
// countdown resync.
type Event struct {
	State     State
	Remaining int // seconds; RemainingUnknown when the server gave none
	Reason    Reason
	Next      string // destination to resume after re-authentication
}

// Checker is the server side of the session: the liveness endpoint and the
// renewal endpoint. *api.Client satisfies this.
type Checker interface {
	Me() (*models.UserInfo, error)
	Extend() (int, error)
}

// Manager owns session state. The countdown it maintains is advisory only:
// it never causes a transition; only a failed liveness check or failed
// extend-then-recheck does, and the server value overwrites the local one at
// every checkpoint.
type Manager struct {
	mu        sync.Mutex
	checker   Checker
	seed      func() (int, bool)
	state     State
	remaining int
	next      string
	email     string
	subs      []func(Event)
}

// NewManager creates a manager in the unauthenticated state.
func NewManager(c Checker) *Manager {
	return &Manager{checker: c, remaining: RemainingUnknown}
}

// SetCountdownSeed registers a fallback countdown supplier, consulted only
// when a successful liveness check carries no server countdown and none is
// known yet. A server-provided value always wins over the seed.
func (m *Manager) SetCountdownSeed(fn func() (int, bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seed = fn
}

// Subscribe registers a callback for session events.
func (m *Manager) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Remaining returns the advisory countdown value.
func (m *Manager) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// Email returns the authenticated identity, empty when unknown.
func (m *Manager) Email() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email
}

// SetNext records the destination to resume after re-authentication.
func (m *Manager) SetNext(dest string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = dest
}

// Check is the gating liveness check, run before entering a protected view.
// A failure degrades to unauthenticated with ReasonDenied; it is never a
// fatal error.
func (m *Manager) Check() Event {
	return m.liveness(ReasonDenied)
}

// Poll is the periodic liveness check. A failure marks the redirect with
// ReasonExpired so the sign-in view can say why it appeared.
func (m *Manager) Poll() Event {
	return m.liveness(ReasonExpired)
}

func (m *Manager) liveness(onFailure Reason) Event {
	info, err := m.checker.Me()

	m.mu.Lock()
	if err != nil {
		m.state = StateUnauthenticated
		m.remaining = RemainingUnknown
		m.email = ""
		ev := m.snapshot(onFailure)
		m.mu.Unlock()
		m.publish(ev)
		return ev
	}

	m.email = info.Email
	if info.RemainingSeconds != nil {
		m.remaining = *info.RemainingSeconds
	} else if m.remaining == RemainingUnknown && m.seed != nil {
		if v, ok := m.seed(); ok && v >= 0 {
			m.remaining = v
		}
	}
	m.state = stateFor(m.remaining)
	ev := m.snapshot("")
	m.mu.Unlock()
	m.publish(ev)
	return ev
}

// Extend renews the session. On failure it falls back to a liveness
// re-check rather than assuming failure means expiry.
func (m *Manager) Extend() Event {
	remaining, err := m.checker.Extend()
	if err != nil {
		return m.Check()
	}

	m.mu.Lock()
	if remaining >= 0 {
		m.remaining = remaining
	}
	m.state = stateFor(m.remaining)
	ev := m.snapshot("")
	m.mu.Unlock()
	m.publish(ev)
	return ev
}

// Tick decrements the advisory countdown by one second, clamped at zero.
// Display only: the state machine does not transition to unauthenticated
// here even at zero; the server decides at the next checkpoint.
func (m *Manager) Tick() Event {
	m.mu.Lock()
	if m.remaining > 0 {
		m.remaining--
	}
	if m.state != StateUnauthenticated {
		m.state = stateFor(m.remaining)
	}
	ev := m.snapshot("")
	m.mu.Unlock()
	return ev
}

// Resync overwrites the countdown with a server-provided value (login
// response, extend response).
func (m *Manager) Resync(remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if remaining >= 0 {
		m.remaining = remaining
		if m.state != StateUnauthenticated {
			m.state = stateFor(m.remaining)
		}
	}
}

// Reset forces the unauthenticated state (logout).
func (m *Manager) Reset() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.remaining = RemainingUnknown
	m.email = ""
	ev := m.snapshot("")
	m.mu.Unlock()
	m.publish(ev)
}

func stateFor(remaining int) State {
	if remaining != RemainingUnknown && remaining < expiringBelow {
		return StateExpiring
	}
	return StateAuthenticated
}

// snapshot must be called with the lock held.
func (m *Manager) snapshot(reason Reason) Event {
	return Event{State: m.state, Remaining: m.remaining, Reason: reason, Next: m.next}
}

func (m *Manager) publish(ev Event) {
	m.mu.Lock()
	subs := make([]func(Event), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// FormatRemaining renders the countdown as m:ss, never negative; unknown
// values render empty.
func FormatRemaining(seconds int) string {
	if seconds == RemainingUnknown {
		return ""
	}
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
