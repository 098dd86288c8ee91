package session

import (
	"errors"
	"testing"

	"github.com/lifehealth/dietcli/internal/models"
)

type fakeChecker struct {
	meInfo    *models.UserInfo
	meErr     error
	extendSec int
	extendErr error
	meCalls   int
}

func (f *fakeChecker) Me() (*models.UserInfo, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meInfo, nil
}

func (f *fakeChecker) Extend() (int, error) {
	if f.extendErr != nil {
		return -1, f.extendErr
	}
	return f.extendSec, nil
}

func intPtr(n int) *int { return &n }

func TestCheckAuthenticates(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(600)}}
	m := NewManager(c)

	ev := m.Check()
	if ev.State != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", ev.State)
	}
	if ev.Remaining != 600 {
		t.Errorf("remaining = %d, want server value 600", ev.Remaining)
	}
	if m.Email() != "a@b.c" {
		t.Errorf("email = %q", m.Email())
	}
}

func TestCountdownMonotonicAndClamped(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(5)}}
	m := NewManager(c)
	m.Check()

	prev := m.Remaining()
	for i := 0; i < 10; i++ {
		ev := m.Tick()
		if ev.Remaining > prev {
			t.Fatalf("countdown increased: %d -> %d", prev, ev.Remaining)
		}
		if ev.Remaining < 0 {
			t.Fatalf("countdown went negative: %d", ev.Remaining)
		}
		prev = ev.Remaining
	}
	if m.Remaining() != 0 {
		t.Errorf("remaining = %d after ticking past zero, want 0", m.Remaining())
	}
	// Zero on the local clock is advisory; no transition to unauthenticated.
	if m.State() == StateUnauthenticated {
		t.Error("countdown alone forced an unauthenticated transition")
	}
}

func TestCheckResyncsCountdown(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(600)}}
	m := NewManager(c)
	m.Check()
	for i := 0; i < 30; i++ {
		m.Tick()
	}
	if m.Remaining() != 570 {
		t.Fatalf("remaining = %d before resync", m.Remaining())
	}

	c.meInfo.RemainingSeconds = intPtr(900)
	ev := m.Check()
	if ev.Remaining != 900 {
		t.Errorf("remaining = %d after check, want server value 900", ev.Remaining)
	}
}

func TestPollFailureRedirectsWithContext(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(600)}}
	m := NewManager(c)
	m.SetNext("/groceries")
	m.Check()

	var got Event
	m.Subscribe(func(ev Event) { got = ev })

	c.meErr = errors.New("401 unauthorized")
	ev := m.Poll()

	if ev.State != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", ev.State)
	}
	if ev.Reason != ReasonExpired {
		t.Errorf("reason = %q, want expired marker", ev.Reason)
	}
	if ev.Next != "/groceries" {
		t.Errorf("next = %q, want original destination", ev.Next)
	}
	if got.State != StateUnauthenticated {
		t.Error("subscriber did not observe the transition")
	}
}

func TestGatingCheckFailureUsesDeniedReason(t *testing.T) {
	c := &fakeChecker{meErr: errors.New("network down")}
	m := NewManager(c)
	m.SetNext("/plan")

	ev := m.Check()
	if ev.State != StateUnauthenticated {
		t.Errorf("state = %v", ev.State)
	}
	if ev.Reason != ReasonDenied {
		t.Errorf("reason = %q, want denied", ev.Reason)
	}
	if ev.Next != "/plan" {
		t.Errorf("next = %q", ev.Next)
	}
}

func TestExtendResyncsFromServer(t *testing.T) {
	c := &fakeChecker{
		meInfo:    &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(30)},
		extendSec: 900,
	}
	m := NewManager(c)
	m.Check()
	if m.State() != StateExpiring {
		t.Fatalf("state = %v with 30s left, want expiring", m.State())
	}

	ev := m.Extend()
	if ev.Remaining != 900 {
		t.Errorf("remaining = %d after extend, want 900", ev.Remaining)
	}
	if ev.State != StateAuthenticated {
		t.Errorf("state = %v after extend, want authenticated", ev.State)
	}
}

func TestExtendFailureFallsBackToLivenessCheck(t *testing.T) {
	c := &fakeChecker{
		meInfo:    &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(120)},
		extendErr: errors.New("503"),
	}
	m := NewManager(c)
	m.Check()
	calls := c.meCalls

	ev := m.Extend()
	if c.meCalls != calls+1 {
		t.Error("extend failure did not re-check liveness")
	}
	// The session was still valid; a failed extend must not force expiry.
	if ev.State != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", ev.State)
	}
}

func TestCountdownSeedCoversMissingServerValue(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c"}}
	m := NewManager(c)
	m.SetCountdownSeed(func() (int, bool) { return 300, true })

	ev := m.Check()
	if ev.Remaining != 300 {
		t.Errorf("remaining = %d, want seeded 300", ev.Remaining)
	}
	if ev.State != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", ev.State)
	}
}

func TestServerCountdownWinsOverSeed(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c", RemainingSeconds: intPtr(600)}}
	m := NewManager(c)
	m.SetCountdownSeed(func() (int, bool) { return 300, true })

	ev := m.Check()
	if ev.Remaining != 600 {
		t.Errorf("remaining = %d, want server value 600 over the seed", ev.Remaining)
	}

	// Once a countdown is known, a later check without a server value must
	// not re-seed; the ticking value stays.
	c.meInfo.RemainingSeconds = nil
	for i := 0; i < 10; i++ {
		m.Tick()
	}
	ev = m.Check()
	if ev.Remaining != 590 {
		t.Errorf("remaining = %d after re-check, want untouched 590", ev.Remaining)
	}
}

func TestSeedAbsentLeavesCountdownUnknown(t *testing.T) {
	c := &fakeChecker{meInfo: &models.UserInfo{Email: "a@b.c"}}
	m := NewManager(c)
	m.SetCountdownSeed(func() (int, bool) { return 0, false })

	ev := m.Check()
	if ev.Remaining != RemainingUnknown {
		t.Errorf("remaining = %d, want unknown when seed has nothing", ev.Remaining)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{600, "10:00"},
		{65, "1:05"},
		{5, "0:05"},
		{0, "0:00"},
		{-3, "0:00"},
		{RemainingUnknown, ""},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.sec); got != tt.want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
