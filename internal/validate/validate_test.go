package validate

import "testing"

func TestEmail(t *testing.T) {
	for _, good := range []string{"a@b.co", "user.name@example.com", " padded@example.com "} {
		if err := Email(good); err != nil {
			t.Errorf("Email(%q) = %v, want nil", good, err)
		}
	}
	for _, bad := range []string{"", "nope", "a@b", "two@@b.co", "a b@c.co"} {
		if err := Email(bad); err == nil {
			t.Errorf("Email(%q) = nil, want error", bad)
		}
	}
}

func TestPasswordPolicy(t *testing.T) {
	if err := Password("short"); err == nil {
		t.Error("short password accepted")
	}
	if err := Password("longenough"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if err := PasswordConfirmation("abcdefgh", "abcdefgX"); err == nil {
		t.Error("mismatched confirmation accepted")
	}
	if err := PasswordConfirmation("abcdefgh", "abcdefgh"); err != nil {
		t.Errorf("matching confirmation rejected: %v", err)
	}
}

func TestLossPerWeek(t *testing.T) {
	tests := []struct {
		goals string
		want  float64
		ok    bool
	}{
		{"Lose 15 lb in 5 weeks", 3.0, true},
		{"lose 10 pounds in 10 wks", 1.0, true},
		{"1.5 lb per week until summer", 1.5, true},
		{"improve A1C and feel better", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := LossPerWeek(tt.goals)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("LossPerWeek(%q) = %v,%v want %v,%v", tt.goals, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAggressivePace(t *testing.T) {
	if !AggressivePace("Lose 15 lb in 5 weeks", 3) {
		t.Error("3 lb/week at 3 meals/day should warn")
	}
	if AggressivePace("Lose 15 lb in 5 weeks", 2) {
		t.Error("2 meals/day should not warn")
	}
	if AggressivePace("Lose 4 lb in 4 weeks", 3) {
		t.Error("1 lb/week should not warn")
	}
	if AggressivePace("get stronger", 3) {
		t.Error("no stated pace should not warn")
	}
}
