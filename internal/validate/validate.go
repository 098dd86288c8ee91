// Package validate holds the client-side form checks that block submission
// before any network call.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MinPasswordLength matches the server's signup policy; checking here keeps
// the round trip for the common mistake.
const MinPasswordLength = 8

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email checks a sign-in/sign-up address.
func Email(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if !emailRe.MatchString(s) {
		return errors.New("not a valid email address")
	}
	return nil
}

// Password checks the signup password policy.
func Password(s string) error {
	if len(s) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// PasswordConfirmation checks the repeated password.
func PasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}

// Required checks a mandatory text field.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// IntRange checks a bounded numeric field; zero means unset and passes when
// optional is true.
func IntRange(field string, value, min, max int, optional bool) error {
	if value == 0 && optional {
		return nil
	}
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d", field, min, max)
	}
	return nil
}

var (
	lossAmountRe  = regexp.MustCompile(`(?i)lose\s+(\d+)\s*(?:lb|pounds?)`)
	lossWeeksRe   = regexp.MustCompile(`(?i)in\s+(\d+)\s*(?:weeks?|wks?)`)
	lossPerWeekRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lb|pounds?)\s*per\s*week`)
)

// LossPerWeek extracts the implied weight-loss pace (lb/week) from a
// free-form goals string. Returns false when no pace is stated.
func LossPerWeek(goals string) (float64, bool) {
	if goals == "" {
		return 0, false
	}
	if m := lossPerWeekRe.FindStringSubmatch(goals); m != nil {
		var rate float64
		fmt.Sscanf(m[1], "%f", &rate)
		return rate, true
	}
	am := lossAmountRe.FindStringSubmatch(goals)
	wm := lossWeeksRe.FindStringSubmatch(goals)
	if am == nil || wm == nil {
		return 0, false
	}
	var pounds, weeks float64
	fmt.Sscanf(am[1], "%f", &pounds)
	fmt.Sscanf(wm[1], "%f", &weeks)
	if weeks <= 0 {
		return 0, false
	}
	return pounds / weeks, true
}

// AggressivePace reports whether a stated pace combined with a meal
// frequency warrants the safety confirmation: more than 2 lb/week while
// eating 3+ meals a day.
func AggressivePace(goals string, mealsPerDay int) bool {
	rate, ok := LossPerWeek(goals)
	return ok && mealsPerDay >= 3 && rate > 2.0
}
