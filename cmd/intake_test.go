package cmd

import (
	"errors"
	"testing"

	"github.com/lifehealth/dietcli/internal/models"
)

func TestConfirmIntakeSave(t *testing.T) {
	aggressive := &models.Intake{
		Goals:       "lose 30 lb in 10 weeks",
		MealsPerDay: 3,
	}
	mild := &models.Intake{
		Goals:       "lose 10 lb in 10 weeks",
		MealsPerDay: 3,
	}

	t.Run("declining cancels the save", func(t *testing.T) {
		ok, err := confirmIntakeSave(aggressive, false, func() (bool, error) {
			return false, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("declined confirmation must not allow the save")
		}
	})

	t.Run("accepting allows the save", func(t *testing.T) {
		ok, err := confirmIntakeSave(aggressive, false, func() (bool, error) {
			return true, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("accepted confirmation should allow the save")
		}
	})

	t.Run("mild goals never prompt", func(t *testing.T) {
		ok, err := confirmIntakeSave(mild, false, func() (bool, error) {
			t.Error("prompt ran for non-aggressive goals")
			return false, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("non-aggressive goals should save without prompting")
		}
	})

	t.Run("yes flag skips the prompt", func(t *testing.T) {
		ok, err := confirmIntakeSave(aggressive, true, func() (bool, error) {
			t.Error("prompt ran despite --yes")
			return false, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("--yes should allow the save")
		}
	})

	t.Run("prompt error propagates", func(t *testing.T) {
		ok, err := confirmIntakeSave(aggressive, false, func() (bool, error) {
			return false, errors.New("terminal closed")
		})
		if err == nil {
			t.Fatal("expected the prompt error back")
		}
		if ok {
			t.Error("a failed prompt must not allow the save")
		}
	})
}
