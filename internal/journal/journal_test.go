package journal

import "testing"

func TestRecordAndRecent(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if err := j.Record("groceries", "1756", "add", "local only", "Saved locally (API unavailable)"); err != nil {
		t.Fatal(err)
	}
	if err := j.Record("groceries", "1756", "add", "synced", "Synced to /api/v1/groceries"); err != nil {
		t.Fatal(err)
	}

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Most recent first.
	if entries[0].Status != "synced" {
		t.Errorf("first entry status = %q, want synced", entries[0].Status)
	}
	if entries[1].Detail != "Saved locally (API unavailable)" {
		t.Errorf("detail = %q", entries[1].Detail)
	}
}

func TestRecentLimit(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	for i := 0; i < 5; i++ {
		if err := j.Record("workouts", "x", "toggle", "synced", ""); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := j.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestClear(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if err := j.Record("plans", "2026-01-05", "generate", "superseded", ""); err != nil {
		t.Fatal(err)
	}
	if err := j.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after clear", len(entries))
	}
}
