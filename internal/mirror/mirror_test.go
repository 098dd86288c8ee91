package mirror

import (
	"os"
	"path/filepath"
	"testing"
)

type list struct {
	Items []string `json:"items"`
}

func TestLoadMissingKeyKeepsFallback(t *testing.T) {
	s := New(t.TempDir())

	got := list{Items: []string{"fallback"}}
	if s.Load("groceries", &got) {
		t.Fatal("Load reported success for missing key")
	}
	if len(got.Items) != 1 || got.Items[0] != "fallback" {
		t.Errorf("fallback clobbered: %+v", got)
	}
}

func TestLoadCorruptFileKeepsFallback(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.WriteFile(filepath.Join(dir, "groceries.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	got := list{Items: []string{"fallback"}}
	if s.Load("groceries", &got) {
		t.Fatal("Load reported success for corrupt file")
	}
	if len(got.Items) != 1 || got.Items[0] != "fallback" {
		t.Errorf("fallback clobbered: %+v", got)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	s.Save("groceries", list{Items: []string{"eggs", "milk"}})

	var got list
	if !s.Load("groceries", &got) {
		t.Fatal("Load failed after Save")
	}
	if len(got.Items) != 2 || got.Items[0] != "eggs" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestReloadReconstructsLastState(t *testing.T) {
	dir := t.TempDir()

	s := New(dir)
	s.Save("trackers/weight", list{Items: []string{"190.5"}})
	s.Save("trackers/weight", list{Items: []string{"190.5", "189.0"}})

	// A fresh store over the same directory stands in for a process restart.
	var got list
	if !New(dir).Load("trackers/weight", &got) {
		t.Fatal("reload failed")
	}
	if len(got.Items) != 2 || got.Items[1] != "189.0" {
		t.Errorf("reload state = %+v, want last saved", got)
	}
}

func TestSaveToUnwritableDirIsNoOp(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "deeply", "nested"))
	os.RemoveAll(s.Dir())

	// Must not panic or error.
	s.Save("groceries", list{Items: []string{"eggs"}})

	var got list
	if s.Load("groceries", &got) {
		t.Error("Load reported success after failed save")
	}
}

func TestKeysWithSlashesAreIsolated(t *testing.T) {
	s := New(t.TempDir())
	s.Save("trackers/weight", list{Items: []string{"w"}})
	s.Save("trackers/glucose", list{Items: []string{"g"}})

	var w, g list
	if !s.Load("trackers/weight", &w) || !s.Load("trackers/glucose", &g) {
		t.Fatal("load failed")
	}
	if w.Items[0] != "w" || g.Items[0] != "g" {
		t.Errorf("keys collided: weight=%+v glucose=%+v", w, g)
	}
}
