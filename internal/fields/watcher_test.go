package fields

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".trackr-fields.toml")
	if err := os.WriteFile(path, []byte("[[field]]\nid = \"customfield_1\"\n"), 0o644); err != nil {
		t.Fatalf("failed to create override file: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	updated := "[[field]]\nid = \"customfield_1\"\nname = \"Renamed\"\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to update override file: %v", err)
	}

	select {
	case r := <-w.Reloads:
		if r.Err != nil {
			t.Fatalf("reload error: %v", r.Err)
		}
		if len(r.Defs) != 1 || r.Defs[0].Name != "Renamed" {
			t.Errorf("unexpected definitions: %+v", r.Defs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(filepath.Join(dir, ".trackr-fields.toml"))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	select {
	case r := <-w.Reloads:
		t.Errorf("unexpected reload: %+v", r)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopClosesChannel(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "f.toml"))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()

	if _, ok := <-w.Reloads; ok {
		t.Error("expected Reloads to be closed after Stop")
	}
}
