package assets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"uicss/assets"
	"uicss/cache"
)

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.css")
	if err := os.WriteFile(path, []byte(".a { width: 1px }"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := assets.NewRegistry()
	id, err := reg.Register(path)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	again, _ := reg.Register(path)
	if id != again {
		t.Fatalf("identity changed: %s != %s", id, again)
	}
	if id != assets.ID(path) {
		t.Errorf("identity is not derived from path")
	}
	if got, ok := reg.Lookup(path); !ok || got != id {
		t.Errorf("Lookup() = %s, %v", got, ok)
	}

	data, name, ok := reg.Load(id)
	if !ok || string(data) != ".a { width: 1px }" || name != path {
		t.Errorf("Load() = %q, %q, %v", data, name, ok)
	}

	missing, _ := reg.Register(filepath.Join(dir, "later.css"))
	if _, _, ok := reg.Load(missing); ok {
		t.Errorf("missing file reported present")
	}
	if _, _, ok := reg.Load(assets.ID("/unknown")); ok {
		t.Errorf("unregistered identity reported present")
	}
	if n := len(reg.Paths()); n != 2 {
		t.Errorf("Paths() has %d entries, want 2", n)
	}
}

func TestRegistry_PathsOrder(t *testing.T) {
	dir := t.TempDir()
	reg := assets.NewRegistry()
	for _, name := range []string{"theme10.css", "theme2.css", "base.css"} {
		if _, err := reg.Register(filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"base.css", "theme2.css", "theme10.css"}
	for i, p := range reg.Paths() {
		if filepath.Base(p) != want[i] {
			t.Errorf("Paths()[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
	}
}

func TestRegistry_FeedsCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.css")
	if err := os.WriteFile(path, []byte(".a { width: 1px } .b { height: 2px }"), 0o644); err != nil {
		t.Fatal(err)
	}
	reg := assets.NewRegistry()
	id, _ := reg.Register(path)

	c := cache.New(reg, zap.NewNop())
	sheet, ok := c.Sheet(id)
	if !ok {
		t.Fatal("sheet not loaded")
	}
	if len(sheet.Rules) != 2 {
		t.Errorf("got %d rules, want 2", len(sheet.Rules))
	}
}

func waitFor(t *testing.T, events <-chan cache.Event, id cache.AssetID, kind cache.EventKind) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("events closed while waiting for %s", kind)
			}
			if ev.ID == id && ev.Kind == kind {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "main.css")
	if err := os.WriteFile(existing, []byte(".a {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := filepath.Join(dir, "later.css")

	reg := assets.NewRegistry()
	mainID, _ := reg.Register(existing)
	laterID, _ := reg.Register(later)

	w, err := assets.NewWatcher(reg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	events := w.Run(ctx)

	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(existing, []byte(".a { width: 2px }"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, mainID, cache.Modified)

	if err := os.WriteFile(later, []byte(".b {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, laterID, cache.Loaded)

	if err := os.Remove(later); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, laterID, cache.Removed)

	cancel()
	for range events {
	}
}
