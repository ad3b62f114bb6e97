package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "groo")
	return NewStore(filepath.Join(dir, "state.json"), filepath.Join(dir, "state.lock"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	st := newTestStore(t).Load()
	if st == nil || len(st.Projects) != 0 {
		t.Fatalf("expected empty state, got %+v", st)
	}
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if st := store.Load(); len(st.Projects) != 0 {
		t.Fatalf("expected empty state for corrupt file, got %+v", st)
	}
}

func TestSaveCreatesDirectoryAndRoundTrips(t *testing.T) {
	store := newTestStore(t)
	st := New()
	st.AddService("shop", "/src/shop", "apps:web", 4242, intPtr(3000))
	st.Projects["shop"].Session = "session-1"

	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"projects"`, `"path": "/src/shop"`, `"apps:web"`, `"pid": 4242`, `"port": 3000`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in state file:\n%s", want, text)
		}
	}

	loaded := store.Load()
	svc := loaded.Service("shop", "apps:web")
	if svc == nil || svc.PID != 4242 || svc.PortValue() != 3000 {
		t.Fatalf("unexpected loaded record %+v", svc)
	}
	if loaded.Project("shop").Session != "session-1" {
		t.Fatalf("expected session to survive a round trip")
	}
}

func TestLoadAcceptsMinimalDocument(t *testing.T) {
	store := newTestStore(t)
	os.MkdirAll(filepath.Dir(store.Path()), 0o755)
	doc := `{"projects":{"shop":{"path":"/src/shop","services":{"web":{"pid":12}}}}}`
	if err := os.WriteFile(store.Path(), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	svc := store.Load().Service("shop", "web")
	if svc == nil || svc.PID != 12 || svc.Port != nil {
		t.Fatalf("unexpected record %+v", svc)
	}
}

func TestUpdateSavesOnSuccessOnly(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(func(st *State) error {
		st.AddService("shop", "/src/shop", "web", 1, nil)
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.Load().Service("shop", "web") == nil {
		t.Fatalf("expected update to persist")
	}

	boom := errors.New("boom")
	err = store.Update(func(st *State) error {
		st.RemoveProject("shop")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if store.Load().Service("shop", "web") == nil {
		t.Fatalf("failed update must not be saved")
	}
}

func TestUpdateSerialisesWriters(t *testing.T) {
	store := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(func(st *State) error {
				st.AddService("shop", "/src/shop", "svc"+string(rune('a'+i)), i+1, nil)
				return nil
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	if got := len(store.Load().Project("shop").Services); got != 10 {
		t.Fatalf("expected 10 services after concurrent updates, got %d", got)
	}
}

func TestReconcilePrunesAndPersists(t *testing.T) {
	store := newTestStore(t)
	st := New()
	st.AddService("shop", "/src/shop", "web", 1, intPtr(3000))
	st.AddService("shop", "/src/shop", "api", 2, intPtr(4000))
	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	cleaned, err := store.Reconcile(&fakeLiveness{ports: map[int]bool{3000: true}})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if cleaned.Service("shop", "api") != nil {
		t.Fatalf("expected api to be pruned from returned state")
	}
	if store.Load().Service("shop", "api") != nil {
		t.Fatalf("expected pruned state to be saved")
	}
}
