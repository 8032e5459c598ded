package core

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grupomacor/vigilancia/internal/alerts"
	"github.com/grupomacor/vigilancia/internal/models"
	"github.com/grupomacor/vigilancia/internal/notify"
	"github.com/grupomacor/vigilancia/internal/remote"
	"github.com/grupomacor/vigilancia/internal/store"
	"github.com/grupomacor/vigilancia/internal/syncer"
)

func strptr(s string) *string { return &s }

// fakeRemote scripts both remote queries and can hold submissions in flight
type fakeRemote struct {
	mu       sync.Mutex
	rows     []remote.SubmissionRow
	alert    *models.BroadcastMessage
	subCalls int
	alrCalls int

	block   chan struct{} // when set, FetchSubmissions waits on it
	started chan struct{}
}

func (f *fakeRemote) FetchSubmissions(ctx context.Context) ([]remote.SubmissionRow, error) {
	f.mu.Lock()
	f.subCalls++
	block, started := f.block, f.started
	rows := f.rows
	f.mu.Unlock()

	if block != nil {
		if started != nil {
			close(started)
			f.mu.Lock()
			f.started = nil
			f.mu.Unlock()
		}
		<-block
	}
	return rows, nil
}

func (f *fakeRemote) FetchActiveAlert(ctx context.Context) (*models.BroadcastMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alrCalls++
	return f.alert, nil
}

func (f *fakeRemote) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subCalls, f.alrCalls
}

func newTestApp(t *testing.T, rem *fakeRemote) *App {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	app := New(st,
		notify.NewQueueTTL(time.Minute),
		alerts.NewPoller(rem, time.Minute),
		syncer.New(rem, st),
	)
	t.Cleanup(app.Shutdown)
	return app
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	rem := &fakeRemote{
		rows:  []remote.SubmissionRow{{ID: "1", VigilanteNome: "João", ItensJSON: strptr(`{"radio":"OK"}`)}},
		alert: &models.BroadcastMessage{ID: 2, Content: "Comunicado", MessageType: "info", IsActive: true},
	}
	app := newTestApp(t, rem)

	if app.Session() != nil {
		t.Fatal("Fresh app should be unauthenticated")
	}

	u := models.User{Username: "v1", Name: "João", Role: "vigilante", Matricula: "123"}
	app.Login(u)

	got := app.Session()
	if got == nil || *got != u {
		t.Fatalf("Session: got %+v, want %+v", got, u)
	}

	// Success notification queued
	found := false
	for _, n := range app.Notifications() {
		if n.Type == models.NotificationSuccess {
			found = true
		}
	}
	if !found {
		t.Error("Login should queue a success notification")
	}

	// Both refreshes fire
	waitFor(t, "submissions refresh", func() bool { s, _ := rem.calls(); return s >= 1 })
	waitFor(t, "alert refresh", func() bool { _, a := rem.calls(); return a >= 1 })
	waitFor(t, "submission list", func() bool { return len(app.Submissions()) == 1 })
	waitFor(t, "active alert", func() bool { return app.ActiveAlert() != nil })
	waitFor(t, "syncing cleared", func() bool { return !app.Syncing() })
}

func TestLogoutClearsEverything(t *testing.T) {
	rem := &fakeRemote{
		rows:  []remote.SubmissionRow{{ID: "1"}},
		alert: &models.BroadcastMessage{ID: 2, IsActive: true},
	}
	app := newTestApp(t, rem)

	app.Login(models.User{Username: "v1", Name: "João", Role: "vigilante", Matricula: "123"})
	waitFor(t, "initial sync", func() bool { return len(app.Submissions()) == 1 && app.ActiveAlert() != nil })

	app.Logout()

	if app.Session() != nil {
		t.Error("Session should be nil after logout")
	}
	if len(app.Submissions()) != 0 {
		t.Error("Submissions should be cleared on logout")
	}
	if app.ActiveAlert() != nil {
		t.Error("Alert state should be cleared on logout")
	}

	// Persisted session is gone too: a restore finds nothing
	app.Restore()
	if app.Session() != nil {
		t.Error("Restore after logout should stay unauthenticated")
	}
}

func TestLogoutDiscardsInFlightSync(t *testing.T) {
	rem := &fakeRemote{
		rows:    []remote.SubmissionRow{{ID: "99", VigilanteNome: "fantasma"}},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	app := newTestApp(t, rem)
	started := rem.started

	app.Login(models.User{Username: "v1", Name: "João", Role: "vigilante", Matricula: "123"})

	<-started // refresh is now in flight
	app.Logout()
	close(rem.block) // stale response arrives after logout

	waitFor(t, "syncing cleared", func() bool { return !app.Syncing() })
	if subs := app.Submissions(); len(subs) != 0 {
		t.Errorf("Stale response must not repopulate the list after logout, got %+v", subs)
	}
}

func TestRestoreSeedsFromCacheAndSyncs(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	// A previous run left a session and a cached window behind
	u := models.User{Username: "v1", Name: "João", Role: "supervisor", Matricula: "123"}
	if err := st.SaveSession(u); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	cached := []models.Submission{{ID: "5", VigilanteNome: "João", TipoRegistro: models.TipoRegistroEntrada,
		Itens: map[string]models.ItemStatus{}}}
	if err := st.ReplaceSubmissions(cached); err != nil {
		t.Fatalf("ReplaceSubmissions failed: %v", err)
	}

	rem := &fakeRemote{block: make(chan struct{}), started: make(chan struct{})}
	app := New(st, notify.NewQueueTTL(time.Minute), alerts.NewPoller(rem, time.Minute), syncer.New(rem, st))
	t.Cleanup(app.Shutdown)
	t.Cleanup(func() { close(rem.block) })

	app.Restore()

	got := app.Session()
	if got == nil || *got != u {
		t.Fatalf("Restore: got %+v, want %+v", got, u)
	}
	// History is readable before the first sync lands
	if subs := app.Submissions(); len(subs) != 1 || subs[0].ID != "5" {
		t.Errorf("Cached window should seed the list, got %+v", subs)
	}
}

func TestToggleThemeTwicePersists(t *testing.T) {
	rem := &fakeRemote{}
	app := newTestApp(t, rem)

	original := app.DarkTheme()
	if !original {
		t.Fatal("Theme should default to dark")
	}

	if got := app.ToggleTheme(); got != false {
		t.Errorf("First toggle: got %v", got)
	}
	if got := app.ToggleTheme(); got != original {
		t.Errorf("Second toggle should return to %v", original)
	}
	if app.DarkTheme() != original {
		t.Error("In-memory flag should match the original after two toggles")
	}
}

func TestEventsFanOut(t *testing.T) {
	rem := &fakeRemote{}
	app := newTestApp(t, rem)

	var mu sync.Mutex
	seen := map[Event]int{}
	app.SetOnEvent(func(e Event) {
		mu.Lock()
		seen[e]++
		mu.Unlock()
	})

	app.Login(models.User{Username: "v1", Name: "João", Role: "vigilante", Matricula: "123"})
	app.ToggleTheme()
	app.Dismiss(app.Notify("teste", models.NotificationInfo))

	waitFor(t, "events", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen[EventSession] >= 1 && seen[EventTheme] >= 1 && seen[EventNotifications] >= 1
	})
}
