package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/grupomacor/vigilancia/internal/alerts"
	"github.com/grupomacor/vigilancia/internal/models"
	"github.com/grupomacor/vigilancia/internal/notify"
	"github.com/grupomacor/vigilancia/internal/store"
	"github.com/grupomacor/vigilancia/internal/syncer"
)

// refreshTimeout bounds one user-initiated refresh.
const refreshTimeout = 15 * time.Second

// Event identifies which slice of client state changed
type Event string

const (
	EventSession       Event = "session"
	EventSubmissions   Event = "submissions"
	EventAlert         Event = "alert"
	EventNotifications Event = "notifications"
	EventTheme         Event = "theme"
)

// App is the session orchestrator: it owns the session lifecycle, composes
// the store, notification queue, alert poller and submission syncer, and is
// the one surface the view layer talks to. Exactly one App exists per
// process; it is constructed in main and injected, never reached through a
// package global.
type App struct {
	mu      sync.RWMutex
	session *models.User
	isDark  bool
	onEvent func(Event)

	store  *store.Store
	queue  *notify.Queue
	poller *alerts.Poller
	syncer *syncer.Syncer
}

// New wires the orchestrator over its components
func New(st *store.Store, q *notify.Queue, p *alerts.Poller, sy *syncer.Syncer) *App {
	a := &App{
		store:  st,
		queue:  q,
		poller: p,
		syncer: sy,
		isDark: st.LoadTheme(),
	}

	q.SetOnChange(func() { a.emit(EventNotifications) })
	p.SetOnChange(func() { a.emit(EventAlert) })
	sy.SetOnChange(func() { a.emit(EventSubmissions) })

	return a
}

// SetOnEvent installs the change listener the push layer fans out to the UI.
func (a *App) SetOnEvent(fn func(Event)) {
	a.mu.Lock()
	a.onEvent = fn
	a.mu.Unlock()
}

// Restore loads the persisted session on process start. Found: the app goes
// straight to authenticated, seeds history from the local cache and triggers
// both refreshes. Absent: it stays unauthenticated.
func (a *App) Restore() {
	u := a.store.LoadSession()
	if u == nil {
		log.Println("Sessão: nenhum operador autenticado")
		return
	}

	a.mu.Lock()
	a.session = u
	a.mu.Unlock()
	log.Printf("Sessão restaurada: %s", u.Name)

	a.syncer.Seed(a.store.CachedSubmissions())
	a.emit(EventSession)
	a.startBackground()
}

// Login establishes a session for the operator the login screen validated.
func (a *App) Login(u models.User) {
	if err := a.store.SaveSession(u); err != nil {
		// Session still lives in memory; only the restart restore is lost
		log.Printf("⚠️ Sessão: falha ao persistir: %v", err)
	}

	a.mu.Lock()
	a.session = &u
	a.mu.Unlock()

	a.queue.Push(fmt.Sprintf("Acesso autorizado: %s", u.Name), models.NotificationSuccess)
	a.emit(EventSession)
	a.startBackground()
}

// Logout tears the session down: persisted session cleared, submissions and
// alert state emptied, recurring poll stopped. Any refresh still in flight
// has its response discarded so no state leaks across sessions.
func (a *App) Logout() {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()

	a.poller.Stop()
	a.syncer.Reset()
	a.poller.Reset()

	if err := a.store.ClearSession(); err != nil {
		log.Printf("⚠️ Sessão: falha ao limpar: %v", err)
	}

	a.queue.Push("Sessão finalizada.", models.NotificationInfo)
	a.emit(EventSession)
}

// RefreshSubmissions starts a user-initiated submissions refresh. Failures
// surface as a warning notification; background refreshes never do.
func (a *App) RefreshSubmissions() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := a.syncer.Refresh(ctx); err != nil {
			a.queue.Push("Falha ao sincronizar registros.", models.NotificationWarning)
		}
	}()
}

// RefreshAlert starts a user-initiated alert refresh.
func (a *App) RefreshAlert() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := a.poller.Refresh(ctx); err != nil {
			a.queue.Push("Falha ao consultar comunicados.", models.NotificationWarning)
		}
	}()
}

// ToggleTheme flips the theme and persists the preference.
func (a *App) ToggleTheme() bool {
	a.mu.Lock()
	a.isDark = !a.isDark
	isDark := a.isDark
	a.mu.Unlock()

	if err := a.store.SaveTheme(isDark); err != nil {
		log.Printf("⚠️ Tema: falha ao persistir: %v", err)
	}
	a.emit(EventTheme)
	return isDark
}

// DarkTheme reports the current theme flag.
func (a *App) DarkTheme() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isDark
}

// Session returns a copy of the current session, or nil when unauthenticated.
func (a *App) Session() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	u := *a.session
	return &u
}

// Submissions returns the current normalized window.
func (a *App) Submissions() []models.Submission {
	return a.syncer.Submissions()
}

// Syncing reports whether a submissions refresh is in flight.
func (a *App) Syncing() bool {
	return a.syncer.Syncing()
}

// ActiveAlert returns the current broadcast alert, or nil.
func (a *App) ActiveAlert() *models.BroadcastMessage {
	return a.poller.Active()
}

// Notifications returns the visible notification sequence.
func (a *App) Notifications() []models.Notification {
	return a.queue.All()
}

// Notify pushes a notification on behalf of the view layer.
func (a *App) Notify(message string, typ models.NotificationType) string {
	return a.queue.Push(message, typ)
}

// Dismiss removes a notification early.
func (a *App) Dismiss(id string) {
	a.queue.Dismiss(id)
}

// Shutdown releases every scheduled resource the orchestrator owns.
func (a *App) Shutdown() {
	a.poller.Stop()
	a.queue.Close()
}

// startBackground triggers both refreshes and the recurring alert poll.
// Called on login and on a successful restore.
func (a *App) startBackground() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = a.syncer.Refresh(ctx)
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = a.poller.Refresh(ctx)
	}()
	a.poller.Start(a.hasSession)
}

// hasSession is the liveness check the poller consults at every tick
func (a *App) hasSession() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// emit runs the event listener outside the orchestrator lock
func (a *App) emit(e Event) {
	a.mu.RLock()
	fn := a.onEvent
	a.mu.RUnlock()
	if fn != nil {
		fn(e)
	}
}
