package alerts

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/grupomacor/vigilancia/internal/models"
)

// DefaultInterval is the broadcast poll period.
const DefaultInterval = 60 * time.Second

// fetchTimeout bounds one poll against a hung remote.
const fetchTimeout = 10 * time.Second

// Source fetches the newest active broadcast row, or nil when none is active
type Source interface {
	FetchActiveAlert(ctx context.Context) (*models.BroadcastMessage, error)
}

// Poller keeps the client-side copy of the active coordination office alert.
// A poll failure never clears a displayed alert; the previous state survives
// until the next successful poll.
type Poller struct {
	mu       sync.Mutex
	source   Source
	interval time.Duration
	active   *models.BroadcastMessage
	gen      uint64
	running  bool
	stop     chan struct{}
	onChange func()
}

// NewPoller creates a poller over the given source
func NewPoller(source Source, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
	}
}

// SetOnChange installs a hook invoked whenever the alert state changes.
func (p *Poller) SetOnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Refresh queries the remote store once and applies the result. On failure
// the previous state is left unchanged. A result that arrives after Reset
// (logout raced the request) is discarded.
func (p *Poller) Refresh(ctx context.Context) error {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	alert, err := p.source.FetchActiveAlert(ctx)
	if err != nil {
		log.Printf("⚠️ Alertas: falha na consulta: %v", err)
		return err
	}

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		log.Println("Alertas: resposta descartada, sessão encerrada durante a consulta")
		return nil
	}
	p.active = alert
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// Active returns the current alert, or nil when none is active.
func (p *Poller) Active() *models.BroadcastMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Reset clears the alert state and invalidates any in-flight poll.
func (p *Poller) Reset() {
	p.mu.Lock()
	p.gen++
	p.active = nil
	p.mu.Unlock()
	p.notifyChange()
}

// Start begins the recurring poll. isLive is re-checked at every tick so the
// poller goes quiet as soon as the session ends. Calling Start while running
// is a no-op.
func (p *Poller) Start(isLive func() bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})

	go p.loop(p.stop, isLive)
}

// Stop cancels the recurring poll. Idempotent; leaves no orphaned timer.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	close(p.stop)
}

// loop is the poll goroutine
func (p *Poller) loop(stop chan struct{}, isLive func() bool) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if isLive != nil && !isLive() {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			_ = p.Refresh(ctx) // background failures are logged, never surfaced
			cancel()
		case <-stop:
			return
		}
	}
}

// notifyChange runs the change hook outside the poller lock
func (p *Poller) notifyChange() {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}
