package syncer

import (
	"context"
	"log"
	"sync"

	"github.com/grupomacor/vigilancia/internal/models"
	"github.com/grupomacor/vigilancia/internal/remote"
)

// Source fetches the recent submission window from the coordination office
type Source interface {
	FetchSubmissions(ctx context.Context) ([]remote.SubmissionRow, error)
}

// Cache persists the last successful window between restarts. Optional.
type Cache interface {
	ReplaceSubmissions([]models.Submission) error
}

// Syncer republishes the remote submission window as a normalized local
// list. Every successful refresh replaces the whole list; readers see either
// the old window or the new one, never an interleaving. On failure the
// previous window stays intact. Overlapping refreshes are not serialized:
// the last response to resolve wins, matching the upstream behavior.
type Syncer struct {
	mu      sync.RWMutex
	source  Source
	cache   Cache
	subs    []models.Submission
	syncing bool
	gen     uint64

	onChange func()
}

// New creates a syncer over the given source. cache may be nil.
func New(source Source, cache Cache) *Syncer {
	return &Syncer{
		source: source,
		cache:  cache,
	}
}

// SetOnChange installs a hook invoked whenever the list or syncing flag moves.
func (s *Syncer) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Refresh pulls the window, normalizes each row and swaps the local list.
// The syncing flag is cleared on every exit path. A response that lands
// after Reset (logout raced the request) is discarded.
func (s *Syncer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.syncing = true
	s.mu.Unlock()
	s.notifyChange()

	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
		s.notifyChange()
	}()

	rows, err := s.source.FetchSubmissions(ctx)
	if err != nil {
		log.Printf("⚠️ Sinc: falha ao buscar registros: %v", err)
		return err
	}

	subs := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, normalize(row))
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		log.Println("Sinc: resposta descartada, sessão encerrada durante a busca")
		return nil
	}
	s.subs = subs
	s.mu.Unlock()
	s.notifyChange()

	if s.cache != nil {
		if err := s.cache.ReplaceSubmissions(subs); err != nil {
			log.Printf("⚠️ Sinc: falha ao gravar cache local: %v", err)
		}
	}

	log.Printf("✅ Sinc: %d registros recebidos", len(subs))
	return nil
}

// Submissions returns a snapshot of the current window, newest first.
func (s *Syncer) Submissions() []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Submission, len(s.subs))
	copy(out, s.subs)
	return out
}

// Syncing reports whether a refresh is in flight.
func (s *Syncer) Syncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncing
}

// Seed installs cached submissions as the initial window. Only applies while
// the list is still empty so a finished sync is never overwritten by the
// cache.
func (s *Syncer) Seed(subs []models.Submission) {
	s.mu.Lock()
	if len(s.subs) > 0 || len(subs) == 0 {
		s.mu.Unlock()
		return
	}
	s.subs = subs
	s.mu.Unlock()
	s.notifyChange()
}

// Reset empties the window and invalidates any in-flight refresh.
func (s *Syncer) Reset() {
	s.mu.Lock()
	s.gen++
	s.subs = nil
	s.mu.Unlock()
	s.notifyChange()
}

// normalize converts one wire row into the local submission shape. A row
// whose payload cannot be decoded degrades to an empty mapping; the batch
// never aborts on one bad row.
func normalize(row remote.SubmissionRow) models.Submission {
	raw := ""
	if row.ItensJSON != nil {
		raw = *row.ItensJSON
	}

	itens, err := models.ParseItens(raw)
	if err != nil {
		log.Printf("⚠️ Sinc: registro %s com itens ilegíveis: %v", row.ID, err)
		itens = map[string]models.ItemStatus{}
	}

	return models.Submission{
		ID:               string(row.ID),
		DataHora:         row.DataHora,
		VigilanteNome:    row.VigilanteNome,
		Matricula:        row.Matricula,
		Posto:            row.Posto,
		Turno:            row.Turno,
		TipoRegistro:     models.TipoRegistroEntrada,
		Itens:            itens,
		Observacoes:      row.Observacoes,
		EquipamentosInfo: row.EquipamentosInfo,
		Foto:             row.Foto,
		Assinatura:       row.Assinatura,
		CreatedAt:        row.CreatedAt,
	}
}

// notifyChange runs the change hook outside the syncer lock
func (s *Syncer) notifyChange() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
