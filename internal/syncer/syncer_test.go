package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/grupomacor/vigilancia/internal/models"
	"github.com/grupomacor/vigilancia/internal/remote"
)

func strptr(s string) *string { return &s }

// fakeSource returns scripted rows or an error
type fakeSource struct {
	mu   sync.Mutex
	rows []remote.SubmissionRow
	err  error
}

func (f *fakeSource) FetchSubmissions(ctx context.Context) ([]remote.SubmissionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeSource) set(rows []remote.SubmissionRow, err error) {
	f.mu.Lock()
	f.rows = rows
	f.err = err
	f.mu.Unlock()
}

func TestRefreshNormalizesRows(t *testing.T) {
	source := &fakeSource{rows: []remote.SubmissionRow{
		{ID: "12", VigilanteNome: "João", Matricula: "123", Posto: "ENTRADA.",
			Turno: "NOTURNO", ItensJSON: strptr(`{"armamento":"OK","colete":"RUIM"}`)},
		{ID: "11", VigilanteNome: "Maria", ItensJSON: strptr(`{broken`)},
		{ID: "10", VigilanteNome: "Pedro", ItensJSON: nil},
	}}
	s := New(source, nil)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if s.Syncing() {
		t.Error("Syncing flag should be false after Refresh returns")
	}

	subs := s.Submissions()
	if len(subs) != 3 {
		t.Fatalf("Expected 3 submissions, got %d", len(subs))
	}

	// Remote ordering preserved, record kind stamped on every row
	for i, wantID := range []string{"12", "11", "10"} {
		if subs[i].ID != wantID {
			t.Errorf("Position %d: got id %s, want %s", i, subs[i].ID, wantID)
		}
		if subs[i].TipoRegistro != models.TipoRegistroEntrada {
			t.Errorf("Row %s: tipo_registro not stamped", subs[i].ID)
		}
		if subs[i].Itens == nil {
			t.Errorf("Row %s: itens must never be nil", subs[i].ID)
		}
	}

	if subs[0].Itens["colete"] != models.StatusRuim {
		t.Errorf("Row 12 itens wrong: %+v", subs[0].Itens)
	}
	// Malformed and absent payloads degrade to empty, not batch failure
	if len(subs[1].Itens) != 0 || len(subs[2].Itens) != 0 {
		t.Errorf("Bad payloads should degrade to empty maps: %+v / %+v", subs[1].Itens, subs[2].Itens)
	}
}

func TestRefreshFailureKeepsList(t *testing.T) {
	source := &fakeSource{rows: []remote.SubmissionRow{{ID: "1", VigilanteNome: "João"}}}
	s := New(source, nil)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	source.set(nil, errors.New("remote unreachable"))
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error from failed refresh")
	}

	if s.Syncing() {
		t.Error("Syncing flag should be cleared after a failed refresh")
	}
	subs := s.Submissions()
	if len(subs) != 1 || subs[0].ID != "1" {
		t.Errorf("Failed refresh must keep the previous list, got %+v", subs)
	}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	source := &fakeSource{rows: []remote.SubmissionRow{{ID: "1"}, {ID: "2"}}}
	s := New(source, nil)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	source.set([]remote.SubmissionRow{{ID: "3"}}, nil)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	subs := s.Submissions()
	if len(subs) != 1 || subs[0].ID != "3" {
		t.Errorf("Refresh must replace the list wholesale, got %+v", subs)
	}
}

// blockingSource holds the fetch until released
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	rows    []remote.SubmissionRow
}

func (b *blockingSource) FetchSubmissions(ctx context.Context) ([]remote.SubmissionRow, error) {
	close(b.started)
	<-b.release
	return b.rows, nil
}

func TestResetDiscardsInFlight(t *testing.T) {
	source := &blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		rows:    []remote.SubmissionRow{{ID: "99", VigilanteNome: "fantasma"}},
	}
	s := New(source, nil)

	done := make(chan struct{})
	go func() {
		_ = s.Refresh(context.Background())
		close(done)
	}()

	<-source.started
	s.Reset() // logout while the refresh is in flight
	close(source.release)
	<-done

	if subs := s.Submissions(); len(subs) != 0 {
		t.Errorf("Stale response must not repopulate the list after Reset, got %+v", subs)
	}
	if s.Syncing() {
		t.Error("Syncing flag should be cleared even for a discarded response")
	}
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	source := &fakeSource{rows: []remote.SubmissionRow{{ID: "2"}}}
	s := New(source, nil)

	seed := []models.Submission{{ID: "1", Itens: map[string]models.ItemStatus{}}}
	s.Seed(seed)
	if subs := s.Submissions(); len(subs) != 1 || subs[0].ID != "1" {
		t.Fatalf("Seed on an empty list should apply, got %+v", subs)
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	s.Seed(seed)
	if subs := s.Submissions(); len(subs) != 1 || subs[0].ID != "2" {
		t.Errorf("Seed must not overwrite a synced list, got %+v", subs)
	}
}
