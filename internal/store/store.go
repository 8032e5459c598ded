package store

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/grupomacor/vigilancia/internal/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Fixed slot names. Stable across releases so a restart can restore both.
const (
	slotSession = "vigilancia_user"
	slotTheme   = "theme"
)

// Store is the device-local database: the authenticated session slot, the
// theme preference and a read-only cache of the last synced submissions.
type Store struct {
	db *gorm.DB
}

// localSlot is one named key-value slot
type localSlot struct {
	Slot  string `gorm:"primaryKey"`
	Value string
}

// TableName specifies the table name for localSlot
func (localSlot) TableName() string {
	return "local_slots"
}

// cachedSubmission mirrors one synced row so history is available right after
// a restart, before the first remote sync lands
type cachedSubmission struct {
	ID               string `gorm:"primaryKey"`
	Position         int    `gorm:"index"`
	DataHora         string
	VigilanteNome    string
	Matricula        string
	Posto            string
	Turno            string
	TipoRegistro     string
	Itens            datatypes.JSON
	Observacoes      string
	EquipamentosInfo string
	Foto             string
	Assinatura       string
	CreatedAt        string
}

// TableName specifies the table name for cachedSubmission
func (cachedSubmission) TableName() string {
	return "cached_submissions"
}

// Open opens (or creates) the local database at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	if err := db.AutoMigrate(&localSlot{}, &cachedSubmission{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSession durably persists the authenticated operator.
func (s *Store) SaveSession(u models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.putSlot(slotSession, string(data))
}

// LoadSession returns the persisted operator, or nil when no session was
// saved. A corrupted slot is treated as absent; startup must never crash on
// leftover local state.
func (s *Store) LoadSession() *models.User {
	value, ok := s.getSlot(slotSession)
	if !ok {
		return nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(value), &u); err != nil {
		log.Printf("⚠️ Sessão local ilegível, descartando: %v", err)
		return nil
	}
	return &u
}

// ClearSession removes the persisted session.
func (s *Store) ClearSession() error {
	return s.db.Delete(&localSlot{}, "slot = ?", slotSession).Error
}

// SaveTheme persists the theme preference as the literal "dark" or "light".
func (s *Store) SaveTheme(isDark bool) error {
	value := "light"
	if isDark {
		value = "dark"
	}
	return s.putSlot(slotTheme, value)
}

// LoadTheme returns the persisted theme preference, defaulting to dark when
// nothing was saved.
func (s *Store) LoadTheme() bool {
	value, ok := s.getSlot(slotTheme)
	if !ok {
		return true
	}
	return value != "light"
}

// ReplaceSubmissions swaps the cached window wholesale, preserving the remote
// ordering. Runs in one transaction so readers never see a partial cache.
func (s *Store) ReplaceSubmissions(subs []models.Submission) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&cachedSubmission{}).Error; err != nil {
			return err
		}
		for i, sub := range subs {
			itens, err := json.Marshal(sub.Itens)
			if err != nil {
				return fmt.Errorf("failed to encode itens for %s: %w", sub.ID, err)
			}
			row := cachedSubmission{
				ID:               sub.ID,
				Position:         i,
				DataHora:         sub.DataHora,
				VigilanteNome:    sub.VigilanteNome,
				Matricula:        sub.Matricula,
				Posto:            sub.Posto,
				Turno:            sub.Turno,
				TipoRegistro:     sub.TipoRegistro,
				Itens:            datatypes.JSON(itens),
				Observacoes:      sub.Observacoes,
				EquipamentosInfo: sub.EquipamentosInfo,
				Foto:             sub.Foto,
				Assinatura:       sub.Assinatura,
				CreatedAt:        sub.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CachedSubmissions returns the cached window in remote order. A cache that
// cannot be read yields an empty list, never an error: it is only a seed.
func (s *Store) CachedSubmissions() []models.Submission {
	var rows []cachedSubmission
	if err := s.db.Order("position ASC").Find(&rows).Error; err != nil {
		log.Printf("⚠️ Cache de registros ilegível: %v", err)
		return nil
	}

	subs := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		itens, err := models.ParseItens(string(row.Itens))
		if err != nil {
			itens = map[string]models.ItemStatus{}
		}
		subs = append(subs, models.Submission{
			ID:               row.ID,
			DataHora:         row.DataHora,
			VigilanteNome:    row.VigilanteNome,
			Matricula:        row.Matricula,
			Posto:            row.Posto,
			Turno:            row.Turno,
			TipoRegistro:     row.TipoRegistro,
			Itens:            itens,
			Observacoes:      row.Observacoes,
			EquipamentosInfo: row.EquipamentosInfo,
			Foto:             row.Foto,
			Assinatura:       row.Assinatura,
			CreatedAt:        row.CreatedAt,
		})
	}
	return subs
}

// putSlot upserts one named slot
func (s *Store) putSlot(slot, value string) error {
	row := localSlot{Slot: slot, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// getSlot reads one named slot
func (s *Store) getSlot(slot string) (string, bool) {
	var row localSlot
	err := s.db.First(&row, "slot = ?", slot).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("⚠️ Falha ao ler slot %s: %v", slot, err)
		}
		return "", false
	}
	return row.Value, true
}
