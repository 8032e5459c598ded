package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemStatus is the condition reported for one checklist item
type ItemStatus string

const (
	StatusOK   ItemStatus = "OK"
	StatusRuim ItemStatus = "RUIM"
	StatusNA   ItemStatus = "N/A"
)

// TipoRegistroEntrada is the only record kind currently issued. The field is
// kept on every record so future kinds can be introduced without a migration.
const TipoRegistroEntrada = "ENTRADA"

// Submission is one inspection event, read-only on the client. The remote
// store owns the rows; each sync replaces the local window wholesale.
type Submission struct {
	ID               string                `json:"id"`
	DataHora         string                `json:"data_hora"`
	VigilanteNome    string                `json:"vigilante_nome"`
	Matricula        string                `json:"matricula"`
	Posto            string                `json:"posto"`
	Turno            string                `json:"turno"`
	TipoRegistro     string                `json:"tipo_registro"`
	Itens            map[string]ItemStatus `json:"itens"`
	Observacoes      string                `json:"observacoes"`
	EquipamentosInfo string                `json:"equipamentos_info"`
	Foto             string                `json:"foto,omitempty"`
	Assinatura       string                `json:"assinatura,omitempty"`
	CreatedAt        string                `json:"created_at,omitempty"`
}

// ParseItens decodes the serialized checklist payload carried by a remote row.
// A malformed payload is reported as an error so the caller can apply the
// documented fallback: that row degrades to an empty mapping, the batch
// continues. An absent or blank payload is not an error, just an empty map.
func ParseItens(raw string) (map[string]ItemStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return map[string]ItemStatus{}, nil
	}

	itens := make(map[string]ItemStatus)
	if err := json.Unmarshal([]byte(trimmed), &itens); err != nil {
		return nil, fmt.Errorf("payload de itens ilegível: %w", err)
	}
	return itens, nil
}
