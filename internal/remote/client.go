package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grupomacor/vigilancia/internal/models"
)

// submissionWindow caps how many recent rows one sync pulls.
const submissionWindow = 30

// Client talks to the coordination office's PostgREST-style data API.
// The core never depends on anything beyond this request/response contract.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the given API base URL and key
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// RowID tolerates both numeric and string ids on the wire
type RowID string

// UnmarshalJSON accepts a JSON number or string and keeps its text form.
func (r *RowID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" {
		s = ""
	}
	*r = RowID(s)
	return nil
}

// SubmissionRow is the wire shape of one row of the submissions table
type SubmissionRow struct {
	ID               RowID   `json:"id"`
	DataHora         string  `json:"data_hora"`
	VigilanteNome    string  `json:"vigilante_nome"`
	Matricula        string  `json:"matricula"`
	Posto            string  `json:"posto"`
	Turno            string  `json:"turno"`
	ItensJSON        *string `json:"itens_json"`
	Observacoes      string  `json:"observacoes"`
	EquipamentosInfo string  `json:"equipamentos_info"`
	Foto             string  `json:"foto"`
	Assinatura       string  `json:"assinatura"`
	CreatedAt        string  `json:"created_at"`
}

// FetchSubmissions pulls the recent submission window, newest first.
func (c *Client) FetchSubmissions(ctx context.Context) ([]SubmissionRow, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	query.Set("limit", fmt.Sprintf("%d", submissionWindow))

	var rows []SubmissionRow
	if err := c.get(ctx, "/rest/v1/checklists", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return rows, nil
}

// FetchActiveAlert pulls the newest active broadcast row, or nil when the
// coordination office has nothing active.
func (c *Client) FetchActiveAlert(ctx context.Context) (*models.BroadcastMessage, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("is_active", "eq.true")
	query.Set("order", "created_at.desc")
	query.Set("limit", "1")

	var rows []models.BroadcastMessage
	if err := c.get(ctx, "/rest/v1/messages", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch active alert: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// get performs one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
