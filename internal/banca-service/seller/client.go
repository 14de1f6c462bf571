package seller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fala com o seller-service, a interface privilegiada de gestão
// de vendedores. O token do chamador é repassado adiante; a validação
// de identidade e cargo acontece do outro lado.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// ManageRequest é o envelope {action, data} aceito pelo seller-service
type ManageRequest struct {
	Action string          `json:"action"` // "create" | "update" | "delete"
	Data   json.RawMessage `json:"data"`
}

// Manage encaminha a ação e devolve o corpo e o status HTTP da resposta
func (c *Client) Manage(ctx context.Context, token string, req ManageRequest) (int, []byte, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/manage-seller", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("seller-service manage: %w", err)
	}
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, out, nil
}

// List encaminha a listagem de vendedores
func (c *Client) List(ctx context.Context, token string) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/sellers", nil)
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("seller-service list: %w", err)
	}
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, out, nil
}
