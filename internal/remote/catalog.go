package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const catalogService = "catalog"

type catalogRequest struct {
	Categoria string `json:"categoria"`
}

type catalogResponse struct {
	Documentos *[]string `json:"documentos"`
}

// RequirementsFor returns the catalog titles for category. A response without
// a documentos list is malformed.
func (c *Client) RequirementsFor(ctx context.Context, category string) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(catalogRequest{Categoria: category})
	if err != nil {
		return nil, fmt.Errorf("catalog: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/api/documentos-necessarios", nil), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp catalogResponse
	if err := c.do(catalogService, req, &resp); err != nil {
		return nil, err
	}
	if resp.Documentos == nil {
		return nil, &MalformedError{Service: catalogService, Err: errors.New("missing documentos")}
	}
	return *resp.Documentos, nil
}
