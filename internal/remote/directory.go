package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/supplier-portal/backend/internal/models"
)

const directoryService = "directory"

type directoryRecord struct {
	ID        flexID `json:"id"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	CNPJ      string `json:"cnpj"`
	Telefone  string `json:"telefone"`
	Categoria string `json:"categoria"`
}

type homologationData struct {
	IQF         flexNumber `json:"iqf"`
	Homologacao flexNumber `json:"homologacao"`
}

// LookupByName returns the directory records matching name, in directory
// order. A body that is not a JSON array counts as no match.
func (c *Client) LookupByName(ctx context.Context, name string) ([]models.DirectoryRecord, error) {
	ctx, cancel := c.withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("/api/fornecedores", url.Values{"nome": {name}}), nil)
	if err != nil {
		return nil, fmt.Errorf("directory: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var raw json.RawMessage
	if err := c.do(directoryService, req, &raw); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return []models.DirectoryRecord{}, nil
	}

	var records []directoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &MalformedError{Service: directoryService, Err: err}
	}

	out := make([]models.DirectoryRecord, 0, len(records))
	for _, r := range records {
		out = append(out, models.DirectoryRecord{
			ID:       string(r.ID),
			Name:     r.Nome,
			Email:    r.Email,
			TaxID:    r.CNPJ,
			Phone:    r.Telefone,
			Category: r.Categoria,
		})
	}
	return out, nil
}

// MetricsFor fetches the quality and homologation scores of a supplier.
func (c *Client) MetricsFor(ctx context.Context, supplierID string) (models.QualityMetrics, error) {
	ctx, cancel := c.withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("/api/dados-homologacao", url.Values{"fornecedor_id": {supplierID}}), nil)
	if err != nil {
		return models.QualityMetrics{}, fmt.Errorf("directory: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var data homologationData
	if err := c.do(directoryService, req, &data); err != nil {
		return models.QualityMetrics{}, err
	}
	return models.QualityMetrics{
		QualityScore:      data.IQF.Float(),
		HomologationScore: data.Homologacao.Float(),
	}, nil
}

// flexID accepts a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// flexNumber accepts a JSON number, a numeric string (comma or dot decimal
// separator), an empty string or null.
type flexNumber struct {
	decimal.Decimal
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		f.Decimal = decimal.Zero
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			f.Decimal = decimal.Zero
			return nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	f.Decimal = d
	return nil
}

// Float returns the value as float64.
func (f flexNumber) Float() float64 {
	v, _ := f.Decimal.Float64()
	return v
}
