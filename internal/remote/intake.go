package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/supplier-portal/backend/internal/models"
)

const intakeService = "intake"

type intakeResponse struct {
	Message  string   `json:"message"`
	Enviados []string `json:"enviados"`
}

// Submit uploads a batch as multipart form data. Any 2xx answer is an
// acceptance; other statuses with a JSON body are a decline carrying the
// intake's message. Unreachable intakes and non-JSON bodies are errors.
func (c *Client) Submit(ctx context.Context, batch models.IntakeRequest) (models.IntakeResponse, error) {
	ctx, cancel := c.withTimeout(ctx, c.submitTimeout)
	defer cancel()

	body, contentType, err := encodeBatch(batch)
	if err != nil {
		return models.IntakeResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/envio-documento", nil), body)
	if err != nil {
		return models.IntakeResponse{}, fmt.Errorf("intake: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var out models.IntakeResponse
	err = c.breaker.Execute(func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("intake: unreachable: %w", err)
		}
		defer resp.Body.Close()

		var decoded intakeResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			if resp.StatusCode >= 500 {
				return &StatusError{Service: intakeService, StatusCode: resp.StatusCode}
			}
			return &MalformedError{Service: intakeService, Err: err}
		}

		accepted := resp.StatusCode >= 200 && resp.StatusCode <= 299
		out = models.IntakeResponse{Accepted: accepted, Message: decoded.Message}
		if accepted {
			out.AcceptedFileNames = decoded.Enviados
		}
		if out.AcceptedFileNames == nil {
			out.AcceptedFileNames = []string{}
		}
		return nil
	})
	if err != nil {
		return models.IntakeResponse{}, err
	}
	return out, nil
}

func encodeBatch(batch models.IntakeRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("fornecedor_id", batch.SupplierID); err != nil {
		return nil, "", fmt.Errorf("intake: write field: %w", err)
	}
	if err := w.WriteField("categoria", batch.Category); err != nil {
		return nil, "", fmt.Errorf("intake: write field: %w", err)
	}

	for _, f := range batch.Files {
		if err := writeFilePart(w, f); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("intake: close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, f models.IntakeFile) error {
	part, err := w.CreateFormFile("arquivos", f.Name)
	if err != nil {
		return fmt.Errorf("intake: create part %s: %w", f.Name, err)
	}
	if f.Open == nil {
		return nil
	}
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("intake: open %s: %w", f.Name, err)
	}
	defer src.Close()
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("intake: copy %s: %w", f.Name, err)
	}
	return nil
}
