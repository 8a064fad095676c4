package submission

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplier-portal/backend/internal/models"
)

type fakeIntake struct {
	resp  models.IntakeResponse
	err   error
	calls []models.IntakeRequest
}

func (f *fakeIntake) Submit(_ context.Context, req models.IntakeRequest) (models.IntakeResponse, error) {
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func file(name string) models.IntakeFile {
	return models.IntakeFile{
		Name: name,
		Size: 4,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("data")), nil },
	}
}

func profile(category string) *models.SupplierProfile {
	return &models.SupplierProfile{ID: "42", Name: "ACME LTDA", Category: category}
}

func TestOrchestrator_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "no profile wins over everything",
			req:  Request{Category: "TI", Files: []models.IntakeFile{file("a.pdf")}, ConfirmEmpty: true},
			want: ErrNoSupplier,
		},
		{
			name: "no profile with nothing else",
			req:  Request{},
			want: ErrNoSupplier,
		},
		{
			name: "blank category and profile without category",
			req:  Request{Profile: profile(""), Category: "   ", Files: []models.IntakeFile{file("a.pdf")}},
			want: ErrNoCategory,
		},
		{
			name: "no files without confirmation",
			req:  Request{Profile: profile("TI")},
			want: ErrConfirmationRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intake := &fakeIntake{resp: models.IntakeResponse{Accepted: true}}
			_, err := NewOrchestrator(intake).Submit(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.want)
			var rej *Rejection
			assert.ErrorAs(t, err, &rej)
			assert.Empty(t, intake.calls, "no network call on local rejection")
		})
	}
}

func TestOrchestrator_ConfirmedEmptySubmission(t *testing.T) {
	intake := &fakeIntake{resp: models.IntakeResponse{Accepted: true, Message: "ok"}}

	res, err := NewOrchestrator(intake).Submit(context.Background(), Request{
		Profile:      profile("TI"),
		ConfirmEmpty: true,
	})
	require.NoError(t, err)
	require.Len(t, intake.calls, 1)
	assert.NotNil(t, intake.calls[0].Files)
	assert.Empty(t, intake.calls[0].Files)
	assert.True(t, res.Accepted)
	assert.Equal(t, []string{}, res.AcceptedFileNames)
}

func TestOrchestrator_CategoryFallsBackToProfile(t *testing.T) {
	intake := &fakeIntake{resp: models.IntakeResponse{Accepted: true}}

	res, err := NewOrchestrator(intake).Submit(context.Background(), Request{
		Profile: profile("TRANSPORTADORA"),
		Files:   []models.IntakeFile{file("a.pdf")},
	})
	require.NoError(t, err)
	assert.Equal(t, "TRANSPORTADORA", intake.calls[0].Category)
	assert.Equal(t, "TRANSPORTADORA", res.Category)
}

func TestOrchestrator_ExplicitCategoryIsTrimmed(t *testing.T) {
	intake := &fakeIntake{resp: models.IntakeResponse{Accepted: true}}

	_, err := NewOrchestrator(intake).Submit(context.Background(), Request{
		Profile:  profile("TRANSPORTADORA"),
		Category: "  QUIMICOS ",
		Files:    []models.IntakeFile{file("a.pdf")},
	})
	require.NoError(t, err)
	assert.Equal(t, "QUIMICOS", intake.calls[0].Category)
	assert.Equal(t, "42", intake.calls[0].SupplierID)
}

func TestOrchestrator_IntakeOutcomes(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		intake := &fakeIntake{resp: models.IntakeResponse{
			Accepted:          true,
			Message:           "Documentos recebidos",
			AcceptedFileNames: []string{"a.pdf", "b.png"},
		}}
		res, err := NewOrchestrator(intake).Submit(context.Background(), Request{
			Profile: profile("TI"),
			Files:   []models.IntakeFile{file("a.pdf"), file("b.png")},
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeAccepted, res.Outcome)
		assert.True(t, res.Accepted)
		assert.Equal(t, "Documentos recebidos", res.Message)
		assert.Equal(t, []string{"a.pdf", "b.png"}, res.AcceptedFileNames)
		assert.Len(t, intake.calls[0].Files, 2)
	})

	t.Run("declined message is verbatim", func(t *testing.T) {
		intake := &fakeIntake{resp: models.IntakeResponse{Accepted: false, Message: "Categoria inválida"}}
		res, err := NewOrchestrator(intake).Submit(context.Background(), Request{
			Profile: profile("TI"),
			Files:   []models.IntakeFile{file("a.pdf")},
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomePartialRejection, res.Outcome)
		assert.False(t, res.Accepted)
		assert.Equal(t, "Categoria inválida", res.Message)
		assert.Empty(t, res.AcceptedFileNames)
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("connection reset")
		intake := &fakeIntake{err: boom}
		res, err := NewOrchestrator(intake).Submit(context.Background(), Request{
			Profile: profile("TI"),
			Files:   []models.IntakeFile{file("a.pdf")},
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeTransport, res.Outcome)
		assert.False(t, res.Accepted)
		assert.Equal(t, ConnectionErrorMessage, res.Message)
		assert.ErrorIs(t, res.Err, boom)
	})
}

func TestRejectionIsMatchesByCode(t *testing.T) {
	err := error(&Rejection{Code: CodeCategoryRequired, Message: "other text"})
	assert.True(t, errors.Is(err, ErrNoCategory))
	assert.False(t, errors.Is(err, ErrNoSupplier))
}
