package submission

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
)

// ConnectionErrorMessage is reported when the intake cannot be reached.
const ConnectionErrorMessage = "Erro de conexão com o servidor"

// Intake accepts document batches.
type Intake interface {
	Submit(ctx context.Context, req models.IntakeRequest) (models.IntakeResponse, error)
}

// Outcome tells how the intake call ended.
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomePartialRejection Outcome = "rejected"
	OutcomeTransport        Outcome = "transport_error"
)

// Request carries the session state read at submit time.
type Request struct {
	Profile      *models.SupplierProfile
	Category     string
	Files        []models.IntakeFile
	ConfirmEmpty bool
}

// Result is what the intake said, plus which path produced it.
type Result struct {
	models.SubmissionResult
	Outcome  Outcome
	Category string
	// Err is the transport failure behind OutcomeTransport.
	Err error
}

// Orchestrator validates a submit request and forwards it to the intake.
// It holds no state between calls.
type Orchestrator struct {
	intake Intake
}

// NewOrchestrator creates an orchestrator sending batches to intake.
func NewOrchestrator(intake Intake) *Orchestrator {
	return &Orchestrator{intake: intake}
}

// EffectiveCategory returns the trimmed explicit category, falling back to the
// profile's category.
func EffectiveCategory(profile *models.SupplierProfile, category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	if profile == nil {
		return ""
	}
	return strings.TrimSpace(profile.Category)
}

// Validate checks the preconditions in order and returns the first failing
// one as a *Rejection.
func Validate(req Request) error {
	if req.Profile == nil {
		return ErrNoSupplier
	}
	if EffectiveCategory(req.Profile, req.Category) == "" {
		return ErrNoCategory
	}
	if len(req.Files) == 0 && !req.ConfirmEmpty {
		return ErrConfirmationRequired
	}
	return nil
}

// Submit sends the batch. A non-nil error is always a *Rejection; intake
// failures are reported through the result.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	category := EffectiveCategory(req.Profile, req.Category)
	files := req.Files
	if files == nil {
		files = []models.IntakeFile{}
	}

	resp, err := o.intake.Submit(ctx, models.IntakeRequest{
		SupplierID: req.Profile.ID,
		Category:   category,
		Files:      files,
	})
	if err != nil {
		log.Error().Err(err).Str("supplier", req.Profile.ID).Msg("submission: intake unreachable")
		return Result{
			SubmissionResult: models.SubmissionResult{
				Accepted:          false,
				Message:           ConnectionErrorMessage,
				AcceptedFileNames: []string{},
			},
			Outcome:  OutcomeTransport,
			Category: category,
			Err:      err,
		}, nil
	}

	if !resp.Accepted {
		log.Info().Str("supplier", req.Profile.ID).Str("message", resp.Message).Msg("submission: batch declined")
		return Result{
			SubmissionResult: models.SubmissionResult{
				Accepted:          false,
				Message:           resp.Message,
				AcceptedFileNames: []string{},
			},
			Outcome:  OutcomePartialRejection,
			Category: category,
		}, nil
	}

	names := resp.AcceptedFileNames
	if names == nil {
		names = []string{}
	}
	log.Info().Str("supplier", req.Profile.ID).Int("files", len(names)).Msg("submission: batch accepted")
	return Result{
		SubmissionResult: models.SubmissionResult{
			Accepted:          true,
			Message:           resp.Message,
			AcceptedFileNames: names,
		},
		Outcome:  OutcomeAccepted,
		Category: category,
	}, nil
}
