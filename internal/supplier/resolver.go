package supplier

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
)

// MinNameLength is the minimum number of trimmed characters in a search.
const MinNameLength = 3

// Directory resolves supplier names and their aggregate scores.
type Directory interface {
	LookupByName(ctx context.Context, name string) ([]models.DirectoryRecord, error)
	MetricsFor(ctx context.Context, supplierID string) (models.QualityMetrics, error)
}

// Defaults fills the profile fields the directory does not provide yet.
type Defaults struct {
	NotInformed      string
	TotalEvaluations int
	Status           models.SupplierStatus
	ReviewInterval   time.Duration
	Feedback         string
}

// DefaultDefaults mirrors the placeholders used before the directory exposes
// evaluation data.
func DefaultDefaults() Defaults {
	return Defaults{
		NotInformed:      "Não informado",
		TotalEvaluations: 1,
		Status:           models.SupplierStatusUnderReview,
		ReviewInterval:   365 * 24 * time.Hour,
		Feedback:         "Aguardando análise dos documentos enviados.",
	}
}

// MetricsOutcome tells whether the scores came from the directory.
type MetricsOutcome string

const (
	MetricsResolved MetricsOutcome = "resolved"
	MetricsDegraded MetricsOutcome = "degraded"
)

// Result is a successful lookup.
type Result struct {
	Profile        models.SupplierProfile
	MetricsOutcome MetricsOutcome
	// MetricsErr is the cause of a degraded metrics fetch.
	MetricsErr error
}

// Resolver builds supplier profiles from directory lookups.
type Resolver struct {
	dir      Directory
	defaults Defaults
	now      func() time.Time
}

// NewResolver creates a resolver using dir and the given placeholder defaults.
func NewResolver(dir Directory, defaults Defaults) *Resolver {
	return &Resolver{dir: dir, defaults: defaults, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ValidateName checks a search term without contacting the directory.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLength {
		return &ValidationError{
			Field:   "name",
			Message: "Informe pelo menos 3 caracteres do nome fantasia.",
		}
	}
	return nil
}

// Resolve looks up name and assembles the supplier profile. It returns a
// *ValidationError for short input, ErrNotFound when nothing matches and a
// *LookupError when the directory cannot be queried.
func (r *Resolver) Resolve(ctx context.Context, name string) (Result, error) {
	if err := ValidateName(name); err != nil {
		return Result{}, err
	}
	name = strings.TrimSpace(name)

	records, err := r.dir.LookupByName(ctx, name)
	if err != nil {
		return Result{}, &LookupError{Name: name, Err: err}
	}
	if len(records) == 0 {
		log.Info().Str("name", name).Msg("supplier: no directory match")
		return Result{}, ErrNotFound
	}

	rec := records[0]
	res := Result{MetricsOutcome: MetricsResolved}

	metrics, err := r.dir.MetricsFor(ctx, rec.ID)
	if err != nil {
		log.Warn().Err(err).Str("supplier", rec.ID).Msg("supplier: metrics unavailable, using zero scores")
		metrics = models.QualityMetrics{}
		res.MetricsOutcome = MetricsDegraded
		res.MetricsErr = err
	}

	res.Profile = r.assemble(rec, metrics)
	return res, nil
}

func (r *Resolver) assemble(rec models.DirectoryRecord, m models.QualityMetrics) models.SupplierProfile {
	now := r.now()
	return models.SupplierProfile{
		ID:                       rec.ID,
		Name:                     rec.Name,
		Email:                    r.orNotInformed(rec.Email),
		TaxID:                    r.orNotInformed(rec.TaxID),
		Phone:                    r.orNotInformed(rec.Phone),
		Category:                 rec.Category,
		AverageQualityScore:      m.QualityScore,
		AverageHomologationScore: m.HomologationScore,
		// TODO: take the evaluation count from the directory once it exposes one.
		TotalEvaluations:   r.defaults.TotalEvaluations,
		Status:             r.defaults.Status,
		LastEvaluationDate: now,
		NextReviewDate:     now.Add(r.defaults.ReviewInterval),
		Feedback:           r.defaults.Feedback,
	}
}

func (r *Resolver) orNotInformed(v string) string {
	if strings.TrimSpace(v) == "" {
		return r.defaults.NotInformed
	}
	return v
}
