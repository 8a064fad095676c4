package requirements

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
)

// Baseline document titles required of every category.
const (
	BaselineEthicsCode    = "Código de Ética e Conduta"
	BaselineQuestionnaire = "Questionário de Fornecedor"

	baselineDescription = "Documento obrigatório"
	catalogDescription  = "Conforme planilha CLAF"
)

// Catalog lists the category-specific document titles.
type Catalog interface {
	RequirementsFor(ctx context.Context, category string) ([]string, error)
}

// Resolution is the result of resolving one category.
type Resolution struct {
	Category     string                       `json:"category"`
	Outcome      models.RequirementOutcome    `json:"outcome"`
	Requirements []models.DocumentRequirement `json:"requirements"`
	// Cause is the catalog error behind a degraded resolution.
	Cause error `json:"-"`
}

// Resolver combines the baseline set with the catalog's list.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a resolver backed by catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Baseline returns fresh copies of the two baseline requirements.
func Baseline() []models.DocumentRequirement {
	titles := []string{BaselineEthicsCode, BaselineQuestionnaire}
	out := make([]models.DocumentRequirement, len(titles))
	for i, title := range titles {
		out[i] = models.DocumentRequirement{
			ID:          fmt.Sprintf("doc-fixo-%d", i),
			Title:       title,
			Description: baselineDescription,
			Mandatory:   true,
		}
	}
	return out
}

// Resolve returns the requirement list for category. It never fails: a blank
// category resolves to an empty list and a catalog failure to the baseline.
func (r *Resolver) Resolve(ctx context.Context, category string) Resolution {
	category = strings.TrimSpace(category)
	if category == "" {
		return Resolution{
			Outcome:      models.RequirementsEmpty,
			Requirements: []models.DocumentRequirement{},
		}
	}

	titles, err := r.catalog.RequirementsFor(ctx, category)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("requirements: catalog unavailable, using baseline")
		return Resolution{
			Category:     category,
			Outcome:      models.RequirementsDegraded,
			Requirements: Baseline(),
			Cause:        err,
		}
	}

	reqs := Baseline()
	for i, title := range titles {
		// Catalog ids continue after the two baseline slots.
		reqs = append(reqs, models.DocumentRequirement{
			ID:          fmt.Sprintf("doc-%d", i+2),
			Title:       title,
			Description: catalogDescription,
			Mandatory:   true,
		})
	}

	return Resolution{
		Category:     category,
		Outcome:      models.RequirementsResolved,
		Requirements: reqs,
	}
}
