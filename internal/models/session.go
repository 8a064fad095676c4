package models

import "time"

// RequirementOutcome tells which path produced a requirement list.
type RequirementOutcome string

const (
	// RequirementsEmpty means no category is set; requirements are category-gated.
	RequirementsEmpty RequirementOutcome = "empty"
	// RequirementsResolved means the catalog answered.
	RequirementsResolved RequirementOutcome = "resolved"
	// RequirementsDegraded means the catalog failed and only the baseline is shown.
	RequirementsDegraded RequirementOutcome = "degraded"
)

// PortalSession is a point-in-time view of one user's portal state.
type PortalSession struct {
	ID                 string                   `json:"id" msgpack:"id"`
	Profile            *SupplierProfile         `json:"profile,omitempty" msgpack:"profile,omitempty"`
	Category           string                   `json:"category" msgpack:"category"`
	Requirements       []DocumentRequirement    `json:"requirements" msgpack:"requirements"`
	RequirementOutcome RequirementOutcome       `json:"requirementOutcome" msgpack:"requirementOutcome"`
	Slots              []UploadSlot             `json:"slots" msgpack:"slots"`
	History            []SubmissionHistoryEntry `json:"history" msgpack:"history"`
	Submitting         bool                     `json:"submitting" msgpack:"submitting"`
	LastResult         *SubmissionResult        `json:"lastResult,omitempty" msgpack:"lastResult,omitempty"`
	CreatedAt          time.Time                `json:"createdAt" msgpack:"createdAt"`
	LastAccessed       time.Time                `json:"lastAccessed" msgpack:"lastAccessed"`
}
