package models

import "time"

// SupplierStatus is the review standing shown next to a supplier profile.
type SupplierStatus string

const (
	SupplierStatusUnderReview SupplierStatus = "UNDER_REVIEW"
	SupplierStatusApproved    SupplierStatus = "APPROVED"
	SupplierStatusPending     SupplierStatus = "PENDING"
	SupplierStatusRejected    SupplierStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s SupplierStatus) Valid() bool {
	switch s {
	case SupplierStatusUnderReview, SupplierStatusApproved, SupplierStatusPending, SupplierStatusRejected:
		return true
	}
	return false
}

// HomologationThreshold is the score from which a supplier counts as homologated.
// Displayed only; nothing in the portal gates on it.
const HomologationThreshold = 70.0

// SupplierProfile is the identity and latest standing of one supplier, built
// fresh on every successful lookup.
type SupplierProfile struct {
	ID                       string         `json:"id" msgpack:"id"`
	Name                     string         `json:"name" msgpack:"name"`
	Email                    string         `json:"email" msgpack:"email"`
	TaxID                    string         `json:"taxId" msgpack:"taxId"`
	Phone                    string         `json:"phone" msgpack:"phone"`
	Category                 string         `json:"category" msgpack:"category"`
	AverageQualityScore      float64        `json:"averageQualityScore" msgpack:"averageQualityScore"`
	AverageHomologationScore float64        `json:"averageHomologationScore" msgpack:"averageHomologationScore"`
	TotalEvaluations         int            `json:"totalEvaluations" msgpack:"totalEvaluations"`
	Status                   SupplierStatus `json:"status" msgpack:"status"`
	LastEvaluationDate       time.Time      `json:"lastEvaluationDate" msgpack:"lastEvaluationDate"`
	NextReviewDate           time.Time      `json:"nextReviewDate" msgpack:"nextReviewDate"`
	Feedback                 string         `json:"feedback" msgpack:"feedback"`
}

// DirectoryRecord is one candidate returned by the Supplier Directory.
// Optional fields are empty when the directory did not provide them.
type DirectoryRecord struct {
	ID       string
	Name     string
	Email    string
	TaxID    string
	Phone    string
	Category string
}

// QualityMetrics holds the aggregate scores of a supplier (0-100 scale).
type QualityMetrics struct {
	QualityScore      float64
	HomologationScore float64
}
