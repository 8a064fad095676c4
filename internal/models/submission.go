package models

import (
	"io"
	"time"
)

// SubmissionResult is the outcome of one submit attempt.
type SubmissionResult struct {
	Accepted          bool     `json:"accepted" msgpack:"accepted"`
	Message           string   `json:"message" msgpack:"message"`
	AcceptedFileNames []string `json:"acceptedFileNames" msgpack:"acceptedFileNames"`
}

// SubmissionHistoryEntry is one past batch sent by a supplier.
type SubmissionHistoryEntry struct {
	ID        string    `json:"id" msgpack:"id"`
	Date      time.Time `json:"date" msgpack:"date"`
	Documents []string  `json:"documents" msgpack:"documents"`
	Status    string    `json:"status" msgpack:"status"`
	Notes     string    `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// IntakeFile is a staged file handed to the Submission Intake.
type IntakeFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// IntakeRequest is the batch sent to the Submission Intake.
type IntakeRequest struct {
	SupplierID string
	Category   string
	Files      []IntakeFile
}

// IntakeResponse is the intake's verdict on a batch.
type IntakeResponse struct {
	Accepted          bool
	Message           string
	AcceptedFileNames []string
}
