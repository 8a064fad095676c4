// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/session"
	"github.com/supplier-portal/backend/internal/storage"
	"github.com/supplier-portal/backend/internal/submission"
	"github.com/supplier-portal/backend/internal/supplier"
	"github.com/supplier-portal/backend/internal/upload"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// User-facing messages.
const (
	msgSupplierNotFound  = "Fornecedor não encontrado. Verifique o nome e tente novamente."
	msgDirectoryDown     = "Erro ao conectar com o servidor. Tente novamente."
	msgSubmissionRunning = "Um envio já está em andamento para esta sessão."
	msgFileTooLarge      = "O arquivo excede o tamanho máximo permitido."
	msgStagedFileMissing = "Um dos arquivos anexados não está mais disponível. Anexe-o novamente."
)

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewInputError creates a 400 validation error with a user-facing message
func NewInputError(field, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: field,
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewSupplierNotFoundError creates a 404 for a name with no directory match
func NewSupplierNotFoundError(name string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "SUPPLIER_NOT_FOUND",
		Message: msgSupplierNotFound,
		Details: name,
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(code, message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    code,
		Message: message,
	}
}

// NewRejectionError creates a 422 for a submission refused before sending
func NewRejectionError(r *submission.Rejection) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    r.Code,
		Message: r.Message,
	}
}

// NewUpstreamError creates a 502 for a collaborator that could not be reached
func NewUpstreamError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadGateway,
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// mapError turns a domain error into its API error.
func mapError(err error, sessionID string) *APIError {
	var (
		apiErr    *APIError
		ve        *supplier.ValidationError
		le        *supplier.LookupError
		rejection *submission.Rejection
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, session.ErrSessionNotFound):
		return NewNotFoundError("session", sessionID)
	case errors.As(err, &ve):
		return NewInputError(ve.Field, ve.Message)
	case errors.Is(err, supplier.ErrNotFound):
		return NewSupplierNotFoundError("")
	case errors.As(err, &le):
		return NewUpstreamError(msgDirectoryDown, le.Err)
	case errors.As(err, &rejection):
		return NewRejectionError(rejection)
	case errors.Is(err, submission.ErrInProgress):
		return NewConflictError("SUBMISSION_IN_PROGRESS", msgSubmissionRunning)
	case errors.Is(err, storage.ErrNotFound):
		return NewConflictError("STAGED_FILE_MISSING", msgStagedFileMissing)
	case errors.Is(err, upload.ErrUnknownSlot):
		return NewNotFoundError("slot", err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		return &APIError{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    "BAD_REQUEST",
			Message: msgFileTooLarge,
			Details: err.Error(),
		}
	default:
		return NewInternalError("unexpected failure", err)
	}
}

var exposeDetails = true

// SetExposeErrorDetails controls whether unexpected errors carry their cause.
func SetExposeErrorDetails(expose bool) {
	exposeDetails = expose
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
		}
		if exposeDetails {
			apiErr.Details = err.Error()
		}
	}

	if apiErr.Status >= 500 {
		log.Error().Err(err).Str("path", c.Path()).Str("code", apiErr.Code).Msg("api: request failed")
		if !exposeDetails && apiErr.Code == "INTERNAL_ERROR" {
			apiErr = &APIError{Status: apiErr.Status, Code: apiErr.Code, Message: apiErr.Message}
		}
	}

	c.JSON(apiErr.Status, apiErr)
}
