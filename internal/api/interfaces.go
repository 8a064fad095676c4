// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/supplier-portal/backend/internal/models"
	"github.com/supplier-portal/backend/internal/requirements"
	"github.com/supplier-portal/backend/internal/submission"
	"github.com/supplier-portal/backend/internal/supplier"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// ConfigHandler serves the stateless portal rules
type ConfigHandler interface {
	HandleGetUploadRules(c echo.Context) error
	HandleGetRequirements(c echo.Context) error
}

// SessionHandler handles portal session lifecycle
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleGetSessionMsgpack(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
}

// PortalHandler handles the operations a supplier performs inside a session
type PortalHandler interface {
	HandleSearchSupplier(c echo.Context) error
	HandleSetCategory(c echo.Context) error
	HandleGetRequirements(c echo.Context) error
	HandleGetSlots(c echo.Context) error
	HandleAssignFile(c echo.Context) error
	HandleRemoveFile(c echo.Context) error
	HandleSubmit(c echo.Context) error
	HandleGetHistory(c echo.Context) error
}

// SessionManager defines the interface for portal session management
// This allows mocking in tests
type SessionManager interface {
	CreateSession() models.PortalSession
	GetSession(id string) (models.PortalSession, bool)
	TouchSession(id string) bool
	DeleteSession(id string) bool
	SearchSupplier(ctx context.Context, sessionID, name string) (supplier.Result, error)
	SetCategory(ctx context.Context, sessionID, category string) (requirements.Resolution, bool, error)
	Requirements(sessionID string) (requirements.Resolution, error)
	Slots(sessionID string) ([]models.UploadSlot, error)
	AssignFile(sessionID, slotID, name string, size int64, content io.Reader) (models.UploadSlot, error)
	RemoveFile(sessionID, slotID string) (models.UploadSlot, error)
	Submit(ctx context.Context, sessionID string, confirmEmpty bool) (submission.Result, error)
	History(sessionID string) ([]models.SubmissionHistoryEntry, error)
}
