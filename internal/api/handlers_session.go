// handlers_session.go - Portal session lifecycle handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessionMgr SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionMgr SessionManager) SessionHandler {
	return &SessionHandlerImpl{sessionMgr: sessionMgr}
}

// HandleCreateSession opens a fresh portal session
func (h *SessionHandlerImpl) HandleCreateSession(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.sessionMgr.CreateSession())
}

// HandleGetSession returns the session snapshot
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	s, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, s)
}

// HandleGetSessionMsgpack returns the session snapshot in MessagePack format
func (h *SessionHandlerImpl) HandleGetSessionMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	s, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := msgpack.Marshal(s)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleDeleteSession discards a session and its staged files
func (h *SessionHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessionMgr.DeleteSession(id); !ok {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSessionKeepAlive extends session lifetime while the page stays open
func (h *SessionHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessionMgr.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}
