// handlers_portal.go - Supplier, requirement, slot and submission handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
	"github.com/supplier-portal/backend/internal/requirements"
	"github.com/supplier-portal/backend/internal/submission"
	"github.com/supplier-portal/backend/internal/supplier"
)

// PortalHandlerImpl implements the PortalHandler interface
type PortalHandlerImpl struct {
	sessionMgr SessionManager
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(sessionMgr SessionManager) PortalHandler {
	return &PortalHandlerImpl{sessionMgr: sessionMgr}
}

type searchSupplierRequest struct {
	Name string `json:"name"`
}

type searchSupplierResponse struct {
	Profile        models.SupplierProfile  `json:"profile"`
	MetricsOutcome supplier.MetricsOutcome `json:"metricsOutcome"`
	Session        models.PortalSession    `json:"session"`
}

// HandleSearchSupplier looks the supplier up by trade name
func (h *PortalHandlerImpl) HandleSearchSupplier(c echo.Context) error {
	id := c.Param("sessionId")
	var req searchSupplierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.sessionMgr.SearchSupplier(c.Request().Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, supplier.ErrNotFound) {
			return NewSupplierNotFoundError(req.Name)
		}
		return mapError(err, id)
	}

	snap, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, searchSupplierResponse{
		Profile:        res.Profile,
		MetricsOutcome: res.MetricsOutcome,
		Session:        snap,
	})
}

type setCategoryRequest struct {
	Category string `json:"category" validate:"max=200"`
}

type requirementsResponse struct {
	requirements.Resolution
	Applied bool `json:"applied"`
}

// HandleSetCategory replaces the requirement list for the typed category
func (h *PortalHandlerImpl) HandleSetCategory(c echo.Context) error {
	id := c.Param("sessionId")
	var req setCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, applied, err := h.sessionMgr.SetCategory(c.Request().Context(), id, req.Category)
	if err != nil {
		return mapError(err, id)
	}
	return c.JSON(http.StatusOK, requirementsResponse{Resolution: res, Applied: applied})
}

// HandleGetRequirements returns the requirement list on display
func (h *PortalHandlerImpl) HandleGetRequirements(c echo.Context) error {
	id := c.Param("sessionId")
	res, err := h.sessionMgr.Requirements(id)
	if err != nil {
		return mapError(err, id)
	}
	return c.JSON(http.StatusOK, requirementsResponse{Resolution: res, Applied: true})
}

// HandleGetSlots returns the upload slots in order
func (h *PortalHandlerImpl) HandleGetSlots(c echo.Context) error {
	id := c.Param("sessionId")
	slots, err := h.sessionMgr.Slots(id)
	if err != nil {
		return mapError(err, id)
	}
	return c.JSON(http.StatusOK, slots)
}

// HandleAssignFile stages the multipart "file" part into a slot
func (h *PortalHandlerImpl) HandleAssignFile(c echo.Context) error {
	id := c.Param("sessionId")
	slotID := c.Param("slotId")

	fh, err := c.FormFile("file")
	if err != nil {
		return NewValidationError("file")
	}
	src, err := fh.Open()
	if err != nil {
		return NewBadRequestError("failed to read uploaded file", err)
	}
	defer src.Close()

	slot, err := h.sessionMgr.AssignFile(id, slotID, fh.Filename, fh.Size, src)
	if err != nil {
		return mapError(err, id)
	}
	return c.JSON(http.StatusOK, slot)
}

// HandleRemoveFile empties a slot
func (h *PortalHandlerImpl) HandleRemoveFile(c echo.Context) error {
	id := c.Param("sessionId")
	slot, err := h.sessionMgr.RemoveFile(id, c.Param("slotId"))
	if err != nil {
		return mapError(err, id)
	}
	return c.JSON(http.StatusOK, slot)
}

type submitRequest struct {
	ConfirmEmpty bool `json:"confirmEmpty"`
}

type submitResponse struct {
	models.SubmissionResult
	Outcome  submission.Outcome   `json:"outcome"`
	Category string               `json:"category"`
	Session  models.PortalSession `json:"session"`
}

// HandleSubmit sends the staged files to the intake
func (h *PortalHandlerImpl) HandleSubmit(c echo.Context) error {
	id := c.Param("sessionId")
	var req submitRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	res, err := h.sessionMgr.Submit(c.Request().Context(), id, req.ConfirmEmpty)
	if err != nil {
		return mapError(err, id)
	}
	if res.Outcome == submission.OutcomeTransport {
		log.Warn().Err(res.Err).Str("session", id).Msg("api: intake unreachable during submit")
	}

	snap, _ := h.sessionMgr.GetSession(id)
	return c.JSON(http.StatusOK, submitResponse{
		SubmissionResult: res.SubmissionResult,
		Outcome:          res.Outcome,
		Category:         res.Category,
		Session:          snap,
	})
}

// HandleGetHistory returns the submission history of the current supplier
func (h *PortalHandlerImpl) HandleGetHistory(c echo.Context) error {
	id := c.Param("sessionId")
	entries, err := h.sessionMgr.History(id)
	if err != nil {
		return mapError(err, id)
	}
	return c.JSON(http.StatusOK, entries)
}
