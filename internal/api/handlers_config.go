// handlers_config.go - Stateless portal rules
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/supplier-portal/backend/internal/requirements"
	"github.com/supplier-portal/backend/internal/supplier"
	"github.com/supplier-portal/backend/internal/upload"
)

// ConfigHandlerImpl implements the ConfigHandler interface
type ConfigHandlerImpl struct {
	resolver    *requirements.Resolver
	maxFileSize int64
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(resolver *requirements.Resolver, maxFileSize int64) ConfigHandler {
	return &ConfigHandlerImpl{
		resolver:    resolver,
		maxFileSize: maxFileSize,
	}
}

type uploadRulesResponse struct {
	AcceptedExtensions []string `json:"acceptedExtensions"`
	SlotCount          int      `json:"slotCount"`
	SlotIDs            []string `json:"slotIds"`
	MinNameLength      int      `json:"minNameLength"`
	MaxFileSize        int64    `json:"maxFileSize,omitempty"`
}

// HandleGetUploadRules returns what the client needs to pre-check picks
func (h *ConfigHandlerImpl) HandleGetUploadRules(c echo.Context) error {
	ids := make([]string, upload.SlotCount)
	for i := range ids {
		ids[i] = upload.SlotID(i)
	}
	return c.JSON(http.StatusOK, uploadRulesResponse{
		AcceptedExtensions: upload.AcceptedExtensions(),
		SlotCount:          upload.SlotCount,
		SlotIDs:            ids,
		MinNameLength:      supplier.MinNameLength,
		MaxFileSize:        h.maxFileSize,
	})
}

// HandleGetRequirements resolves a category outside any session
func (h *ConfigHandlerImpl) HandleGetRequirements(c echo.Context) error {
	res := h.resolver.Resolve(c.Request().Context(), c.QueryParam("category"))
	return c.JSON(http.StatusOK, res)
}
