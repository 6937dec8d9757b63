package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mynztrip/faresearch/internal/health"
	"github.com/mynztrip/faresearch/internal/lifecycle"
	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/store"
)

type SearchHandler struct {
	manager        *lifecycle.Manager
	health         *health.Tracker
	defaultSources []string
}

func NewSearchHandler(manager *lifecycle.Manager, tracker *health.Tracker, defaultSources []string) *SearchHandler {
	return &SearchHandler{
		manager:        manager,
		health:         tracker,
		defaultSources: defaultSources,
	}
}

// Create accepts a search, persists it queued, and returns the id to
// poll. Validation failures are the only errors surfaced before a
// search id is issued.
func (h *SearchHandler) Create(c echo.Context) error {
	var req models.SearchQuery
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if len(req.Sources) == 0 {
		req.Sources = h.defaultSources
	}

	record, err := h.manager.Create(c.Request().Context(), req)
	if err != nil {
		var ve models.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "validation_error",
				Message: ve.Error(),
				Code:    http.StatusBadRequest,
			})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: "Failed to create search: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusAccepted, models.SearchCreateResponse{
		SearchID:  record.ID,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
	})
}

// Get serves the latest snapshot of a search, whatever state it is in.
func (h *SearchHandler) Get(c echo.Context) error {
	record, err := h.manager.Get(c.Request().Context(), c.Param("search_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "search_id not found")
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
	return c.JSON(http.StatusOK, record)
}

func (h *SearchHandler) GetOffer(c echo.Context) error {
	detail, err := h.manager.GetOffer(c.Request().Context(), c.Param("search_id"), c.Param("offer_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "search_id not found")
		}
		if errors.Is(err, lifecycle.ErrOfferNotFound) {
			return notFound(c, "offer_id not found for search_id")
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
	return c.JSON(http.StatusOK, detail)
}

// ConnectorHealth reports the last-known outcome per connector,
// independent of any specific search.
func (h *SearchHandler) ConnectorHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, models.ConnectorHealthResponse{
		Connectors: h.health.Snapshot(),
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: message,
		Code:    http.StatusNotFound,
	})
}
