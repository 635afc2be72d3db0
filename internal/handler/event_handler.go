package handler

import (
	"net/http"

	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc service.CatalogService
}

func NewEventHandler(svc service.CatalogService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(api, admin *echo.Group) {
	api.GET("/events", h.ListEvents)
	admin.POST("/events", h.CreateEvent)
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to fetch events")
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	raw, err := readFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	event, err := h.svc.CreateEvent(c.Request().Context(), raw)
	if err != nil {
		return toHTTPError(err, "Failed to create event")
	}
	return c.JSON(http.StatusCreated, event)
}
