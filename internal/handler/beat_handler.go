package handler

import (
	"errors"
	"net/http"

	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type BeatHandler struct {
	catalog     service.CatalogService
	submissions service.SubmissionService
}

func NewBeatHandler(catalog service.CatalogService, submissions service.SubmissionService) *BeatHandler {
	return &BeatHandler{catalog: catalog, submissions: submissions}
}

func (h *BeatHandler) RegisterRoutes(api, admin *echo.Group) {
	api.GET("/beats", h.ListBeats)
	api.GET("/beats/:id", h.GetBeat)
	api.POST("/beats/:beatId/purchase", h.Purchase)
	admin.POST("/beats", h.CreateBeat)
}

func (h *BeatHandler) ListBeats(c echo.Context) error {
	beats, err := h.catalog.ListBeats(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to fetch beats")
	}
	return c.JSON(http.StatusOK, beats)
}

func (h *BeatHandler) GetBeat(c echo.Context) error {
	beat, err := h.catalog.GetBeat(c.Request().Context(), c.Param("id"))
	if err != nil {
		he := toHTTPError(err, "Failed to fetch beat")
		if he.Code == http.StatusNotFound {
			he.Message = "Beat not found"
		}
		return he
	}
	return c.JSON(http.StatusOK, beat)
}

// Purchase records a pending order for the beat in the path. Payment is
// confirmed out of band.
func (h *BeatHandler) Purchase(c echo.Context) error {
	raw, err := readFields(c)
	if err != nil && !errors.Is(err, errEmptyBody) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	order, err := h.submissions.SubmitBeatOrder(c.Request().Context(), c.Param("beatId"), raw)
	if err != nil {
		return toHTTPError(err, "Failed to process order")
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *BeatHandler) CreateBeat(c echo.Context) error {
	raw, err := readFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	beat, err := h.catalog.CreateBeat(c.Request().Context(), raw)
	if err != nil {
		return toHTTPError(err, "Failed to create beat")
	}
	return c.JSON(http.StatusCreated, beat)
}
