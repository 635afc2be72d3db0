package handler

import (
	"net/http"

	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	submissions    service.SubmissionService
	catalog        service.CatalogService
	maxUploadBytes int64
}

func NewRegistrationHandler(submissions service.SubmissionService, catalog service.CatalogService, maxUploadBytes int64) *RegistrationHandler {
	return &RegistrationHandler{submissions: submissions, catalog: catalog, maxUploadBytes: maxUploadBytes}
}

func (h *RegistrationHandler) RegisterRoutes(api, admin *echo.Group) {
	api.POST("/registrations", h.CreateRegistration)
	admin.GET("/registrations", h.ListRegistrations)
}

// CreateRegistration accepts JSON or multipart form data. A multipart request
// may carry the payment screenshot in the payment_ss file field.
func (h *RegistrationHandler) CreateRegistration(c echo.Context) error {
	raw, err := readFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	att, err := readAttachment(c, h.maxUploadBytes)
	if err != nil {
		return err
	}

	reg, err := h.submissions.SubmitRegistration(c.Request().Context(), raw, att)
	if err != nil {
		return toHTTPError(err, "Failed to create registration")
	}
	return c.JSON(http.StatusCreated, reg)
}

func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	regs, err := h.catalog.ListRegistrations(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to fetch registrations")
	}
	return c.JSON(http.StatusOK, regs)
}
