package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/GrooVITy-Community/groovity-backend/pkg/objectstore"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service and repository failures onto status codes. fallback is
// the message used for unexpected errors; their detail stays in the log only.
func toHTTPError(err error, fallback string) *echo.HTTPError {
	var (
		verr *schema.ValidationError
		uerr *service.UploadError
		perr *service.PersistenceError
	)

	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, "Validation error: "+verr.Error()).SetInternal(err)
	case errors.As(err, &uerr):
		if errors.Is(err, objectstore.ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Payment screenshot storage is not configured").SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload payment screenshot").SetInternal(err)
	case errors.Is(err, repository.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
	case errors.Is(err, repository.ErrReferenceNotFound):
		msg := "Referenced record does not exist"
		if errors.As(err, &perr) {
			switch perr.Entity {
			case schema.KindRegistration:
				msg = "Event not found"
			case schema.KindBeatOrder:
				msg = "Beat not found"
			}
		}
		return echo.NewHTTPError(http.StatusNotFound, msg).SetInternal(err)
	case errors.Is(err, repository.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "Record already exists").SetInternal(err)
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Request timed out").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}
