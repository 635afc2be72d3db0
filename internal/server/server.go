// Package server assembles the HTTP surface: middleware, public routes and the
// admin group.
package server

import (
	"net/http"
	"time"

	"github.com/GrooVITy-Community/groovity-backend/internal/dto"
	"github.com/GrooVITy-Community/groovity-backend/internal/handler"
	"github.com/GrooVITy-Community/groovity-backend/internal/metrics"
	"github.com/GrooVITy-Community/groovity-backend/internal/middleware"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const serviceName = "groovity-backend"

type Options struct {
	AdminSecret    string
	CORSOrigins    []string
	RateLimitRPS   float64
	RequestTimeout time.Duration
	MaxUploadBytes int64
	Backend        string
}

type Deps struct {
	Catalog     service.CatalogService
	Submissions service.SubmissionService
	Metrics     *metrics.Metrics
	Log         *zerolog.Logger
}

func New(opts Options, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(deps.Log)

	e.Use(echoMw.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoMw.Recover())
	e.Use(middleware.Metrics(deps.Metrics))
	e.Use(middleware.NewCORS(opts.CORSOrigins))
	if opts.RequestTimeout > 0 {
		e.Use(echoMw.ContextTimeout(opts.RequestTimeout))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: serviceName, Backend: opts.Backend})
	})
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	// Multipart overhead on top of the screenshot itself.
	bodyLimit := opts.MaxUploadBytes + 64<<10
	api := e.Group("/api", middleware.NewRateLimiter(opts.RateLimitRPS), middleware.NewBodyLimit(bodyLimit))
	admin := api.Group("/admin", middleware.AdminAuth(opts.AdminSecret))

	handler.NewEventHandler(deps.Catalog).RegisterRoutes(api, admin)
	handler.NewRegistrationHandler(deps.Submissions, deps.Catalog, opts.MaxUploadBytes).RegisterRoutes(api, admin)
	handler.NewBeatHandler(deps.Catalog, deps.Submissions).RegisterRoutes(api, admin)

	return e
}
