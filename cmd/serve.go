package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GrooVITy-Community/groovity-backend/config"
	"github.com/GrooVITy-Community/groovity-backend/internal/consumer"
	"github.com/GrooVITy-Community/groovity-backend/internal/metrics"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/server"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/GrooVITy-Community/groovity-backend/pkg/objectstore"
	"github.com/GrooVITy-Community/groovity-backend/pkg/rabbitmq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var startCatalogConsumerFn = startCatalogConsumer

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := opts.bootstrap()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, log *zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A StartupError here stops the process before anything listens.
	h, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer h.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	uploader, err := objectstore.New(ctx, objectstore.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretKey,
		CDNDomain:       cfg.CloudFrontDomain,
	})
	if err != nil {
		return err
	}
	if !uploader.Configured() {
		log.Warn().Msg("S3_BUCKET, AWS_REGION or CLOUDFRONT_DOMAIN missing; payment screenshot uploads will be refused")
	}

	repo := repository.NewRepository(h.DB, h.Variant, log)
	catalog := service.NewCatalogService(repo, log)

	var notifier service.Notifier
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable; submission notifications disabled")
		} else {
			defer publisher.Close()
			notifier = publisher
		}

		if done, err := startCatalogConsumerFn(ctx, cfg.RabbitURL, catalog, m, log); err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable; catalog sync disabled")
		} else {
			// The consumer only exits once ctx is cancelled.
			defer func() {
				stop()
				<-done
			}()
		}
	}

	submissions := service.NewSubmissionService(repo, uploader, notifier, m, log)

	e := server.New(server.Options{
		AdminSecret:    cfg.AdminSecret,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Backend:        string(h.Backend),
	}, server.Deps{
		Catalog:     catalog,
		Submissions: submissions,
		Metrics:     m,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("backend", string(h.Backend)).Msg("groovity backend starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// startCatalogConsumer connects the catalog queue and runs the consumer until
// ctx is cancelled. The returned channel closes once the loop has stopped.
func startCatalogConsumer(ctx context.Context, url string, catalog service.CatalogService, m *metrics.Metrics, log *zerolog.Logger) (<-chan struct{}, error) {
	mq, err := rabbitmq.NewConsumer(url, log)
	if err != nil {
		return nil, err
	}
	msgs, err := mq.Consume()
	if err != nil {
		mq.Close()
		return nil, err
	}

	loop := consumer.NewCatalogConsumer(catalog, m, log).Start(ctx, msgs)
	done := make(chan struct{})
	go func() {
		<-loop
		mq.Close()
		close(done)
	}()
	return done, nil
}
