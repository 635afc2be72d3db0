package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/GrooVITy-Community/groovity-backend/internal/metrics"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const handleTimeout = 10 * time.Second

const (
	outcomeStored    = "stored"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
	outcomeRequeued  = "requeued"
)

// CatalogConsumer stores events and beats announced by other services.
type CatalogConsumer struct {
	catalog service.CatalogService
	metrics *metrics.Metrics
	log     *zerolog.Logger
}

func NewCatalogConsumer(catalog service.CatalogService, m *metrics.Metrics, log *zerolog.Logger) *CatalogConsumer {
	return &CatalogConsumer{catalog: catalog, metrics: m, log: log}
}

// Start handles deliveries until msgs is closed or ctx is done. The returned
// channel is closed when the loop exits.
func (cc *CatalogConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					cc.log.Info().Msg("delivery channel closed, stopping catalog consumer")
					return
				}
				cc.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

// handleMessage acks stored and duplicate records, drops malformed ones and
// requeues storage failures.
func (cc *CatalogConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	log := cc.log.With().Str("routing_key", msg.RoutingKey).Uint64("delivery_tag", msg.DeliveryTag).Logger()

	var raw map[string]any
	if err := json.Unmarshal(msg.Body, &raw); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal catalog message")
		cc.settle(msg, outcomeRejected)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	var (
		id  string
		err error
	)
	switch msg.RoutingKey {
	case "event.created":
		event, cerr := cc.catalog.CreateEvent(ctx, raw)
		if cerr == nil {
			id = event.ID
		}
		err = cerr
	case "beat.created":
		beat, cerr := cc.catalog.CreateBeat(ctx, raw)
		if cerr == nil {
			id = beat.ID
		}
		err = cerr
	default:
		log.Warn().Msg("unexpected routing key")
		cc.settle(msg, outcomeRejected)
		return
	}

	var verr *schema.ValidationError
	switch {
	case err == nil:
		log.Info().Str("id", id).Msg("synced catalog record")
		cc.settle(msg, outcomeStored)
	case errors.As(err, &verr):
		log.Warn().Err(err).Msg("invalid catalog record")
		cc.settle(msg, outcomeRejected)
	case errors.Is(err, repository.ErrDuplicate):
		log.Debug().Msg("catalog record already present")
		cc.settle(msg, outcomeDuplicate)
	default:
		log.Error().Err(err).Msg("failed to store catalog record")
		cc.settle(msg, outcomeRequeued)
	}
}

func (cc *CatalogConsumer) settle(msg amqp.Delivery, outcome string) {
	var err error
	switch outcome {
	case outcomeStored, outcomeDuplicate:
		err = msg.Ack(false)
	case outcomeRequeued:
		err = msg.Nack(false, true)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		cc.log.Error().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("failed to settle delivery")
	}
	cc.metrics.RecordCatalogMessage(msg.RoutingKey, outcome)
}
