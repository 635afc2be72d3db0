package service

import (
	"context"
	"time"

	"github.com/GrooVITy-Community/groovity-backend/internal/metrics"
	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/GrooVITy-Community/groovity-backend/pkg/objectstore"
	"github.com/rs/zerolog"
)

const (
	RoutingRegistrationCreated = "registration.created"
	RoutingBeatOrderCreated    = "beat_order.created"
)

const (
	outcomeCreated       = "created"
	outcomeInvalid       = "invalid"
	outcomeUploadFailed  = "upload_failed"
	outcomePersistFailed = "persist_failed"
)

// Attachment is a single uploaded file accompanying a submission.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Notifier announces created records to other services.
type Notifier interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type SubmissionService interface {
	SubmitRegistration(ctx context.Context, raw map[string]any, att *Attachment) (*models.Registration, error)
	SubmitBeatOrder(ctx context.Context, beatID string, raw map[string]any) (*models.BeatOrder, error)
}

type submissionService struct {
	repo     repository.Repository
	uploader objectstore.Uploader
	notifier Notifier
	metrics  *metrics.Metrics
	log      *zerolog.Logger
}

// NewSubmissionService wires the pipeline. uploader, notifier and m may be nil.
func NewSubmissionService(repo repository.Repository, uploader objectstore.Uploader, notifier Notifier, m *metrics.Metrics, log *zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

// SubmitRegistration validates raw, uploads att when present and then inserts
// the registration. A failed upload stops before the insert. A failed insert
// after a successful upload leaves the object in storage; it is logged and
// counted, not deleted.
func (s *submissionService) SubmitRegistration(ctx context.Context, raw map[string]any, att *Attachment) (*models.Registration, error) {
	kind := string(schema.KindRegistration)

	reg, err := schema.DecodeRegistration(normalize(raw, registrationAliases))
	if err != nil {
		s.metrics.RecordSubmission(kind, outcomeInvalid)
		return nil, err
	}

	if att != nil {
		url, err := s.upload(ctx, att, reg.EventID)
		if err != nil {
			s.metrics.RecordSubmission(kind, outcomeUploadFailed)
			s.log.Warn().Err(err).Str("event_id", reg.EventID).Msg("payment screenshot upload failed")
			return nil, &UploadError{Err: err}
		}
		reg.PaymentSSURL = &url
	}

	if err := s.repo.CreateRegistration(ctx, &reg); err != nil {
		s.metrics.RecordSubmission(kind, outcomePersistFailed)
		perr := &PersistenceError{Entity: schema.KindRegistration, Err: err}
		if reg.PaymentSSURL != nil {
			perr.OrphanedURL = *reg.PaymentSSURL
			s.metrics.RecordOrphanedUpload()
			s.log.Error().Err(err).
				Str("event_id", reg.EventID).
				Str("orphaned_url", perr.OrphanedURL).
				Msg("registration insert failed after upload")
		}
		return nil, perr
	}

	s.metrics.RecordSubmission(kind, outcomeCreated)
	s.log.Info().Str("registration_id", reg.ID).Str("event_id", reg.EventID).Bool("has_payment_ss", reg.PaymentSSURL != nil).Msg("registration created")
	s.notify(ctx, RoutingRegistrationCreated, reg)
	return &reg, nil
}

// SubmitBeatOrder records a purchase intent for beatID. The beat's existence is
// left to the store's foreign key.
func (s *submissionService) SubmitBeatOrder(ctx context.Context, beatID string, raw map[string]any) (*models.BeatOrder, error) {
	kind := string(schema.KindBeatOrder)

	fields := normalize(raw, beatOrderAliases)
	if beatID != "" {
		fields["beatId"] = beatID
	}

	order, err := schema.DecodeBeatOrder(fields)
	if err != nil {
		s.metrics.RecordSubmission(kind, outcomeInvalid)
		return nil, err
	}

	if err := s.repo.CreateBeatOrder(ctx, &order); err != nil {
		s.metrics.RecordSubmission(kind, outcomePersistFailed)
		return nil, &PersistenceError{Entity: schema.KindBeatOrder, Err: err}
	}

	s.metrics.RecordSubmission(kind, outcomeCreated)
	s.log.Info().Str("order_id", order.ID).Str("beat_id", order.BeatID).Msg("beat order created")
	s.notify(ctx, RoutingBeatOrderCreated, order)
	return &order, nil
}

func (s *submissionService) upload(ctx context.Context, att *Attachment, scopeID string) (string, error) {
	if s.uploader == nil {
		return "", objectstore.ErrNotConfigured
	}
	start := time.Now()
	url, err := s.uploader.Upload(ctx, att.Data, att.Filename, att.ContentType, scopeID)
	s.metrics.ObserveUpload(time.Since(start), err)
	return url, err
}

// notify never fails the submission; the record is already stored.
func (s *submissionService) notify(ctx context.Context, routingKey string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, routingKey, payload); err != nil {
		s.log.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish notification")
	}
}
