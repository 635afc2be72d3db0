package service

import (
	"context"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/rs/zerolog"
)

// CatalogService serves the read side and the admin-only creation of events and
// beats.
type CatalogService interface {
	ListEvents(ctx context.Context) ([]models.EventSummary, error)
	CreateEvent(ctx context.Context, raw map[string]any) (*models.Event, error)
	ListBeats(ctx context.Context) ([]models.Beat, error)
	GetBeat(ctx context.Context, id string) (*models.Beat, error)
	CreateBeat(ctx context.Context, raw map[string]any) (*models.Beat, error)
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
}

type catalogService struct {
	repo repository.Repository
	log  *zerolog.Logger
}

func NewCatalogService(repo repository.Repository, log *zerolog.Logger) CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) ListEvents(ctx context.Context) ([]models.EventSummary, error) {
	return s.repo.ListEvents(ctx)
}

func (s *catalogService) CreateEvent(ctx context.Context, raw map[string]any) (*models.Event, error) {
	event, err := schema.DecodeEvent(raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateEvent(ctx, &event); err != nil {
		return nil, &PersistenceError{Entity: schema.KindEvent, Err: err}
	}
	s.log.Info().Str("event_id", event.ID).Str("title", event.Title).Msg("event created")
	return &event, nil
}

func (s *catalogService) ListBeats(ctx context.Context) ([]models.Beat, error) {
	return s.repo.ListBeats(ctx)
}

func (s *catalogService) GetBeat(ctx context.Context, id string) (*models.Beat, error) {
	return s.repo.GetBeat(ctx, id)
}

func (s *catalogService) CreateBeat(ctx context.Context, raw map[string]any) (*models.Beat, error) {
	beat, err := schema.DecodeBeat(raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateBeat(ctx, &beat); err != nil {
		return nil, &PersistenceError{Entity: schema.KindBeat, Err: err}
	}
	s.log.Info().Str("beat_id", beat.ID).Str("title", beat.Title).Msg("beat created")
	return &beat, nil
}

func (s *catalogService) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	return s.repo.ListRegistrations(ctx)
}
