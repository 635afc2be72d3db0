package handler

import (
	"context"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
)

// --- Mock CatalogService ---

type mockCatalog struct {
	listEventsFn        func(ctx context.Context) ([]models.EventSummary, error)
	createEventFn       func(ctx context.Context, raw map[string]any) (*models.Event, error)
	listBeatsFn         func(ctx context.Context) ([]models.Beat, error)
	getBeatFn           func(ctx context.Context, id string) (*models.Beat, error)
	createBeatFn        func(ctx context.Context, raw map[string]any) (*models.Beat, error)
	listRegistrationsFn func(ctx context.Context) ([]models.Registration, error)
}

var _ service.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) ListEvents(ctx context.Context) ([]models.EventSummary, error) {
	return m.listEventsFn(ctx)
}
func (m *mockCatalog) CreateEvent(ctx context.Context, raw map[string]any) (*models.Event, error) {
	return m.createEventFn(ctx, raw)
}
func (m *mockCatalog) ListBeats(ctx context.Context) ([]models.Beat, error) {
	return m.listBeatsFn(ctx)
}
func (m *mockCatalog) GetBeat(ctx context.Context, id string) (*models.Beat, error) {
	return m.getBeatFn(ctx, id)
}
func (m *mockCatalog) CreateBeat(ctx context.Context, raw map[string]any) (*models.Beat, error) {
	return m.createBeatFn(ctx, raw)
}
func (m *mockCatalog) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	return m.listRegistrationsFn(ctx)
}

// --- Mock SubmissionService ---

type mockSubmissions struct {
	registrationFn func(ctx context.Context, raw map[string]any, att *service.Attachment) (*models.Registration, error)
	beatOrderFn    func(ctx context.Context, beatID string, raw map[string]any) (*models.BeatOrder, error)
}

var _ service.SubmissionService = (*mockSubmissions)(nil)

func (m *mockSubmissions) SubmitRegistration(ctx context.Context, raw map[string]any, att *service.Attachment) (*models.Registration, error) {
	return m.registrationFn(ctx, raw, att)
}
func (m *mockSubmissions) SubmitBeatOrder(ctx context.Context, beatID string, raw map[string]any) (*models.BeatOrder, error) {
	return m.beatOrderFn(ctx, beatID, raw)
}
