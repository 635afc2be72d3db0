package service

import (
	"context"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
)

// --- Mock Repository ---

type mockRepo struct {
	listEventsFn         func(ctx context.Context) ([]models.EventSummary, error)
	createEventFn        func(ctx context.Context, event *models.Event) error
	createRegistrationFn func(ctx context.Context, reg *models.Registration) error
	listRegistrationsFn  func(ctx context.Context) ([]models.Registration, error)
	listBeatsFn          func(ctx context.Context) ([]models.Beat, error)
	getBeatFn            func(ctx context.Context, id string) (*models.Beat, error)
	createBeatFn         func(ctx context.Context, beat *models.Beat) error
	createBeatOrderFn    func(ctx context.Context, order *models.BeatOrder) error
}

var _ repository.Repository = (*mockRepo)(nil)

func (m *mockRepo) ListEvents(ctx context.Context) ([]models.EventSummary, error) {
	return m.listEventsFn(ctx)
}
func (m *mockRepo) CreateEvent(ctx context.Context, event *models.Event) error {
	return m.createEventFn(ctx, event)
}
func (m *mockRepo) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	return m.createRegistrationFn(ctx, reg)
}
func (m *mockRepo) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	return m.listRegistrationsFn(ctx)
}
func (m *mockRepo) ListBeats(ctx context.Context) ([]models.Beat, error) {
	return m.listBeatsFn(ctx)
}
func (m *mockRepo) GetBeat(ctx context.Context, id string) (*models.Beat, error) {
	return m.getBeatFn(ctx, id)
}
func (m *mockRepo) CreateBeat(ctx context.Context, beat *models.Beat) error {
	return m.createBeatFn(ctx, beat)
}
func (m *mockRepo) CreateBeatOrder(ctx context.Context, order *models.BeatOrder) error {
	return m.createBeatOrderFn(ctx, order)
}

// --- Mock Uploader ---

type mockUploader struct {
	uploadFn func(ctx context.Context, data []byte, filename, contentType, scopeID string) (string, error)
	calls    int
}

func (m *mockUploader) Upload(ctx context.Context, data []byte, filename, contentType, scopeID string) (string, error) {
	m.calls++
	return m.uploadFn(ctx, data, filename, contentType, scopeID)
}

// --- Mock Notifier ---

type published struct {
	routingKey string
	payload    any
}

type mockNotifier struct {
	err  error
	sent []published
}

func (m *mockNotifier) Publish(_ context.Context, routingKey string, payload any) error {
	m.sent = append(m.sent, published{routingKey: routingKey, payload: payload})
	return m.err
}
