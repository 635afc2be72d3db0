// Package repository is the only code that issues store operations. Callers work
// in terms of models.* and never see which backend is bound.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrReferenceNotFound = errors.New("referenced record does not exist")
	ErrDuplicate         = errors.New("record already exists")
)

// countConcurrency bounds the per-event count queries issued by ListEvents.
const countConcurrency = 8

type Repository interface {
	ListEvents(ctx context.Context) ([]models.EventSummary, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	ListBeats(ctx context.Context) ([]models.Beat, error)
	GetBeat(ctx context.Context, id string) (*models.Beat, error)
	CreateBeat(ctx context.Context, beat *models.Beat) error
	CreateBeatOrder(ctx context.Context, order *models.BeatOrder) error
}

type repository struct {
	db      *gorm.DB
	variant *schema.Variant
	log     *zerolog.Logger
}

func NewRepository(db *gorm.DB, variant *schema.Variant, log *zerolog.Logger) Repository {
	return &repository{db: db, variant: variant, log: log}
}

// ListEvents returns every event with its registration count computed at read
// time.
func (r *repository) ListEvents(ctx context.Context) ([]models.EventSummary, error) {
	events, err := r.variant.Events.Find(r.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]models.EventSummary, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for i := range events {
		out[i].Event = events[i]
		g.Go(func() error {
			n, err := r.countRegistrations(gctx, events[i].ID)
			if err != nil {
				return fmt.Errorf("count registrations for event %s: %w", events[i].ID, err)
			}
			out[i].RegistrationCount = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) countRegistrations(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(r.variant.Registrations.Model()).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := r.variant.Events.Create(r.db.WithContext(ctx), event); err != nil {
		return fmt.Errorf("create event: %w", translate(err))
	}
	return nil
}

// CreateRegistration inserts reg in a single statement. An eventId with no
// matching event is rejected by the backend and reported as ErrReferenceNotFound.
func (r *repository) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	if err := r.variant.Registrations.Create(r.db.WithContext(ctx), reg); err != nil {
		return fmt.Errorf("create registration: %w", translate(err))
	}
	r.log.Debug().Str("registration_id", reg.ID).Str("event_id", reg.EventID).Msg("registration stored")
	return nil
}

func (r *repository) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	regs, err := r.variant.Registrations.Find(r.db.WithContext(ctx).Order("created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func (r *repository) ListBeats(ctx context.Context) ([]models.Beat, error) {
	beats, err := r.variant.Beats.Find(r.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list beats: %w", err)
	}
	return beats, nil
}

func (r *repository) GetBeat(ctx context.Context, id string) (*models.Beat, error) {
	beat, err := r.variant.Beats.First(r.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get beat %s: %w", id, err)
	}
	return &beat, nil
}

func (r *repository) CreateBeat(ctx context.Context, beat *models.Beat) error {
	if err := r.variant.Beats.Create(r.db.WithContext(ctx), beat); err != nil {
		return fmt.Errorf("create beat: %w", translate(err))
	}
	return nil
}

// CreateBeatOrder always stores the order as pending with no payment screenshot,
// whatever the caller put in those fields.
func (r *repository) CreateBeatOrder(ctx context.Context, order *models.BeatOrder) error {
	order.PaymentSSURL = nil
	order.Status = models.StatusPending
	if err := r.variant.BeatOrders.Create(r.db.WithContext(ctx), order); err != nil {
		return fmt.Errorf("create beat order: %w", translate(err))
	}
	return nil
}

// translate maps backend constraint failures onto the package sentinels while
// keeping the driver error text.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrReferenceNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
