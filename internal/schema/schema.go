// Package schema defines the entity tables for each supported backend family and
// the validation applied to creation requests before they reach a store.
package schema

import (
	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"gorm.io/gorm"
)

// Kind names one of the four stored entities.
type Kind string

const (
	KindEvent        Kind = "event"
	KindRegistration Kind = "registration"
	KindBeat         Kind = "beat"
	KindBeatOrder    Kind = "beat_order"
)

// Mapper moves a single entity between its normalized domain shape and the row
// struct a variant stores it as. Callers build the query; the mapper only
// supplies the destination type.
type Mapper[M any] interface {
	// Model returns a pointer to an empty row, usable with AutoMigrate and tx.Model.
	Model() any
	Find(tx *gorm.DB) ([]M, error)
	First(tx *gorm.DB) (M, error)
	// Create inserts m and refreshes it from the stored row, picking up
	// store-assigned columns such as created_at.
	Create(tx *gorm.DB, m *M) error
}

// Variant is the set of tables for one backend family. Both variants expose the
// same domain entities even though their columns are encoded differently.
type Variant struct {
	Name          string
	Events        Mapper[models.Event]
	Registrations Mapper[models.Registration]
	Beats         Mapper[models.Beat]
	BeatOrders    Mapper[models.BeatOrder]
}

// Models lists the row structs in dependency order for migrations.
func (v *Variant) Models() []any {
	return []any{
		v.Events.Model(),
		v.Registrations.Model(),
		v.Beats.Model(),
		v.BeatOrders.Model(),
	}
}

type rowMapper[M any, R any] struct {
	toRow   func(*M) *R
	fromRow func(*R) M
}

func (m rowMapper[M, R]) Model() any {
	return new(R)
}

func (m rowMapper[M, R]) Find(tx *gorm.DB) ([]M, error) {
	var rows []R
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]M, len(rows))
	for i := range rows {
		out[i] = m.fromRow(&rows[i])
	}
	return out, nil
}

func (m rowMapper[M, R]) First(tx *gorm.DB) (M, error) {
	var row R
	if err := tx.First(&row).Error; err != nil {
		var zero M
		return zero, err
	}
	return m.fromRow(&row), nil
}

func (m rowMapper[M, R]) Create(tx *gorm.DB, v *M) error {
	row := m.toRow(v)
	if err := tx.Create(row).Error; err != nil {
		return err
	}
	*v = m.fromRow(row)
	return nil
}
