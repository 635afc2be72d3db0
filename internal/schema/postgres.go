package schema

import (
	"time"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
)

// Postgres is the networked variant. Booleans are native and created_at is
// assigned by the server through a column default.
var Postgres = &Variant{
	Name: "postgres",
	Events: rowMapper[models.Event, pgEvent]{
		toRow: func(e *models.Event) *pgEvent {
			return &pgEvent{
				ID:            e.ID,
				Title:         e.Title,
				Description:   e.Description,
				Date:          e.Date,
				Venue:         e.Venue,
				ImageURL:      e.ImageURL,
				IsPaid:        e.IsPaid,
				Price:         e.Price,
				UpiID:         e.UpiID,
				AccountNumber: e.AccountNumber,
				IFSC:          e.IFSC,
				QRURL:         e.QRURL,
			}
		},
		fromRow: func(r *pgEvent) models.Event {
			return models.Event{
				ID:            r.ID,
				Title:         r.Title,
				Description:   r.Description,
				Date:          r.Date,
				Venue:         r.Venue,
				ImageURL:      r.ImageURL,
				IsPaid:        r.IsPaid,
				Price:         r.Price,
				UpiID:         r.UpiID,
				AccountNumber: r.AccountNumber,
				IFSC:          r.IFSC,
				QRURL:         r.QRURL,
			}
		},
	},
	Registrations: rowMapper[models.Registration, pgRegistration]{
		toRow: func(reg *models.Registration) *pgRegistration {
			return &pgRegistration{
				ID:           reg.ID,
				EventID:      reg.EventID,
				Name:         reg.Name,
				Email:        reg.Email,
				Phone:        reg.Phone,
				RegNumber:    reg.RegNumber,
				UTR:          reg.UTR,
				PaymentSSURL: reg.PaymentSSURL,
			}
		},
		fromRow: func(r *pgRegistration) models.Registration {
			return models.Registration{
				ID:           r.ID,
				EventID:      r.EventID,
				Name:         r.Name,
				Email:        r.Email,
				Phone:        r.Phone,
				RegNumber:    r.RegNumber,
				UTR:          r.UTR,
				PaymentSSURL: r.PaymentSSURL,
				CreatedAt:    r.CreatedAt.UTC(),
			}
		},
	},
	Beats: rowMapper[models.Beat, pgBeat]{
		toRow: func(b *models.Beat) *pgBeat {
			return &pgBeat{
				ID:           b.ID,
				Title:        b.Title,
				Artist:       b.Artist,
				Price:        b.Price,
				PreviewURL:   b.PreviewURL,
				ThumbnailURL: b.ThumbnailURL,
			}
		},
		fromRow: func(r *pgBeat) models.Beat {
			return models.Beat{
				ID:           r.ID,
				Title:        r.Title,
				Artist:       r.Artist,
				Price:        r.Price,
				PreviewURL:   r.PreviewURL,
				ThumbnailURL: r.ThumbnailURL,
			}
		},
	},
	BeatOrders: rowMapper[models.BeatOrder, pgBeatOrder]{
		toRow: func(o *models.BeatOrder) *pgBeatOrder {
			return &pgBeatOrder{
				ID:           o.ID,
				BeatID:       o.BeatID,
				BuyerName:    o.BuyerName,
				BuyerEmail:   o.BuyerEmail,
				BuyerPhone:   o.BuyerPhone,
				PaymentSSURL: o.PaymentSSURL,
				Status:       string(o.Status),
			}
		},
		fromRow: func(r *pgBeatOrder) models.BeatOrder {
			return models.BeatOrder{
				ID:           r.ID,
				BeatID:       r.BeatID,
				BuyerName:    r.BuyerName,
				BuyerEmail:   r.BuyerEmail,
				BuyerPhone:   r.BuyerPhone,
				PaymentSSURL: r.PaymentSSURL,
				Status:       models.BeatOrderStatus(r.Status),
				CreatedAt:    r.CreatedAt.UTC(),
			}
		},
	},
}

type pgEvent struct {
	ID            string  `gorm:"type:text;primaryKey;default:gen_random_uuid()::text"`
	Title         string  `gorm:"type:text;not null"`
	Description   string  `gorm:"type:text;not null"`
	Date          string  `gorm:"type:text;not null"`
	Venue         string  `gorm:"type:text;not null"`
	ImageURL      *string `gorm:"column:image_url;type:text"`
	IsPaid        bool    `gorm:"column:is_paid;type:boolean;not null;default:false"`
	Price         *int    `gorm:"type:integer"`
	UpiID         *string `gorm:"column:upi_id;type:text"`
	AccountNumber *string `gorm:"column:account_number;type:text"`
	IFSC          *string `gorm:"column:ifsc;type:text"`
	QRURL         *string `gorm:"column:qr_url;type:text"`
}

func (pgEvent) TableName() string { return "events" }

type pgRegistration struct {
	ID           string    `gorm:"type:text;primaryKey;default:gen_random_uuid()::text"`
	EventID      string    `gorm:"column:event_id;type:text;not null;index"`
	Event        *pgEvent  `gorm:"foreignKey:EventID;references:ID"`
	Name         string    `gorm:"type:text;not null"`
	Email        string    `gorm:"type:text;not null"`
	Phone        string    `gorm:"type:text;not null"`
	RegNumber    string    `gorm:"column:reg_number;type:text;not null"`
	UTR          *string   `gorm:"column:utr;type:text"`
	PaymentSSURL *string   `gorm:"column:payment_ss_url;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now();autoCreateTime:false"`
}

func (pgRegistration) TableName() string { return "registrations" }

type pgBeat struct {
	ID           string `gorm:"type:text;primaryKey;default:gen_random_uuid()::text"`
	Title        string `gorm:"type:text;not null"`
	Artist       string `gorm:"type:text;not null"`
	Price        int    `gorm:"type:integer;not null"`
	PreviewURL   string `gorm:"column:preview_url;type:text;not null"`
	ThumbnailURL string `gorm:"column:thumbnail_url;type:text;not null"`
}

func (pgBeat) TableName() string { return "beats" }

type pgBeatOrder struct {
	ID           string    `gorm:"type:text;primaryKey;default:gen_random_uuid()::text"`
	BeatID       string    `gorm:"column:beat_id;type:text;not null;index"`
	Beat         *pgBeat   `gorm:"foreignKey:BeatID;references:ID"`
	BuyerName    string    `gorm:"column:buyer_name;type:text;not null"`
	BuyerEmail   string    `gorm:"column:buyer_email;type:text;not null"`
	BuyerPhone   string    `gorm:"column:buyer_phone;type:text;not null"`
	PaymentSSURL *string   `gorm:"column:payment_ss_url;type:text"`
	Status       string    `gorm:"type:text;not null;default:'pending'"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now();autoCreateTime:false"`
}

func (pgBeatOrder) TableName() string { return "beat_orders" }
