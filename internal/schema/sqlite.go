package schema

import (
	"time"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
)

// SQLite is the embedded-file variant. Booleans are stored as 0/1 integers and
// timestamps as unix seconds taken from the process clock at insert.
var SQLite = &Variant{
	Name: "sqlite",
	Events: rowMapper[models.Event, sqliteEvent]{
		toRow: func(e *models.Event) *sqliteEvent {
			return &sqliteEvent{
				ID:            e.ID,
				Title:         e.Title,
				Description:   e.Description,
				Date:          e.Date,
				Venue:         e.Venue,
				ImageURL:      e.ImageURL,
				IsPaid:        boolToInt(e.IsPaid),
				Price:         e.Price,
				UpiID:         e.UpiID,
				AccountNumber: e.AccountNumber,
				IFSC:          e.IFSC,
				QRURL:         e.QRURL,
			}
		},
		fromRow: func(r *sqliteEvent) models.Event {
			return models.Event{
				ID:            r.ID,
				Title:         r.Title,
				Description:   r.Description,
				Date:          r.Date,
				Venue:         r.Venue,
				ImageURL:      r.ImageURL,
				IsPaid:        r.IsPaid == 1,
				Price:         r.Price,
				UpiID:         r.UpiID,
				AccountNumber: r.AccountNumber,
				IFSC:          r.IFSC,
				QRURL:         r.QRURL,
			}
		},
	},
	Registrations: rowMapper[models.Registration, sqliteRegistration]{
		toRow: func(reg *models.Registration) *sqliteRegistration {
			return &sqliteRegistration{
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
		fromRow: func(r *sqliteRegistration) models.Registration {
			return models.Registration{
				ID:           r.ID,
				EventID:      r.EventID,
				Name:         r.Name,
				Email:        r.Email,
				Phone:        r.Phone,
				RegNumber:    r.RegNumber,
				UTR:          r.UTR,
				PaymentSSURL: r.PaymentSSURL,
				CreatedAt:    time.Unix(r.CreatedAt, 0).UTC(),
			}
		},
	},
	Beats: rowMapper[models.Beat, sqliteBeat]{
		toRow: func(b *models.Beat) *sqliteBeat {
			return &sqliteBeat{
				ID:           b.ID,
				Title:        b.Title,
				Artist:       b.Artist,
				Price:        b.Price,
				PreviewURL:   b.PreviewURL,
				ThumbnailURL: b.ThumbnailURL,
			}
		},
		fromRow: func(r *sqliteBeat) models.Beat {
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
	BeatOrders: rowMapper[models.BeatOrder, sqliteBeatOrder]{
		toRow: func(o *models.BeatOrder) *sqliteBeatOrder {
			return &sqliteBeatOrder{
				ID:           o.ID,
				BeatID:       o.BeatID,
				BuyerName:    o.BuyerName,
				BuyerEmail:   o.BuyerEmail,
				BuyerPhone:   o.BuyerPhone,
				PaymentSSURL: o.PaymentSSURL,
				Status:       string(o.Status),
			}
		},
		fromRow: func(r *sqliteBeatOrder) models.BeatOrder {
			return models.BeatOrder{
				ID:           r.ID,
				BeatID:       r.BeatID,
				BuyerName:    r.BuyerName,
				BuyerEmail:   r.BuyerEmail,
				BuyerPhone:   r.BuyerPhone,
				PaymentSSURL: r.PaymentSSURL,
				Status:       models.BeatOrderStatus(r.Status),
				CreatedAt:    time.Unix(r.CreatedAt, 0).UTC(),
			}
		},
	},
}

type sqliteEvent struct {
	ID            string  `gorm:"type:text;primaryKey"`
	Title         string  `gorm:"type:text;not null"`
	Description   string  `gorm:"type:text;not null"`
	Date          string  `gorm:"type:text;not null"`
	Venue         string  `gorm:"type:text;not null"`
	ImageURL      *string `gorm:"column:image_url;type:text"`
	IsPaid        int     `gorm:"column:is_paid;type:integer;not null;default:0"`
	Price         *int    `gorm:"type:integer"`
	UpiID         *string `gorm:"column:upi_id;type:text"`
	AccountNumber *string `gorm:"column:account_number;type:text"`
	IFSC          *string `gorm:"column:ifsc;type:text"`
	QRURL         *string `gorm:"column:qr_url;type:text"`
}

func (sqliteEvent) TableName() string { return "events" }

type sqliteRegistration struct {
	ID           string       `gorm:"type:text;primaryKey"`
	EventID      string       `gorm:"column:event_id;type:text;not null;index"`
	Event        *sqliteEvent `gorm:"foreignKey:EventID;references:ID"`
	Name         string       `gorm:"type:text;not null"`
	Email        string       `gorm:"type:text;not null"`
	Phone        string       `gorm:"type:text;not null"`
	RegNumber    string       `gorm:"column:reg_number;type:text;not null"`
	UTR          *string      `gorm:"column:utr;type:text"`
	PaymentSSURL *string      `gorm:"column:payment_ss_url;type:text"`
	CreatedAt    int64        `gorm:"column:created_at;autoCreateTime"`
}

func (sqliteRegistration) TableName() string { return "registrations" }

type sqliteBeat struct {
	ID           string `gorm:"type:text;primaryKey"`
	Title        string `gorm:"type:text;not null"`
	Artist       string `gorm:"type:text;not null"`
	Price        int    `gorm:"type:integer;not null"`
	PreviewURL   string `gorm:"column:preview_url;type:text;not null"`
	ThumbnailURL string `gorm:"column:thumbnail_url;type:text;not null"`
}

func (sqliteBeat) TableName() string { return "beats" }

type sqliteBeatOrder struct {
	ID           string      `gorm:"type:text;primaryKey"`
	BeatID       string      `gorm:"column:beat_id;type:text;not null;index"`
	Beat         *sqliteBeat `gorm:"foreignKey:BeatID;references:ID"`
	BuyerName    string      `gorm:"column:buyer_name;type:text;not null"`
	BuyerEmail   string      `gorm:"column:buyer_email;type:text;not null"`
	BuyerPhone   string      `gorm:"column:buyer_phone;type:text;not null"`
	PaymentSSURL *string     `gorm:"column:payment_ss_url;type:text"`
	Status       string      `gorm:"type:text;not null;default:'pending'"`
	CreatedAt    int64       `gorm:"column:created_at;autoCreateTime"`
}

func (sqliteBeatOrder) TableName() string { return "beat_orders" }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
