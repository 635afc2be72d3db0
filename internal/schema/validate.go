package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgRequired     = "Field is required"
	msgInvalidUUID  = "Invalid UUID"
	msgBelowMinimum = "Field is below minimum value"
	msgInvalid      = "Invalid value"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

type eventInput struct {
	ID            string  `mapstructure:"id" validate:"omitempty,uuid"`
	Title         string  `mapstructure:"title" validate:"required"`
	Description   string  `mapstructure:"description" validate:"required"`
	Date          string  `mapstructure:"date" validate:"required"`
	Venue         string  `mapstructure:"venue" validate:"required"`
	ImageURL      *string `mapstructure:"imageUrl"`
	IsPaid        bool    `mapstructure:"isPaid"`
	Price         *int    `mapstructure:"price" validate:"omitempty,gte=0"`
	UpiID         *string `mapstructure:"upiId"`
	AccountNumber *string `mapstructure:"accountNumber"`
	IFSC          *string `mapstructure:"ifsc"`
	QRURL         *string `mapstructure:"qrUrl"`
}

type registrationInput struct {
	ID           string  `mapstructure:"id" validate:"omitempty,uuid"`
	EventID      string  `mapstructure:"eventId" validate:"required"`
	Name         string  `mapstructure:"name" validate:"required"`
	Email        string  `mapstructure:"email" validate:"required"`
	Phone        string  `mapstructure:"phone" validate:"required"`
	RegNumber    string  `mapstructure:"regNumber" validate:"required"`
	UTR          *string `mapstructure:"utr"`
	PaymentSSURL *string `mapstructure:"paymentSsUrl"`
}

type beatInput struct {
	ID           string `mapstructure:"id" validate:"omitempty,uuid"`
	Title        string `mapstructure:"title" validate:"required"`
	Artist       string `mapstructure:"artist" validate:"required"`
	Price        *int   `mapstructure:"price" validate:"required,gte=0"`
	PreviewURL   string `mapstructure:"previewUrl" validate:"required"`
	ThumbnailURL string `mapstructure:"thumbnailUrl" validate:"required"`
}

type beatOrderInput struct {
	ID         string `mapstructure:"id" validate:"omitempty,uuid"`
	BeatID     string `mapstructure:"beatId" validate:"required"`
	BuyerName  string `mapstructure:"buyerName" validate:"required"`
	BuyerEmail string `mapstructure:"buyerEmail" validate:"required"`
	BuyerPhone string `mapstructure:"buyerPhone" validate:"required"`
}

// ValidateInsert checks raw against the accepted input shape of kind and returns
// the matching domain entity (models.Event, models.Registration, models.Beat or
// models.BeatOrder) with an id assigned. The error is a *ValidationError unless
// kind itself is unknown.
func ValidateInsert(kind Kind, raw map[string]any) (any, error) {
	switch kind {
	case KindEvent:
		return DecodeEvent(raw)
	case KindRegistration:
		return DecodeRegistration(raw)
	case KindBeat:
		return DecodeBeat(raw)
	case KindBeatOrder:
		return DecodeBeatOrder(raw)
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func DecodeEvent(raw map[string]any) (models.Event, error) {
	var in eventInput
	if err := check(KindEvent, raw, &in); err != nil {
		return models.Event{}, err
	}
	return models.Event{
		ID:            idOrNew(in.ID),
		Title:         in.Title,
		Description:   in.Description,
		Date:          in.Date,
		Venue:         in.Venue,
		ImageURL:      in.ImageURL,
		IsPaid:        in.IsPaid,
		Price:         in.Price,
		UpiID:         in.UpiID,
		AccountNumber: in.AccountNumber,
		IFSC:          in.IFSC,
		QRURL:         in.QRURL,
	}, nil
}

func DecodeRegistration(raw map[string]any) (models.Registration, error) {
	var in registrationInput
	if err := check(KindRegistration, raw, &in); err != nil {
		return models.Registration{}, err
	}
	return models.Registration{
		ID:           idOrNew(in.ID),
		EventID:      in.EventID,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		RegNumber:    in.RegNumber,
		UTR:          in.UTR,
		PaymentSSURL: in.PaymentSSURL,
	}, nil
}

func DecodeBeat(raw map[string]any) (models.Beat, error) {
	var in beatInput
	if err := check(KindBeat, raw, &in); err != nil {
		return models.Beat{}, err
	}
	return models.Beat{
		ID:           idOrNew(in.ID),
		Title:        in.Title,
		Artist:       in.Artist,
		Price:        *in.Price,
		PreviewURL:   in.PreviewURL,
		ThumbnailURL: in.ThumbnailURL,
	}, nil
}

// DecodeBeatOrder ignores any status or paymentSsUrl in raw; both are fixed by
// the repository at insert.
func DecodeBeatOrder(raw map[string]any) (models.BeatOrder, error) {
	var in beatOrderInput
	if err := check(KindBeatOrder, raw, &in); err != nil {
		return models.BeatOrder{}, err
	}
	return models.BeatOrder{
		ID:         idOrNew(in.ID),
		BeatID:     in.BeatID,
		BuyerName:  in.BuyerName,
		BuyerEmail: in.BuyerEmail,
		BuyerPhone: in.BuyerPhone,
		Status:     models.StatusPending,
	}, nil
}

func check(kind Kind, raw map[string]any, in any) error {
	fieldErrs := decodeFields(raw, in)
	if len(fieldErrs) == 0 {
		if err := validate.Struct(in); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			for _, fe := range verrs {
				fieldErrs = append(fieldErrs, FieldError{Field: fe.Field(), Message: tagMessage(fe.Tag())})
			}
		}
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Entity: kind, Fields: fieldErrs}
	}
	return nil
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return msgRequired
	case "uuid":
		return msgInvalidUUID
	case "gte", "gt":
		return msgBelowMinimum
	default:
		return msgInvalid
	}
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
