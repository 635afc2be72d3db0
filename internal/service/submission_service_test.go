package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GrooVITy-Community/groovity-backend/internal/models"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/GrooVITy-Community/groovity-backend/pkg/objectstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventID = "6f1c2b1e-4a57-4f0e-9d61-2f5b8a0c9e11"

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func registrationInput() map[string]any {
	return map[string]any{
		"eventId":   eventID,
		"name":      "A",
		"email":     "a@b.com",
		"phone":     "123",
		"regNumber": "R1",
	}
}

func storingRepo(stored *[]models.Registration) *mockRepo {
	return &mockRepo{
		createRegistrationFn: func(_ context.Context, reg *models.Registration) error {
			*stored = append(*stored, *reg)
			return nil
		},
	}
}

func TestSubmitRegistration_NoAttachment(t *testing.T) {
	var stored []models.Registration
	uploader := &mockUploader{}
	svc := NewSubmissionService(storingRepo(&stored), uploader, nil, nil, nopLogger())

	reg, err := svc.SubmitRegistration(context.Background(), registrationInput(), nil)

	require.NoError(t, err)
	assert.Nil(t, reg.PaymentSSURL)
	assert.Nil(t, reg.UTR)
	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, 0, uploader.calls)
	require.Len(t, stored, 1)
	assert.Equal(t, eventID, stored[0].EventID)
}

func TestSubmitRegistration_ResolvesAliases(t *testing.T) {
	var stored []models.Registration
	svc := NewSubmissionService(storingRepo(&stored), nil, nil, nil, nopLogger())

	raw := map[string]any{
		"event":      eventID,
		"full_name":  "Asha",
		"email":      "a@b.com",
		"phone":      "123",
		"reg_number": "R9",
		"utr_id":     "UTR42",
	}
	reg, err := svc.SubmitRegistration(context.Background(), raw, nil)

	require.NoError(t, err)
	assert.Equal(t, eventID, reg.EventID)
	assert.Equal(t, "Asha", reg.Name)
	assert.Equal(t, "R9", reg.RegNumber)
	require.NotNil(t, reg.UTR)
	assert.Equal(t, "UTR42", *reg.UTR)
}

func TestSubmitRegistration_AliasPriority(t *testing.T) {
	raw := map[string]any{
		"event_id": "first",
		"eventId":  "second",
		"event":    "third",
		"name":     "",
		"fullName": "Fallback",
	}
	fields := normalize(raw, registrationAliases)

	assert.Equal(t, "first", fields["eventId"])
	assert.Equal(t, "Fallback", fields["name"])
	_, hasUTR := fields["utr"]
	assert.False(t, hasUTR)
}

func TestSubmitRegistration_IgnoresCallerSuppliedURL(t *testing.T) {
	var stored []models.Registration
	svc := NewSubmissionService(storingRepo(&stored), nil, nil, nil, nopLogger())

	raw := registrationInput()
	raw["paymentSsUrl"] = "https://evil.example.com/x.png"
	reg, err := svc.SubmitRegistration(context.Background(), raw, nil)

	require.NoError(t, err)
	assert.Nil(t, reg.PaymentSSURL)
}

func TestSubmitRegistration_ValidationErrorHasNoSideEffects(t *testing.T) {
	repo := &mockRepo{createRegistrationFn: func(context.Context, *models.Registration) error {
		t.Fatal("repository must not be called")
		return nil
	}}
	uploader := &mockUploader{}
	svc := NewSubmissionService(repo, uploader, nil, nil, nopLogger())

	raw := registrationInput()
	delete(raw, "email")
	_, err := svc.SubmitRegistration(context.Background(), raw, &Attachment{Filename: "p.png", Data: []byte("x")})

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields[0].Field)
	assert.Equal(t, 0, uploader.calls)
}

func TestSubmitRegistration_UploadsBeforeInsert(t *testing.T) {
	var order []string
	repo := &mockRepo{createRegistrationFn: func(_ context.Context, reg *models.Registration) error {
		order = append(order, "insert")
		return nil
	}}
	uploader := &mockUploader{uploadFn: func(_ context.Context, data []byte, filename, contentType, scopeID string) (string, error) {
		order = append(order, "upload")
		assert.Equal(t, eventID, scopeID)
		assert.Equal(t, "proof.png", filename)
		assert.Equal(t, "image/png", contentType)
		return "https://cdn.example.com/events/" + scopeID + "/payments/tok.png", nil
	}}
	notifier := &mockNotifier{}
	svc := NewSubmissionService(repo, uploader, notifier, nil, nopLogger())

	reg, err := svc.SubmitRegistration(context.Background(), registrationInput(), &Attachment{
		Filename: "proof.png", ContentType: "image/png", Data: []byte("png"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"upload", "insert"}, order)
	require.NotNil(t, reg.PaymentSSURL)
	assert.Equal(t, "https://cdn.example.com/events/"+eventID+"/payments/tok.png", *reg.PaymentSSURL)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, RoutingRegistrationCreated, notifier.sent[0].routingKey)
}

func TestSubmitRegistration_UploadFailureWritesNothing(t *testing.T) {
	repo := &mockRepo{createRegistrationFn: func(context.Context, *models.Registration) error {
		t.Fatal("repository must not be called after a failed upload")
		return nil
	}}
	uploader := &mockUploader{uploadFn: func(context.Context, []byte, string, string, string) (string, error) {
		return "", errors.New("s3 unavailable")
	}}
	svc := NewSubmissionService(repo, uploader, nil, nil, nopLogger())

	reg, err := svc.SubmitRegistration(context.Background(), registrationInput(), &Attachment{Filename: "p.png", Data: []byte("x")})

	assert.Nil(t, reg)
	var uerr *UploadError
	require.True(t, errors.As(err, &uerr))
	assert.Contains(t, err.Error(), "s3 unavailable")
}

func TestSubmitRegistration_NoUploaderConfigured(t *testing.T) {
	repo := &mockRepo{}
	svc := NewSubmissionService(repo, nil, nil, nil, nopLogger())

	_, err := svc.SubmitRegistration(context.Background(), registrationInput(), &Attachment{Filename: "p.png", Data: []byte("x")})

	var uerr *UploadError
	require.True(t, errors.As(err, &uerr))
	assert.ErrorIs(t, err, objectstore.ErrNotConfigured)
}

func TestSubmitRegistration_InsertFailureAfterUploadReportsOrphan(t *testing.T) {
	repo := &mockRepo{createRegistrationFn: func(context.Context, *models.Registration) error {
		return repository.ErrReferenceNotFound
	}}
	uploader := &mockUploader{uploadFn: func(context.Context, []byte, string, string, string) (string, error) {
		return "https://cdn.example.com/events/x/payments/tok.png", nil
	}}
	notifier := &mockNotifier{}
	svc := NewSubmissionService(repo, uploader, notifier, nil, nopLogger())

	reg, err := svc.SubmitRegistration(context.Background(), registrationInput(), &Attachment{Filename: "p.png", Data: []byte("x")})

	assert.Nil(t, reg)
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "https://cdn.example.com/events/x/payments/tok.png", perr.OrphanedURL)
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)
	assert.Empty(t, notifier.sent)
}

func TestSubmitRegistration_UnknownEventIsPersistenceError(t *testing.T) {
	repo := &mockRepo{createRegistrationFn: func(context.Context, *models.Registration) error {
		return repository.ErrReferenceNotFound
	}}
	svc := NewSubmissionService(repo, nil, nil, nil, nopLogger())

	raw := registrationInput()
	raw["eventId"] = "missing-id"
	_, err := svc.SubmitRegistration(context.Background(), raw, nil)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Empty(t, perr.OrphanedURL)
}

func TestSubmitRegistration_PublishFailureDoesNotFail(t *testing.T) {
	var stored []models.Registration
	notifier := &mockNotifier{err: errors.New("broker down")}
	svc := NewSubmissionService(storingRepo(&stored), nil, notifier, nil, nopLogger())

	reg, err := svc.SubmitRegistration(context.Background(), registrationInput(), nil)

	require.NoError(t, err)
	assert.NotNil(t, reg)
	assert.Len(t, notifier.sent, 1)
}

func TestSubmitBeatOrder_Pending(t *testing.T) {
	beatID := "0b7e3a2c-8d4f-4c1a-9e5b-7a6d5c4b3a21"
	var stored *models.BeatOrder
	repo := &mockRepo{createBeatOrderFn: func(_ context.Context, o *models.BeatOrder) error {
		stored = o
		return nil
	}}
	notifier := &mockNotifier{}
	svc := NewSubmissionService(repo, nil, notifier, nil, nopLogger())

	order, err := svc.SubmitBeatOrder(context.Background(), beatID, map[string]any{
		"buyerName":    "A",
		"buyerEmail":   "a@b.com",
		"buyerPhone":   "123",
		"status":       "paid",
		"paymentSsUrl": "https://evil.example.com/x.png",
		"beatId":       "ignored",
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.PaymentSSURL)
	assert.Equal(t, beatID, order.BeatID)
	assert.Same(t, stored, order)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, RoutingBeatOrderCreated, notifier.sent[0].routingKey)
}

func TestSubmitBeatOrder_MissingBuyerFields(t *testing.T) {
	svc := NewSubmissionService(&mockRepo{}, nil, nil, nil, nopLogger())

	_, err := svc.SubmitBeatOrder(context.Background(), "0b7e3a2c-8d4f-4c1a-9e5b-7a6d5c4b3a21", map[string]any{"buyer_name": "A"})

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestSubmitBeatOrder_UnknownBeat(t *testing.T) {
	repo := &mockRepo{createBeatOrderFn: func(context.Context, *models.BeatOrder) error {
		return repository.ErrReferenceNotFound
	}}
	svc := NewSubmissionService(repo, nil, nil, nil, nopLogger())

	_, err := svc.SubmitBeatOrder(context.Background(), "0b7e3a2c-8d4f-4c1a-9e5b-7a6d5c4b3a21", map[string]any{
		"buyerName": "A", "buyerEmail": "a@b.com", "buyerPhone": "123",
	})

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)
}
