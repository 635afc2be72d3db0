package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GrooVITy-Community/groovity-backend/internal/metrics"
	"github.com/GrooVITy-Community/groovity-backend/internal/repository"
	"github.com/GrooVITy-Community/groovity-backend/internal/service"
	"github.com/GrooVITy-Community/groovity-backend/pkg/database"
	"github.com/GrooVITy-Community/groovity-backend/pkg/objectstore"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "test-admin-secret"

type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, filename, _, scopeID string) (string, error) {
	key := objectstore.BuildKey(scopeID, filename, uuid.NewString())
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *fakeUploader) {
	t.Helper()
	log := zerolog.Nop()
	ctx := context.Background()

	h, err := database.Open(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "api.sqlite")}, &log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	require.NoError(t, h.Migrate(ctx))

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	repo := repository.NewRepository(h.DB, h.Variant, &log)
	uploader := &fakeUploader{}
	e := New(Options{
		AdminSecret:    adminSecret,
		CORSOrigins:    []string{"http://localhost:5173"},
		MaxUploadBytes: 1 << 20,
		Backend:        string(h.Backend),
	}, Deps{
		Catalog:     service.NewCatalogService(repo, &log),
		Submissions: service.NewSubmissionService(repo, uploader, nil, m, &log),
		Metrics:     m,
		Log:         &log,
	})
	return e, uploader
}

func do(e *echo.Echo, method, target, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if admin {
		req.Header.Set("x-admin-token", adminSecret)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func createEvent(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/admin/events",
		`{"title":"Workshop","description":"Paid","date":"2025-04-01","venue":"Studio","isPaid":true,"price":500,"upiId":"x@y"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ev map[string]any
	decode(t, rec, &ev)
	return ev["id"].(string)
}

func registrationCount(t *testing.T, e *echo.Echo, eventID string) float64 {
	t.Helper()
	rec := do(e, http.MethodGet, "/api/events", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []map[string]any
	decode(t, rec, &events)
	for _, ev := range events {
		if ev["id"] == eventID {
			return ev["registrationCount"].(float64)
		}
	}
	t.Fatalf("event %s not listed", eventID)
	return 0
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"sqlite"`)
}

func TestEvents_PaidRoundTrip(t *testing.T) {
	e, _ := newTestServer(t)
	id := createEvent(t, e)

	rec := do(e, http.MethodGet, "/api/events", "", false)
	var events []map[string]any
	decode(t, rec, &events)

	require.Len(t, events, 1)
	assert.Equal(t, id, events[0]["id"])
	assert.Equal(t, true, events[0]["isPaid"])
	assert.Equal(t, float64(500), events[0]["price"])
	assert.Equal(t, "x@y", events[0]["upi_id"])
	assert.Equal(t, float64(0), events[0]["registrationCount"])
}

func TestRegistration_JSONWithoutAttachment(t *testing.T) {
	e, _ := newTestServer(t)
	eventID := createEvent(t, e)

	rec := do(e, http.MethodPost, "/api/registrations",
		`{"eventId":"`+eventID+`","name":"A","email":"a@b.com","phone":"123","regNumber":"R1"}`, false)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg map[string]any
	decode(t, rec, &reg)
	assert.Nil(t, reg["paymentSsUrl"])
	assert.Nil(t, reg["utr"])
	assert.NotEmpty(t, reg["createdAt"])
	assert.Equal(t, float64(1), registrationCount(t, e, eventID))
}

func TestRegistration_UnknownEvent(t *testing.T) {
	e, _ := newTestServer(t)
	eventID := createEvent(t, e)

	rec := do(e, http.MethodPost, "/api/registrations",
		`{"eventId":"missing-id","name":"A","email":"a@b.com","phone":"123","regNumber":"R1"}`, false)

	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Equal(t, float64(0), registrationCount(t, e, eventID))

	rec = do(e, http.MethodGet, "/api/admin/registrations", "", true)
	var regs []any
	decode(t, rec, &regs)
	assert.Empty(t, regs)
}

func TestRegistration_ValidationDetail(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/registrations", `{"eventId":"E1","name":42}`, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	decode(t, rec, &resp)
	assert.True(t, strings.HasPrefix(resp.Message, "Validation error"))
	assert.NotEmpty(t, resp.Errors)
}

func TestRegistration_MultipartWithScreenshot(t *testing.T) {
	e, uploader := newTestServer(t)
	eventID := createEvent(t, e)

	send := func() map[string]any {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range map[string]string{
			"event_id": eventID, "full_name": "A", "email": "a@b.com", "phone": "123", "reg_number": "R1", "utr_id": "UTR1",
		} {
			require.NoError(t, w.WriteField(k, v))
		}
		part, err := w.CreateFormFile("payment_ss", "proof.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/registrations", &buf)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var reg map[string]any
		decode(t, rec, &reg)
		return reg
	}

	first, second := send(), send()

	prefix := "https://cdn.example.com/events/" + eventID + "/payments/"
	assert.True(t, strings.HasPrefix(first["paymentSsUrl"].(string), prefix))
	assert.True(t, strings.HasSuffix(first["paymentSsUrl"].(string), ".png"))
	assert.NotEqual(t, first["paymentSsUrl"], second["paymentSsUrl"])
	assert.Equal(t, "UTR1", first["utr"])
	assert.Len(t, uploader.keys, 2)
	assert.Equal(t, float64(2), registrationCount(t, e, eventID))
}

func TestBeats_PurchaseFlow(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/admin/beats",
		`{"title":"Night Drive","artist":"DJ K","price":499,"previewUrl":"https://cdn/p.mp3","thumbnailUrl":"https://cdn/t.jpg"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var beat map[string]any
	decode(t, rec, &beat)
	beatID := beat["id"].(string)

	rec = do(e, http.MethodGet, "/api/beats", "", false)
	assert.Contains(t, rec.Body.String(), `"preview_url":"https://cdn/p.mp3"`)

	rec = do(e, http.MethodGet, "/api/beats/"+beatID, "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/beats/"+beatID+"/purchase",
		`{"buyerName":"A","buyerEmail":"a@b.com","buyerPhone":"123","status":"paid"}`, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order map[string]any
	decode(t, rec, &order)
	assert.Equal(t, "pending", order["status"])
	assert.Nil(t, order["paymentSsUrl"])
	assert.Equal(t, beatID, order["beatId"])

	rec = do(e, http.MethodPost, "/api/beats/"+uuid.NewString()+"/purchase",
		`{"buyerName":"A","buyerEmail":"a@b.com","buyerPhone":"123"}`, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/beats/"+uuid.NewString(), "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/admin/registrations", "", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestMetricsEndpoint(t *testing.T) {
	e, _ := newTestServer(t)
	do(e, http.MethodGet, "/api/events", "", false)

	rec := do(e, http.MethodGet, "/metrics", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/events",status_code="200"} 1`)
}
