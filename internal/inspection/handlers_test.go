package inspection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inspections/internal/server"
	"inspections/internal/store/storetest"
	"inspections/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	mem := storetest.New()
	logger := testLogger()
	svc := NewService(logger, mem, mem, &fakePresigner{})
	srv := server.New("inspection-api", &types.Config{}, logger, NewHandlers(logger, svc))
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := make(map[string]any)
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHandlers_CreateGetUpdateFlow(t *testing.T) {
	h := newTestHandler(t)

	rec, body := do(t, h, http.MethodPost, "/api/inspections", `{"propertyAddress":"12 Elm Street","inspectorName":"Sam","inspectorEmail":"sam@example.com","clientName":"Dana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Inspection created successfully", body["message"])

	created := body["inspection"].(map[string]any)
	id := created["inspectionId"].(string)
	assert.Equal(t, "CREATED", created["status"])
	assert.Equal(t, "Dana", created["clientName"])
	assert.Equal(t, []any{}, created["images"])
	assert.Nil(t, created["checklist"].(map[string]any)["roof"])

	rec, body = do(t, h, http.MethodGet, "/api/inspections/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body["inspection"].(map[string]any)["inspectionId"])

	rec, body = do(t, h, http.MethodPut, "/api/inspections/"+id, `{"checklist":{"roof":"Good"},"images":[{"imageId":"img_1","storageKey":"inspections/`+id+`/img_1.jpg","fileName":"roof.jpg"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := body["inspection"].(map[string]any)
	assert.Equal(t, "Good", updated["checklist"].(map[string]any)["roof"])
	images := updated["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, map[string]any{"imageId": "img_1", "storageKey": "inspections/" + id + "/img_1.jpg", "fileName": "roof.jpg"}, images[0])

	rec, body = do(t, h, http.MethodGet, "/api/inspections?status=created", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])

	rec, body = do(t, h, http.MethodGet, "/api/inspections?status=REPORT_GENERATED", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []any{}, body["inspections"])
}

func TestHandlers_CreateMissingFields(t *testing.T) {
	h := newTestHandler(t)

	rec, body := do(t, h, http.MethodPost, "/api/inspections", `{"propertyAddress":"12 Elm Street"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "Missing required fields")

	rec, _ = do(t, h, http.MethodPost, "/api/inspections", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_NotFound(t *testing.T) {
	h := newTestHandler(t)

	rec, body := do(t, h, http.MethodGet, "/api/inspections/insp_nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Inspection not found", body["error"])

	rec, _ = do(t, h, http.MethodPut, "/api/inspections/insp_nope", `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = do(t, h, http.MethodPut, "/api/inspections/insp_nope", `{"status":"ARCHIVED"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Inspection not found", body["error"])

	rec, body = do(t, h, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/api/unknown", body["path"])
}

func TestHandlers_UpdateWithEmptyBody(t *testing.T) {
	h := newTestHandler(t)

	_, body := do(t, h, http.MethodPost, "/api/inspections", `{"propertyAddress":"1 Oak Ave","inspectorName":"Sam","inspectorEmail":"sam@example.com"}`)
	id := body["inspection"].(map[string]any)["inspectionId"].(string)

	rec, _ := do(t, h, http.MethodPut, "/api/inspections/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlers_PresignedURL(t *testing.T) {
	h := newTestHandler(t)

	rec, body := do(t, h, http.MethodPost, "/api/presigned-url", `{"inspectionId":"insp_1","fileName":"kitchen.jpg"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 300, body["expiresIn"])
	assert.Regexp(t, `^inspections/insp_1/img_[0-9A-Za-z]+\.jpg$`, body["storageKey"])
	assert.NotEmpty(t, body["url"])
	assert.NotEmpty(t, body["imageId"])

	rec, body = do(t, h, http.MethodPost, "/api/presigned-url", `{"fileName":"kitchen.jpg"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "inspectionId")
}
