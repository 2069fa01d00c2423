package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolhouse/poolhouse/internal/poolsrv/db/memstore"
)

func newTestServer(t *testing.T) (*PoolServer, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	s, err := CreateNewServer(store)
	require.NoError(t, err, "create new server")
	s.MountHandlers()
	return s, store
}

func executeTestRequest(t *testing.T, s *PoolServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotEmpty(t, h.Get("X-Poolhouse-Request-ID"), "No Request Id")
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data interface{}) {
	t.Helper()
	var jsonData []byte
	if s, ok := data.(string); ok && json.Valid([]byte(s)) {
		jsonData = []byte(s)
	} else {
		var err error
		jsonData, err = json.Marshal(data)
		require.NoError(t, err, "Failed to marshal data into JSON")
	}

	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))
	req.Header.Set("Content-Type", "application/json")
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), "decode response: %s", rr.Body.String())
}

// createTestPool drives the real create endpoint and returns the decoded
// pool response.
func createTestPool(t *testing.T, s *PoolServer, body map[string]any) map[string]any {
	t.Helper()
	req, _ := http.NewRequest("POST", "/pools", nil)
	setRequestBodyAndHeader(t, req, body)
	rr := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, rr.Code, "create pool: %s", rr.Body.String())

	var pool map[string]any
	decodeBody(t, rr, &pool)
	return pool
}

func squaresPoolBody() map[string]any {
	return map[string]any{
		"name":             "Big Game Squares",
		"kind":             "squares",
		"commissionerId":   "u-1",
		"commissionerName": "Pat",
	}
}

func pickemPoolBody(startsAt time.Time) map[string]any {
	return map[string]any{
		"name":             "Week 1 Pickem",
		"kind":             "pickem",
		"commissionerId":   "u-1",
		"commissionerName": "Pat",
		"matchups": []map[string]any{
			{"matchupId": "game-1", "label": "Home vs Away", "startsAt": startsAt.Format(time.RFC3339)},
		},
	}
}
