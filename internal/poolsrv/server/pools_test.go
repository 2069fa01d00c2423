package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePoolEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("POST", "/pools", nil)
	setRequestBodyAndHeader(t, req, squaresPoolBody())
	rr := executeTestRequest(t, s, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	checkHeader(t, rr.Header())

	var pool map[string]any
	decodeBody(t, rr, &pool)
	assert.NotEmpty(t, pool["poolId"])
	assert.NotEmpty(t, pool["joinCode"])
	assert.Equal(t, "open", pool["status"])
	assert.Equal(t, "/pools/"+pool["poolId"].(string), rr.Header().Get("Location"))
}

func TestCreatePoolRejectsBadRequest(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		name string
		body any
	}{
		{"not json", "this is not json at all"},
		{"unknown kind", map[string]any{"name": "x", "kind": "raffle", "commissionerId": "u-1", "commissionerName": "Pat"}},
		{"missing commissioner", map[string]any{"name": "x", "kind": "squares"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest("POST", "/pools", nil)
			setRequestBodyAndHeader(t, req, tc.body)
			rr := executeTestRequest(t, s, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestGetPoolEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	pool := createTestPool(t, s, squaresPoolBody())
	poolID := pool["poolId"].(string)

	req, _ := http.NewRequest("GET", "/pools/"+poolID, nil)
	rr := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	decodeBody(t, rr, &got)
	assert.Equal(t, poolID, got["poolId"])

	req, _ = http.NewRequest("GET", "/pools/no-such-pool", nil)
	rr = executeTestRequest(t, s, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetPoolByJoinCodeEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	pool := createTestPool(t, s, squaresPoolBody())

	req, _ := http.NewRequest("GET", "/pools/join/"+pool["joinCode"].(string), nil)
	rr := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	decodeBody(t, rr, &got)
	assert.Equal(t, pool["poolId"], got["poolId"])
}

func TestSetPoolStatusEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	pool := createTestPool(t, s, squaresPoolBody())
	poolID := pool["poolId"].(string)

	req, _ := http.NewRequest("POST", "/pools/"+poolID+"/status", nil)
	setRequestBodyAndHeader(t, req, map[string]string{"status": "locked"})
	rr := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	req, _ = http.NewRequest("GET", "/pools/"+poolID, nil)
	rr = executeTestRequest(t, s, req)
	var got map[string]any
	decodeBody(t, rr, &got)
	assert.Equal(t, "locked", got["status"])

	// unknown status value
	req, _ = http.NewRequest("POST", "/pools/"+poolID+"/status", nil)
	setRequestBodyAndHeader(t, req, map[string]string{"status": "archived"})
	rr = executeTestRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListResourcesEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	pool := createTestPool(t, s, squaresPoolBody())

	req, _ := http.NewRequest("GET", "/pools/"+pool["poolId"].(string)+"/resources", nil)
	rr := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resources []map[string]any
	decodeBody(t, rr, &resources)
	assert.Len(t, resources, 100)
}

func TestVersionEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req, _ := http.NewRequest("GET", "/version", nil)
	rr := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]string
	decodeBody(t, rr, &got)
	assert.Contains(t, got["serverVersion"], "Poolhouse")
	assert.Equal(t, "v1", got["apiVersion"])
}
