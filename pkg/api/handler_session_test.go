package api

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mgr := session.New(&config.Config{}, eventlog.NewMemoryStore(), narrator.New(nil, 0), nil, rand.New(rand.NewPCG(1, 2)), nil)
	return NewServer(&config.Config{}, mgr, eventlog.NewMemoryStore(), nil, nil)
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"worldType": "logic",
		"title": "test problem",
		"topic": "p implies q",
		"agents": ["researcher-1"],
		"logic": {"maxRounds": 5}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/isolation/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var created envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)

	summary, ok := created.Data.(map[string]interface{})
	require.True(t, ok)
	sessionID, _ := summary["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "pending", summary["status"])

	getReq := httptest.NewRequest(http.MethodGet, "/api/isolation/sessions/"+sessionID, nil)
	getRec := httptest.NewRecorder()
	s.echo.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)

	var detail envelope
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &detail))
	assert.True(t, detail.Success)
}

func TestCreateSessionMissingWorldType(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/isolation/sessions", strings.NewReader(`{"agents":["a1"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycleTransitions(t *testing.T) {
	s := newTestServer(t)

	body := `{"worldType":"logic","topic":"x","agents":["r1"],"logic":{"maxRounds":3}}`
	req := httptest.NewRequest(http.MethodPost, "/api/isolation/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var created envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	summary := created.Data.(map[string]interface{})
	sessionID := summary["sessionId"].(string)

	start := httptest.NewRequest(http.MethodPost, "/api/isolation/sessions/"+sessionID+"/start", nil)
	startRec := httptest.NewRecorder()
	s.echo.ServeHTTP(startRec, start)
	assert.Equal(t, http.StatusOK, startRec.Code)

	// Starting again from running is an invalid transition.
	start2 := httptest.NewRequest(http.MethodPost, "/api/isolation/sessions/"+sessionID+"/start", nil)
	start2Rec := httptest.NewRecorder()
	s.echo.ServeHTTP(start2Rec, start2)
	assert.Equal(t, http.StatusBadRequest, start2Rec.Code)

	end := httptest.NewRequest(http.MethodPost, "/api/isolation/sessions/"+sessionID+"/end", strings.NewReader(`{"reason":"done"}`))
	end.Header.Set("Content-Type", "application/json")
	endRec := httptest.NewRecorder()
	s.echo.ServeHTTP(endRec, end)
	assert.Equal(t, http.StatusOK, endRec.Code)
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/isolation/sessions/does-not-exist", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
