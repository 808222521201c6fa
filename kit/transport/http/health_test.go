package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	HealthHandler("storefrontd").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"name":"storefrontd","status":"pass"}`, w.Body.String())
}

func TestReadyHandler(t *testing.T) {
	c := clock.NewMock()
	c.Set(time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC))
	h := ReadyHandler(c)

	c.Add(90*time.Second + 250*time.Millisecond)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Status  string    `json:"status"`
		Started time.Time `json:"started"`
		Up      string    `json:"up"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Equal(t, "ready", got.Status)
	require.True(t, got.Started.Equal(time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)))
	require.Equal(t, "1m30.25s", got.Up)
}
