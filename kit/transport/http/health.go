package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
)

// HealthHandler reports that the named service is able to serve requests.
func HealthHandler(name string) http.Handler {
	body, _ := json.Marshal(map[string]string{
		"name":   name,
		"status": "pass",
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}

// ReadyHandler reports when the handler was built and how long ago that
// was, both read from c.
func ReadyHandler(c clock.Clock) http.Handler {
	started := c.Now()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(struct {
			Status  string    `json:"status"`
			Started time.Time `json:"started"`
			Up      string    `json:"up"`
		}{
			Status:  "ready",
			Started: started.UTC(),
			Up:      c.Since(started).Round(time.Millisecond).String(),
		})
	})
}
