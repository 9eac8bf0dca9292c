package server

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// healthResponse is the /healthz body.
type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// newHealthHandler returns the /healthz handler. When db is non-nil it is
// pinged; a failed ping reports degraded with status 503.
func newHealthHandler(db *sql.DB, version, environment string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				log.Printf("health: db ping failed: %v", err)
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:      status,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Version:     version,
			Environment: environment,
		})
	})
}
