package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/convene-events/server/internal/api/respond"
)

// Pinger reports backend liveness; the postgres pool satisfies it. The
// in-memory backend has nothing to probe, so a nil Pinger means always ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func Readyz(pinger Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				respond.Error(w, r, http.StatusServiceUnavailable, "storage not ready", err)
				return
			}
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
