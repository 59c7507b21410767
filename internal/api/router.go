package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/convene-events/server/internal/api/handlers"
	"github.com/convene-events/server/internal/api/middleware"
	"github.com/convene-events/server/internal/auth"
	"github.com/convene-events/server/internal/config"
	"github.com/convene-events/server/internal/metrics"
)

// Services carries the constructed handlers and shared dependencies the
// router wires together.
type Services struct {
	Auth   *handlers.AuthHandler
	Events *handlers.EventsHandler
	Tokens *auth.JWTManager
	Pinger handlers.Pinger
}

func NewRouter(cfg config.Config, logger zerolog.Logger, svc Services) http.Handler {
	requireAuth := middleware.RequireAuth(svc.Tokens)
	requireOrganizer := middleware.RequireOrganizer()

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(svc.Pinger))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/v1/auth/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(svc.Auth.Register),
	}))
	mux.Handle("/api/v1/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(svc.Auth.Login),
	}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(svc.Events.List),
		http.MethodPost: requireAuth(requireOrganizer(http.HandlerFunc(svc.Events.Create))),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(svc.Events.Get),
		http.MethodPut:    requireAuth(requireOrganizer(http.HandlerFunc(svc.Events.Update))),
		http.MethodDelete: requireAuth(requireOrganizer(http.HandlerFunc(svc.Events.Delete))),
	}))
	mux.Handle("/api/v1/events/{id}/register", methodMux(map[string]http.Handler{
		http.MethodPost: requireAuth(http.HandlerFunc(svc.Events.Register)),
	}))

	var handler http.Handler = mux
	handler = middleware.Recover()(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
