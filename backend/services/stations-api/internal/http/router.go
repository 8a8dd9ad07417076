package httpserver

import (
	"net/http"

	"evcharging/backend/services/stations-api/internal/http/handlers"
	"evcharging/backend/services/stations-api/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers     *handlers.AuthHandlers
	StationsHandlers *handlers.StationsHandlers
	HealthHandler    http.HandlerFunc
	EventsHandler    http.Handler
	MetricsHandler   http.Handler
}

// NewRouter wires HTTP routes. authMiddleware guards every station write.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", deps.HealthHandler)
	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	mux.HandleFunc("POST /api/auth/register", deps.AuthHandlers.Register)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandlers.Login)

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	stations := deps.StationsHandlers
	mux.HandleFunc("GET /api/stations", stations.List)
	mux.HandleFunc("GET /api/stations/{id}", stations.Get)
	mux.Handle("POST /api/stations", authenticated(stations.Create))
	mux.Handle("PUT /api/stations/{id}", authenticated(stations.Update))
	mux.Handle("DELETE /api/stations/{id}", authenticated(stations.Delete))

	if deps.EventsHandler != nil {
		mux.Handle("GET /api/stations/events", deps.EventsHandler)
	}

	return mux
}
