package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	Vehicles        http.HandlerFunc
	Locations       http.HandlerFunc
	CurrentLocation http.HandlerFunc
	Route           http.HandlerFunc
	IngestPings     http.HandlerFunc
	TrackWS         http.HandlerFunc
	Health          http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Vehicles != nil {
		mux.Handle("/vehicles", method(http.MethodGet, routes.Vehicles))
	}
	if routes.Locations != nil {
		mux.Handle("/locations", method(http.MethodGet, routes.Locations))
	}
	if routes.CurrentLocation != nil {
		mux.Handle("/locations/current", method(http.MethodGet, routes.CurrentLocation))
	}
	if routes.Route != nil {
		mux.Handle("/routes", method(http.MethodGet, routes.Route))
	}
	if routes.IngestPings != nil {
		mux.Handle("/internal/ingest/pings", method(http.MethodPost, routes.IngestPings))
	}
	if routes.TrackWS != nil {
		mux.Handle("/ws/track", method(http.MethodGet, routes.TrackWS))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
