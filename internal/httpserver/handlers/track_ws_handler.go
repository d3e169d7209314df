package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fleettrack/internal/models"
	"fleettrack/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TrackHandler serves the live tracking WebSocket. Each connection gets its
// own selection controller; the client switches vehicles by sending select
// messages, and only the freshest selection's result is ever pushed.
type TrackHandler struct {
	fetcher service.RouteFetcher
	window  time.Duration
	logger  *zap.Logger
}

// NewTrackHandler returns handler.
func NewTrackHandler(fetcher service.RouteFetcher, window time.Duration, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{
		fetcher: fetcher,
		window:  window,
		logger:  logger,
	}
}

// selectMessage is the client's selection change. A null vehicle_id selects
// the all-vehicle live view.
type selectMessage struct {
	VehicleID *string `json:"vehicle_id"`
}

type trackFrame struct {
	Type      string                `json:"type"`
	Token     uint64                `json:"token"`
	VehicleID *string               `json:"vehicle_id,omitempty"`
	Route     *models.Route         `json:"route,omitempty"`
	Positions []models.LocationPing `json:"positions,omitempty"`
	Message   string                `json:"message,omitempty"`
}

// ServeHTTP handles GET /ws/track.
func (h *TrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	controller := service.NewSelectionController(h.fetcher, h.window, func(update service.SelectionUpdate) {
		frame := trackFrame{Token: update.Token, VehicleID: update.VehicleID}
		switch {
		case update.Err != nil:
			frame.Type = "error"
			frame.Message = update.Err.Error()
		case update.Route != nil:
			frame.Type = "route"
			frame.Route = update.Route
		default:
			frame.Type = "fleet"
			if update.Fleet != nil {
				frame.Positions = update.Fleet
			} else {
				frame.Positions = []models.LocationPing{}
			}
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(frame); err != nil {
			h.logger.Warn("ws write failed", zap.Error(err))
		}
	})

	for {
		var msg selectMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("ws read failed", zap.Error(err))
			}
			return
		}
		controller.Select(r.Context(), msg.VehicleID)
	}
}
