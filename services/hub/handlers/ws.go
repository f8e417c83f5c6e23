package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
	"github.com/condosense/CondoSenseHub/services/hub/observability"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AlertHub fans regulation updates out to connected websocket clients
// so residents see the change alert without polling.
//
// Thread Safety: safe for concurrent use.
type AlertHub struct {
	mu          sync.Mutex
	subscribers map[chan datatypes.RegulationUpdate]struct{}
}

// NewAlertHub creates an empty hub.
func NewAlertHub() *AlertHub {
	return &AlertHub{subscribers: make(map[chan datatypes.RegulationUpdate]struct{})}
}

// Broadcast delivers the update to every connected subscriber.
// Slow subscribers are skipped rather than blocking the upload flow.
func (h *AlertHub) Broadcast(update datatypes.RegulationUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- update:
		default:
			slog.Warn("Dropping update broadcast for slow websocket subscriber", "version", update.Version)
		}
	}
}

func (h *AlertHub) subscribe() chan datatypes.RegulationUpdate {
	ch := make(chan datatypes.RegulationUpdate, 4)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	observability.AlertSubscribers.Inc()
	return ch
}

func (h *AlertHub) unsubscribe(ch chan datatypes.RegulationUpdate) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
	observability.AlertSubscribers.Dec()
}

// HandleUpdatesWebSocket upgrades the connection and streams update
// events until the client disconnects.
func HandleUpdatesWebSocket(hub *AlertHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()
		slog.Info("Update alert websocket client connected")

		ch := hub.subscribe()
		defer hub.unsubscribe(ch)

		// Reader goroutine: we never expect client messages, but
		// reading is how we notice the peer going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				slog.Info("Update alert websocket client disconnected")
				return
			case update := <-ch:
				if err := ws.WriteJSON(update); err != nil {
					slog.Warn("Failed to write update to websocket", "error", err)
					return
				}
			}
		}
	}
}
