package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/realtime"
)

// RealtimeController upgrades subscribers to websocket and pipes their
// room's events until either side goes away. Delivery stays best-effort:
// a slow client loses messages at the hub, a dead one is detached on the
// first failed write.
type RealtimeController struct {
	hub      realtime.BroadcasterInterface
	logger   providers.Logger
	upgrader websocket.Upgrader
}

func NewRealtimeController(hub realtime.BroadcasterInterface, logger providers.Logger) *RealtimeController {
	return &RealtimeController{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

func (rc *RealtimeController) Subscribe(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	conn, err := rc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rc.logger.Warnf(providers.TypeRealtime, "Websocket upgrade failed: %s", err)
		return
	}

	ch := rc.hub.Subscribe(room)
	if ch == nil {
		_ = conn.Close()
		return
	}

	done := make(chan struct{})
	go func() {
		// Reader loop exists only to observe the close handshake.
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		rc.hub.Unsubscribe(room, ch)
		_ = conn.Close()
	}()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				rc.logger.Debugf(providers.TypeRealtime, "Write to room %s subscriber failed: %s", room, err)
				return
			}
		case <-done:
			return
		}
	}
}
