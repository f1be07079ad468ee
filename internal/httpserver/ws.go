package httpserver

import (
	"net/http"
	"strings"

	"chatledger/internal/annotate"
	"chatledger/internal/auth"
	"chatledger/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler streams recompute events to annotation UIs so open sessions see
// trade stats change as labels land.
type WSHandler struct {
	bus      *events.Bus
	authSvc  *auth.Service
	svc      *annotate.Service
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(bus *events.Bus, authSvc *auth.Service, svc *annotate.Service, origin string, log *zap.Logger) *WSHandler {
	return &WSHandler{
		bus:     bus,
		authSvc: authSvc,
		svc:     svc,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) },
		},
	}
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	reqOrigin := r.Header.Get("Origin")
	if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
		if strings.Contains(reqOrigin, "localhost") || strings.Contains(reqOrigin, "127.0.0.1") {
			return true
		}
	}
	return strings.EqualFold(reqOrigin, origin)
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if _, err := h.authSvc.ParseToken(token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)

	// Initial snapshot so a fresh client doesn't wait for the next save.
	if snap, err := h.svc.Recompute(r.Context()); err == nil {
		if err := conn.WriteJSON(events.Event{Type: "stats", Data: snap.Stats}); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case evt, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				h.log.Debug("ws write failed", zap.Error(err))
				return
			}
		}
	}
}
