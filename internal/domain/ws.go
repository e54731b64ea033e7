package domain

import (
	"context"
	"net/http"

	"github.com/chore-quest/backend/internal/middleware"
	"github.com/chore-quest/backend/pkg/ws"
	"github.com/gorilla/websocket"
)

type WsDomain interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

type wsDomain struct {
	// ctx is the server base context carrying configs, logger and the
	// token engine. Upgraded connections outlive their request context.
	ctx context.Context
	hub *ws.Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewWsDomain(ctx context.Context, hub *ws.Hub) *wsDomain {
	return &wsDomain{ctx: ctx, hub: hub}
}

// ServeHTTP upgrades the request and keeps the client registered for exactly
// the lifetime of its connection.
func (d *wsDomain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.TokenFromRequest(d.ctx, r)
	if userID == "" {
		http.Error(w, "Access token is not valid", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Unable to connect server", http.StatusInternalServerError)
		return
	}

	client := ws.NewClient(conn, userID)
	d.hub.Register(client)
	defer d.hub.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
