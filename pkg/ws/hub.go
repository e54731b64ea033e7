package ws

import (
	"github.com/puzpuzpuz/xsync"
)

// Hub tracks live clients keyed by client id. Clients must be explicitly
// unregistered when their connection ends; the hub never drops one on its
// own.
type Hub struct {
	clients *xsync.MapOf[string, *Client]
}

func NewHub() *Hub {
	return &Hub{clients: xsync.NewMapOf[*Client]()}
}

func (h *Hub) Register(client *Client) {
	h.clients.Store(client.ID, client)
}

func (h *Hub) Unregister(client *Client) {
	if c, ok := h.clients.LoadAndDelete(client.ID); ok {
		c.close()
	}
}

// BroadcastTo delivers msg to every live client of the given users. Failed
// deliveries only affect the broken client.
func (h *Hub) BroadcastTo(msg []byte, userIDs ...string) {
	targets := map[string]bool{}
	for _, id := range userIDs {
		targets[id] = true
	}

	h.clients.Range(func(id string, client *Client) bool {
		if targets[client.UserID] {
			_ = client.Write(msg)
		}
		return true
	})
}

func (h *Hub) Broadcast(msg []byte) {
	h.clients.Range(func(id string, client *Client) bool {
		_ = client.Write(msg)
		return true
	})
}
