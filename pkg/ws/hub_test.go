package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Client_Write(t *testing.T) {
	client := &Client{ID: "c1", UserID: "user1", send: make(chan []byte, 1)}
	require.NoError(t, client.Write([]byte("first")))

	// A full buffer drops the message instead of blocking the caller.
	require.Error(t, client.Write([]byte("second")))
	require.Len(t, client.send, 1)

	close(client.send)
	require.Error(t, client.Write([]byte("after close")))
}

func Test_Hub_BroadcastTo(t *testing.T) {
	hub := NewHub()
	client1 := &Client{ID: "c1", UserID: "user1", send: make(chan []byte, 8)}
	client2 := &Client{ID: "c2", UserID: "user2", send: make(chan []byte, 8)}
	hub.Register(client1)
	hub.Register(client2)

	hub.BroadcastTo([]byte("hello"), "user1")
	require.Len(t, client1.send, 1)
	require.Empty(t, client2.send)

	hub.Broadcast([]byte("everyone"))
	require.Len(t, client1.send, 2)
	require.Len(t, client2.send, 1)

	// An unregistered client receives nothing more.
	hub.Unregister(client1)
	hub.BroadcastTo([]byte("again"), "user1")
	require.Len(t, client1.send, 2)
}
