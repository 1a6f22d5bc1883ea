package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubSessionFanout(t *testing.T) {
	h := NewHub()
	closed := make(chan string, 1)
	h.SessionClosed = func(id string) { closed <- id }
	go h.Run()

	a := &Connection{ID: "conn_a", Send: make(chan []byte, 4)}
	b := &Connection{ID: "conn_b", Send: make(chan []byte, 4)}
	h.Register(a)
	h.Register(b)
	h.BindSession(a, "sess_1")
	h.BindSession(b, "sess_1")

	require.NoError(t, h.BroadcastJSON("sess_1", map[string]string{"kind": "probe"}))
	for _, conn := range []*Connection{a, b} {
		select {
		case data := <-conn.Send:
			assert.Contains(t, string(data), "probe")
		case <-time.After(2 * time.Second):
			t.Fatalf("connection %s did not receive broadcast", conn.ID)
		}
	}
	assert.Equal(t, 2, h.ConnectionCount())
	assert.Equal(t, 1, h.SessionCount())

	// The session survives losing one of two connections.
	h.Unregister(a)
	select {
	case id := <-closed:
		t.Fatalf("session closed early: %s", id)
	case <-time.After(50 * time.Millisecond):
	}

	h.Unregister(b)
	select {
	case id := <-closed:
		assert.Equal(t, "sess_1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("session close not signalled")
	}
	assert.Equal(t, 0, h.ConnectionCount())
	assert.Equal(t, 0, h.SessionCount())
}

func TestHubSendToConnectionBufferFull(t *testing.T) {
	h := NewHub()
	conn := &Connection{ID: "conn_a", Send: make(chan []byte, 1)}

	require.NoError(t, h.SendToConnection(conn, []byte("one")))
	assert.ErrorIs(t, h.SendToConnection(conn, []byte("two")), ErrBufferFull)
}
