package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func register(t *testing.T, hub *Hub, userID uuid.UUID, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, buffer)}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.Connected(userID) > 0 }, time.Second, time.Millisecond)
	return client
}

func TestHub_SendReachesEveryDeviceOfUser(t *testing.T) {
	hub := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	phone := register(t, hub, alice, 4)
	laptop := register(t, hub, alice, 4)
	other := register(t, hub, bob, 4)
	require.Eventually(t, func() bool { return hub.Connected(alice) == 2 }, time.Second, time.Millisecond)

	hub.Send(alice, []byte(`{"type":"session_status"}`))

	assert.Equal(t, `{"type":"session_status"}`, string(<-phone.Send))
	assert.Equal(t, `{"type":"session_status"}`, string(<-laptop.Send))
	assert.Empty(t, other.Send)
}

func TestHub_FullBufferDropsFrameAndKeepsClient(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	client := register(t, hub, user, 1)

	hub.Send(user, []byte("first"))
	hub.Send(user, []byte("dropped"))

	assert.Equal(t, 1, hub.Connected(user))
	assert.Equal(t, "first", string(<-client.Send))

	hub.Send(user, []byte("third"))
	assert.Equal(t, "third", string(<-client.Send))
}

func TestHub_UnregisterClosesOnce(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	client := register(t, hub, user, 1)

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.Connected(user) == 0 }, time.Second, time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)

	// a second unregister of the same client must not close again
	hub.unregister <- client
	hub.Send(user, []byte("nobody home"))
}
