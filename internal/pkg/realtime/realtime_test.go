package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestHubPublisher_Publish(t *testing.T) {
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	pub := NewHubPublisher(hub)
	require.NoError(t, pub.Publish(context.Background(), "emp-1", "new-notification", payload{ID: "n-1"}))

	ev := <-events
	assert.Equal(t, "new-notification", ev.Event)
	assert.Equal(t, payload{ID: "n-1"}, ev.Data)

	// No subscriber is not an error
	assert.NoError(t, pub.Publish(context.Background(), "emp-2", "new-notification", payload{}))
}

func TestRedisRelay_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	relay := NewRedisRelay(client, sse.NewHub(), "")

	data, err := encode("emp-1", "new-notification", payload{ID: "n-1", Title: "Leave Approved"})
	require.NoError(t, err)

	mock.ExpectPublish(DefaultChannel, data).SetVal(1)

	err = relay.Publish(context.Background(), "emp-1", "new-notification", payload{ID: "n-1", Title: "Leave Approved"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRelay_PublishError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	relay := NewRedisRelay(client, sse.NewHub(), "custom")

	data, err := encode("emp-1", "new-notification", payload{ID: "n-1"})
	require.NoError(t, err)

	mock.ExpectPublish("custom", data).SetErr(errors.New("connection refused"))

	err = relay.Publish(context.Background(), "emp-1", "new-notification", payload{ID: "n-1"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisRelay_DeliverForwardsToHub(t *testing.T) {
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	client, _ := redismock.NewClientMock()
	relay := NewRedisRelay(client, hub, "")

	data, err := encode("emp-1", "new-notification", payload{ID: "n-1", Title: "Leave Rejected"})
	require.NoError(t, err)
	require.NoError(t, relay.deliver(data))

	ev := <-events
	assert.Equal(t, "new-notification", ev.Event)

	raw, ok := ev.Data.(json.RawMessage)
	require.True(t, ok)
	var got payload
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Leave Rejected", got.Title)
}

func TestRedisRelay_DeliverRejectsBadInput(t *testing.T) {
	client, _ := redismock.NewClientMock()
	relay := NewRedisRelay(client, sse.NewHub(), "")

	assert.Error(t, relay.deliver("not json"))
	assert.Error(t, relay.deliver(`{"event":"new-notification","payload":{}}`))
}
