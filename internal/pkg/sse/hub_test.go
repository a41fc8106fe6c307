package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesEverySubscriberOfUser(t *testing.T) {
	hub := NewHub()

	a, cleanupA := hub.Subscribe("user-1")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("user-1")
	defer cleanupB()
	other, cleanupOther := hub.Subscribe("user-2")
	defer cleanupOther()

	delivered := hub.Publish("user-1", Event{UserID: "user-1", Event: "new-notification", Data: "hello"})
	assert.Equal(t, 2, delivered)

	assert.Equal(t, "hello", (<-a).Data)
	assert.Equal(t, "hello", (<-b).Data)
	assert.Len(t, other, 0)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.Publish("nobody", Event{Event: "new-notification"}))
}

func TestHub_FullChannelIsSkipped(t *testing.T) {
	hub := NewHubWithBuffer(1)
	_, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	assert.Equal(t, 1, hub.Publish("user-1", Event{Event: "first"}))
	assert.Equal(t, 0, hub.Publish("user-1", Event{Event: "second"}))
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("user-1")
	assert.Equal(t, 1, hub.SubscriberCount("user-1"))
	assert.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))
	assert.Equal(t, 0, hub.TotalSubscribers())
}
