package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeAndSubscriberCount(t *testing.T) {
	m := NewConnectionManager(0)
	c := &Connection{ID: "conn-1", subscriptions: make(map[string]bool)}

	assert.Equal(t, 0, m.SubscriberCount("sess-1"))

	m.Subscribe(c, "sess-1")
	assert.Equal(t, 1, m.SubscriberCount("sess-1"))
	assert.True(t, c.subscriptions["sess-1"])
}

func TestUnsubscribeRemovesFromChannel(t *testing.T) {
	m := NewConnectionManager(0)
	c := &Connection{ID: "conn-1", subscriptions: make(map[string]bool)}

	m.Subscribe(c, "sess-1")
	m.Unsubscribe(c, "sess-1")

	assert.Equal(t, 0, m.SubscriberCount("sess-1"))
	assert.False(t, c.subscriptions["sess-1"])
}

func TestSubscribeIsPerSession(t *testing.T) {
	m := NewConnectionManager(0)
	c1 := &Connection{ID: "conn-1", subscriptions: make(map[string]bool)}
	c2 := &Connection{ID: "conn-2", subscriptions: make(map[string]bool)}

	m.Subscribe(c1, "sess-1")
	m.Subscribe(c2, "sess-1")
	m.Subscribe(c1, "sess-2")

	assert.Equal(t, 2, m.SubscriberCount("sess-1"))
	assert.Equal(t, 1, m.SubscriberCount("sess-2"))
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	m := NewConnectionManager(0)
	assert.NotPanics(t, func() {
		m.Publish(Message{Type: MessageWorldEvent, SessionID: "sess-1", Payload: map[string]string{"k": "v"}})
	})
}

func TestNewConnectionManagerDefaultsWriteTimeout(t *testing.T) {
	m := NewConnectionManager(0)
	assert.Greater(t, m.writeTimeout.Nanoseconds(), int64(0))
}
