package push

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubSubscribePublish(t *testing.T) {
	hub := NewHub()

	var received []string
	id, err := hub.Subscribe("schools", "resource-created", func(payload json.RawMessage) {
		received = append(received, string(payload))
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	hub.Publish("schools", "resource-created", []byte(`{"id":"a"}`))
	hub.Publish("schools", "resource-updated", []byte(`{"id":"b"}`)) // другое событие
	hub.Publish("logs", "resource-created", []byte(`{"id":"c"}`))    // другой канал

	assert.Equal(t, []string{`{"id":"a"}`}, received)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	received := 0
	id, err := hub.Subscribe("schools", "resource-created", func(json.RawMessage) {
		received++
	})
	require.NoError(t, err)

	require.NoError(t, hub.Unsubscribe(id))
	hub.Publish("schools", "resource-created", []byte(`{}`))
	assert.Zero(t, received)

	// Повторная отписка — ошибка
	require.Error(t, hub.Unsubscribe(id))
	require.Error(t, hub.Unsubscribe("no-such-id"))
}

func TestHubValidation(t *testing.T) {
	hub := NewHub()

	_, err := hub.Subscribe("", "resource-created", func(json.RawMessage) {})
	require.Error(t, err)

	_, err = hub.Subscribe("schools", "", func(json.RawMessage) {})
	require.Error(t, err)

	_, err = hub.Subscribe("schools", "resource-created", nil)
	require.Error(t, err)
}

func TestHubMultipleSubscribers(t *testing.T) {
	hub := NewHub()

	first, second := 0, 0
	_, err := hub.Subscribe("schools", "resource-created", func(json.RawMessage) { first++ })
	require.NoError(t, err)
	_, err = hub.Subscribe("schools", "resource-created", func(json.RawMessage) { second++ })
	require.NoError(t, err)

	hub.Publish("schools", "resource-created", []byte(`{}`))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
