package push

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Hub представляет in-memory реализацию Pusher: fan-out событий по
// подписчикам канала. Handlers вызываются синхронно в горутине
// публикующего — это сохраняет детерминизм в тестах.
type Hub struct {
	subs map[string]*subscription
	mu   sync.RWMutex
}

type subscription struct {
	channel string
	event   string
	handler Handler
}

// NewHub создает пустой hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]*subscription),
	}
}

// Subscribe регистрирует handler на событие канала
func (h *Hub) Subscribe(channel, eventName string, handler Handler) (string, error) {
	if channel == "" || eventName == "" {
		return "", fmt.Errorf("channel and event name must not be empty")
	}
	if handler == nil {
		return "", fmt.Errorf("handler must not be nil")
	}

	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = &subscription{channel: channel, event: eventName, handler: handler}
	h.mu.Unlock()

	return id, nil
}

// Unsubscribe снимает подписку; повторное снятие — ошибка
func (h *Hub) Unsubscribe(subscriptionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[subscriptionID]; !ok {
		return fmt.Errorf("unknown subscription %q", subscriptionID)
	}
	delete(h.subs, subscriptionID)
	return nil
}

// Publish доставляет событие всем подписчикам канала
func (h *Hub) Publish(channel, eventName string, payload []byte) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.channel == channel && sub.event == eventName {
			handlers = append(handlers, sub.handler)
		}
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}
