// Package push содержит транспорт push-уведомлений: интерфейс Pusher,
// адаптер именованного канала и in-memory hub для тестов и демо.
package push

import "encoding/json"

//go:generate moq -out pusher_mock.go . Pusher

// Handler обрабатывает payload одного push-события
type Handler func(payload json.RawMessage)

// Pusher defines the push transport for named notification channels.
// Доставка as-least-once, порядок между каналами не гарантируется;
// получатель обязан переживать дубликаты.
type Pusher interface {
	// Subscribe подписывает handler на событие eventName канала channel
	// и возвращает идентификатор подписки
	Subscribe(channel, eventName string, handler Handler) (string, error)

	// Unsubscribe снимает подписку по идентификатору
	Unsubscribe(subscriptionID string) error
}
