package push

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/livesync/internal/models"
	"github.com/iudanet/livesync/pkg/api"
)

// Adapter подписывается на события ресурсной коллекции в именованном
// канале и нормализует их payload в models.Mutation. Некорректные
// payload логируются и отбрасываются — они не должны портить коллекцию.
type Adapter struct {
	pusher  Pusher
	sink    func(*models.Mutation)
	logger  *slog.Logger
	subs    []string
	channel string
	mu      sync.Mutex
}

// NewAdapter создает адаптер. sink вызывается синхронно из handler-а
// push-транспорта для каждого нормализованного события.
func NewAdapter(pusher Pusher, sink func(*models.Mutation), logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		pusher: pusher,
		sink:   sink,
		logger: logger,
	}
}

// Attach подписывается на все события ресурсов канала channel.
// При частичном сбое подписки уже созданные подписки снимаются —
// адаптер либо подписан целиком, либо не подписан вовсе.
func (a *Adapter) Attach(channel string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.channel != "" {
		return fmt.Errorf("adapter already attached to channel %q", a.channel)
	}

	events := map[string]Handler{
		api.EventResourceCreated:  a.handleUpsert,
		api.EventResourceUpdated:  a.handleUpsert,
		api.EventResourceDeleted:  a.handleDelete,
		api.EventResourceReplaced: a.handleReplace,
	}

	subs := make([]string, 0, len(events))
	for eventName, handler := range events {
		id, err := a.pusher.Subscribe(channel, eventName, handler)
		if err != nil {
			// Разматываем частично выполненную подписку
			for _, sub := range subs {
				if unsubErr := a.pusher.Unsubscribe(sub); unsubErr != nil {
					a.logger.Warn("failed to roll back subscription",
						"subscription_id", sub,
						"error", unsubErr)
				}
			}
			return fmt.Errorf("failed to subscribe to %s: %w", eventName, err)
		}
		subs = append(subs, id)
	}

	a.channel = channel
	a.subs = subs
	return nil
}

// Detach снимает все подписки канала. Повторный вызов — no-op.
func (a *Adapter) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, sub := range a.subs {
		if err := a.pusher.Unsubscribe(sub); err != nil {
			a.logger.Warn("failed to unsubscribe",
				"subscription_id", sub,
				"channel", a.channel,
				"error", err)
		}
	}
	a.subs = nil
	a.channel = ""
}

// handleUpsert нормализует события resource-created и resource-updated
func (a *Adapter) handleUpsert(payload json.RawMessage) {
	entity, err := models.EntityFromJSON(payload)
	if err != nil {
		a.logger.Warn("dropping malformed push payload",
			"event", "upsert",
			"error", err)
		return
	}
	a.sink(models.UpsertMutation(entity))
}

// handleDelete нормализует событие resource-deleted
func (a *Adapter) handleDelete(payload json.RawMessage) {
	var event api.ResourceDeleted
	if err := json.Unmarshal(payload, &event); err != nil || event.ID == "" {
		a.logger.Warn("dropping malformed push payload",
			"event", api.EventResourceDeleted,
			"error", err)
		return
	}
	a.sink(models.DeleteMutation(event.ID))
}

// handleReplace нормализует событие resource-replaced (полная замена)
func (a *Adapter) handleReplace(payload json.RawMessage) {
	var event api.ResourceReplaced
	if err := json.Unmarshal(payload, &event); err != nil {
		a.logger.Warn("dropping malformed push payload",
			"event", api.EventResourceReplaced,
			"error", err)
		return
	}

	entities := make([]*models.Entity, 0, len(event.Items))
	for _, item := range event.Items {
		entity, err := models.EntityFromJSON(item)
		if err != nil {
			// Одна битая запись отбрасывает все событие: частичная
			// замена коллекции хуже, чем пропущенный тик
			a.logger.Warn("dropping malformed push payload",
				"event", api.EventResourceReplaced,
				"error", err)
			return
		}
		entities = append(entities, entity)
	}
	a.sink(models.ReplaceMutation(entities))
}
