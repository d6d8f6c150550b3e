// Package memremote реализует remote.Collection в памяти процесса.
// Используется демо-приложением и интеграционными тестами как замена
// настоящего REST API: версии назначает "сервер", ошибки инжектируются
// через FailNext.
package memremote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/livesync/internal/models"
	"github.com/iudanet/livesync/internal/remote"
)

// Remote представляет коллекцию ресурсов, живущую в памяти
type Remote struct {
	byID    map[string]*models.Entity
	nextErr error
	order   []string
	mu      sync.Mutex
}

// Compile-time check that Remote implements remote.Collection
var _ remote.Collection = (*Remote)(nil)

// New создает пустую коллекцию
func New() *Remote {
	return &Remote{
		byID: make(map[string]*models.Entity),
	}
}

// FailNext заставляет следующий вызов любого метода вернуть err
func (r *Remote) FailNext(err error) {
	r.mu.Lock()
	r.nextErr = err
	r.mu.Unlock()
}

// Seed наполняет коллекцию записями, минуя назначение версий
func (r *Remote) Seed(entities ...*models.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entity := range entities {
		if _, ok := r.byID[entity.ID]; !ok {
			r.order = append(r.order, entity.ID)
		}
		r.byID[entity.ID] = entity.Clone()
	}
}

// List возвращает все записи в порядке вставки
func (r *Remote) List(ctx context.Context, filter map[string]string) ([]*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeErr(); err != nil {
		return nil, err
	}

	result := make([]*models.Entity, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.byID[id].Clone())
	}
	return result, nil
}

// Create назначает серверный ID и версию 1
func (r *Remote) Create(ctx context.Context, payload json.RawMessage) (*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeErr(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	data, err := stamp(payload, id, 1)
	if err != nil {
		return nil, &remote.ValidationError{Err: err, Message: "invalid payload"}
	}

	entity := &models.Entity{ID: id, Version: 1, Data: data}
	r.order = append(r.order, id)
	r.byID[id] = entity

	return entity.Clone(), nil
}

// Update накладывает patch и увеличивает версию
func (r *Remote) Update(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeErr(); err != nil {
		return nil, err
	}

	current, ok := r.byID[id]
	if !ok {
		return nil, &remote.ValidationError{Message: fmt.Sprintf("resource %s not found", id)}
	}

	merged, err := models.MergePatch(current.Data, patch)
	if err != nil {
		return nil, &remote.ValidationError{Err: err, Message: "invalid patch"}
	}

	version := current.Version + 1
	data, err := stamp(merged, id, version)
	if err != nil {
		return nil, &remote.ValidationError{Err: err, Message: "invalid patch"}
	}

	entity := &models.Entity{ID: id, Version: version, Data: data}
	r.byID[id] = entity

	return entity.Clone(), nil
}

// Delete удаляет запись; удаление отсутствующего ID — no-op
func (r *Remote) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeErr(); err != nil {
		return err
	}

	if _, ok := r.byID[id]; !ok {
		return nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// takeErr возвращает и сбрасывает инжектированную ошибку. mu held.
func (r *Remote) takeErr() error {
	err := r.nextErr
	r.nextErr = nil
	return err
}

// stamp прописывает серверные id и version внутрь JSON объекта
func stamp(payload json.RawMessage, id string, version int64) (json.RawMessage, error) {
	fields := map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("failed to parse payload: %w", err)
		}
	}
	fields["id"] = id
	fields["version"] = version
	return json.Marshal(fields)
}
