package resource

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/iudanet/livesync/internal/models"
)

// tempIDPrefix помечает временные ID еще не подтвержденных созданий
const tempIDPrefix = "tmp-"

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	}
	return "unknown"
}

// operation представляет одну оптимистичную мутацию. Жизненный цикл:
// создается при вызове Create/Update/Remove, применяется к хранилищу в
// момент старта (не постановки в очередь), разрешается подтверждением
// сервера или компенсирующим откатом.
type operation struct {
	ctx      context.Context
	done     chan error
	snapshot *models.Entity
	id       string
	payload  json.RawMessage
	index    int
	kind     opKind
}

// opQueue сериализует операции над одним ID: не более одной в полете,
// остальные ждут в порядке FIFO
type opQueue struct {
	ops    []*operation
	active bool
}

// Create оптимистично добавляет запись с временным ID и создает ресурс
// на сервере. Успех заменяет временную запись серверной (серверный ID
// выигрывает); отказ убирает временную запись целиком — частичное
// состояние не переживает отказ.
func (c *Collection) Create(ctx context.Context, payload json.RawMessage) error {
	op := &operation{
		kind:    opCreate,
		payload: payload,
		ctx:     ctx,
		done:    make(chan error, 1),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	op.id = tempIDPrefix + uuid.NewString()
	c.enqueueLocked(op)
	c.mu.Unlock()

	return c.await(ctx, op)
}

// Update оптимистично применяет patch и отправляет его на сервер.
// Отказ восстанавливает снимок записи дословно (точный откат, не слияние).
func (c *Collection) Update(ctx context.Context, id string, patch json.RawMessage) error {
	op := &operation{
		kind:    opUpdate,
		id:      id,
		payload: patch,
		ctx:     ctx,
		done:    make(chan error, 1),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.enqueueLocked(op)
	c.mu.Unlock()

	return c.await(ctx, op)
}

// Remove оптимистично удаляет запись и удаляет ресурс на сервере.
// Отказ возвращает запись на исходную позицию: коллекция сохраняет
// порядок вставки, поэтому наивное добавление в конец некорректно.
func (c *Collection) Remove(ctx context.Context, id string) error {
	op := &operation{
		kind: opDelete,
		id:   id,
		ctx:  ctx,
		done: make(chan error, 1),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.enqueueLocked(op)
	c.mu.Unlock()

	return c.await(ctx, op)
}

// await ждет разрешения операции. Отмена ctx отпускает вызывающего,
// но операция продолжается в фоне и разрешится обычным путем.
func (c *Collection) await(ctx context.Context, op *operation) error {
	select {
	case err := <-op.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueueLocked ставит операцию в очередь ее ID и запускает, если
// очередь простаивает. mu held.
func (c *Collection) enqueueLocked(op *operation) {
	q := c.pending[op.id]
	if q == nil {
		q = &opQueue{}
		c.pending[op.id] = q
	}
	q.ops = append(q.ops, op)

	if !q.active {
		c.startNextLocked(op.id)
	}
}

// startNextLocked запускает следующую операцию очереди. Операции,
// падающие на старте (запись не найдена, битый patch), разрешаются
// сразу, без сетевого вызова. mu held.
func (c *Collection) startNextLocked(id string) {
	q := c.pending[id]
	if q == nil || q.active {
		return
	}

	for len(q.ops) > 0 {
		op := q.ops[0]
		q.ops = q.ops[1:]

		if err := c.beginLocked(op); err != nil {
			op.done <- err
			continue
		}
		q.active = true
		return
	}

	// Очередь опустела — ID больше не в полете, буфер можно применить
	delete(c.pending, id)
	c.replayDeferredLocked(id)
}

// beginLocked применяет оптимистичное изменение к хранилищу и запускает
// сетевой вызов. Снимок для отката берется в момент старта операции:
// предыдущая операция очереди уже разрешилась и состояние актуально.
// mu held.
func (c *Collection) beginLocked(op *operation) error {
	switch op.kind {
	case opCreate:
		data := make(json.RawMessage, len(op.payload))
		copy(data, op.payload)
		c.store.Upsert(&models.Entity{
			ID:      op.id,
			Data:    data,
			Pending: true,
		})

	case opUpdate:
		current := c.store.Get(op.id)
		if current == nil {
			return ErrNotFound
		}
		merged, err := models.MergePatch(current.Data, op.payload)
		if err != nil {
			return err
		}
		op.snapshot = current

		optimistic := current.Clone()
		optimistic.Data = merged
		optimistic.Pending = true
		c.store.Upsert(optimistic)

	case opDelete:
		current := c.store.Get(op.id)
		if current == nil {
			return ErrNotFound
		}
		op.snapshot = current
		op.index = c.store.IndexOf(op.id)
		c.store.Remove(op.id)
	}

	go c.execute(op)
	return nil
}

// execute выполняет сетевой вызов операции вне мьютекса
func (c *Collection) execute(op *operation) {
	var (
		confirmed *models.Entity
		err       error
	)

	switch op.kind {
	case opCreate:
		confirmed, err = c.cfg.Remote.Create(op.ctx, op.payload)
	case opUpdate:
		confirmed, err = c.cfg.Remote.Update(op.ctx, op.id, op.payload)
	case opDelete:
		err = c.cfg.Remote.Delete(op.ctx, op.id)
	}

	c.finish(op, confirmed, err)
}

// finish разрешает операцию: подтверждает или откатывает оптимистичное
// состояние, применяет отложенные входящие изменения и запускает
// следующую операцию очереди.
func (c *Collection) finish(op *operation, confirmed *models.Entity, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		op.done <- err
		return
	}

	switch op.kind {
	case opCreate:
		// Временная запись уходит в обоих исходах
		c.store.Remove(op.id)
		if err == nil {
			c.applyEntityLocked(confirmed)
		}

	case opUpdate:
		if err == nil {
			c.applyEntityLocked(confirmed)
		} else {
			// Точный откат: снимок восстанавливается дословно
			c.store.Upsert(op.snapshot)
		}

	case opDelete:
		if err == nil {
			c.store.Remove(op.id)
			c.pruneStaleDeferredLocked(op.id, op.snapshot.Version)
		} else {
			c.store.RestoreAt(op.snapshot, op.index)
		}
	}

	if q := c.pending[op.id]; q != nil {
		q.active = false
	}
	c.replayDeferredLocked(op.id)
	c.startNextLocked(op.id)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("mutation failed, optimistic state rolled back",
			"op", op.kind,
			"id", op.id,
			"error", err)
		c.setErr(err)
	} else {
		c.clearErr()
	}
	op.done <- err
}
