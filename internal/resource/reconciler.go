package resource

import (
	"slices"

	"github.com/iudanet/livesync/internal/models"
)

// source обозначает производителя входящего изменения
type source string

const (
	sourcePoll source = "poll"
	sourcePush source = "push"
)

// applyPush — вход push-событий из адаптера канала
func (c *Collection) applyPush(m *models.Mutation) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.applyIncomingLocked(m, sourcePush)
	c.mu.Unlock()
}

// applyIncomingLocked — единая точка согласования входящих изменений
// от poll и push. Изменения для записей с операцией в полете
// откладываются и применяются после ее разрешения. mu held.
func (c *Collection) applyIncomingLocked(m *models.Mutation, src source) {
	switch m.Op {
	case models.OpUpsert:
		if c.isPendingLocked(m.ID) {
			c.bufferLocked(m, src)
			return
		}
		c.applyEntityLocked(m.Entity)

	case models.OpDelete:
		if c.isPendingLocked(m.ID) {
			c.bufferLocked(m, src)
			return
		}
		// Идемпотентно: удаление отсутствующего ID — no-op
		c.store.Remove(m.ID)

	case models.OpReplace:
		c.applyReplaceLocked(m.Entities, src)
	}
}

// applyEntityLocked применяет одну входящую запись по правилу
// версионирования: запись применяется, только если ее версия не ниже
// текущей. Равные версии решаются в пользу входящей записи —
// подтверждение и push-событие одного изменения могут прийти оба,
// повторное применение обязано быть идемпотентным, а не откатом.
// mu held.
func (c *Collection) applyEntityLocked(entity *models.Entity) {
	current := c.store.Get(entity.ID)
	if current != nil && current.Version > entity.Version {
		c.logger.Debug("skipping stale incoming entity",
			"id", entity.ID,
			"incoming_version", entity.Version,
			"current_version", current.Version)
		return
	}

	applied := entity.Clone()
	applied.Pending = false
	c.store.Upsert(applied)
}

// applyReplaceLocked согласует результат полного fetch с коллекцией.
// Порядок принимается серверный; записи с операцией в полете не
// перезаписываются и не удаляются — только что созданная запись, еще
// не видимая list-эндпоинту, не должна быть оптимистично удалена.
// mu held.
func (c *Collection) applyReplaceLocked(entities []*models.Entity, src source) {
	next := make([]*models.Entity, 0, len(entities))
	seen := make(map[string]bool, len(entities))

	for _, incoming := range entities {
		seen[incoming.ID] = true

		if c.isPendingLocked(incoming.ID) {
			// Сохраняем локальное состояние, входящее — в буфер
			if current := c.store.Get(incoming.ID); current != nil {
				next = append(next, current)
			}
			c.bufferLocked(models.UpsertMutation(incoming), src)
			continue
		}

		current := c.store.Get(incoming.ID)
		if current != nil && current.Version > incoming.Version {
			next = append(next, current)
			continue
		}

		applied := incoming.Clone()
		applied.Pending = false
		next = append(next, applied)
	}

	// Локальные записи, отсутствующие в fetch, удаляются — кроме
	// незавершенных, которые остаются на своих позициях
	for idx, current := range c.store.Entities() {
		if seen[current.ID] {
			continue
		}
		if c.isPendingLocked(current.ID) || current.Pending {
			pos := min(idx, len(next))
			next = slices.Insert(next, pos, current)
		}
	}

	c.store.ReplaceAll(next)
}

// isPendingLocked сообщает, есть ли у ID операция в полете или в
// очереди. mu held.
func (c *Collection) isPendingLocked(id string) bool {
	_, ok := c.pending[id]
	return ok
}

// bufferLocked откладывает входящее изменение до разрешения операции
// над его ID. mu held.
func (c *Collection) bufferLocked(m *models.Mutation, src source) {
	c.deferred[m.ID] = append(c.deferred[m.ID], m)
	c.logger.Debug("buffering incoming change for in-flight entity",
		"id", m.ID,
		"source", string(src))
}

// replayDeferredLocked применяет отложенные изменения ID в порядке
// поступления. Проверка на операцию в полете намеренно пропускается:
// вызывается ровно в моменты, когда очередь ID свободна. Правило
// версионирования продолжает действовать. mu held.
func (c *Collection) replayDeferredLocked(id string) {
	muts := c.deferred[id]
	if len(muts) == 0 {
		return
	}
	delete(c.deferred, id)

	for _, m := range muts {
		switch m.Op {
		case models.OpUpsert:
			c.applyEntityLocked(m.Entity)
		case models.OpDelete:
			c.store.Remove(m.ID)
		}
	}
}

// pruneStaleDeferredLocked выбрасывает из буфера записи, устаревшие
// относительно подтвержденного удаления: fetch, выданный до удаления,
// не должен воскресить запись. Более новые версии (ресурс пересоздан
// кем-то еще) и отложенные удаления сохраняются. mu held.
func (c *Collection) pruneStaleDeferredLocked(id string, deletedVersion int64) {
	muts := c.deferred[id]
	if len(muts) == 0 {
		return
	}

	kept := muts[:0]
	for _, m := range muts {
		if m.Op == models.OpUpsert && m.Entity.Version <= deletedVersion {
			continue
		}
		kept = append(kept, m)
	}

	if len(kept) == 0 {
		delete(c.deferred, id)
		return
	}
	c.deferred[id] = kept
}
