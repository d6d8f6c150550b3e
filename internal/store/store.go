// Package store содержит упорядоченную наблюдаемую коллекцию записей.
// Хранилище намеренно не знает правил версионирования: решение о том,
// применять ли входящее изменение, принимает reconciler, хранилище лишь
// выполняет примитивные операции и уведомляет подписчиков.
package store

import (
	"slices"
	"sync"

	"github.com/iudanet/livesync/internal/models"
)

// Store представляет упорядоченную коллекцию записей с уникальными ID.
// Порядок вставки сохраняется; ReplaceAll принимает порядок сервера.
type Store struct {
	byID      map[string]*models.Entity
	listeners map[int]func()
	order     []string
	nextSub   int
	mu        sync.RWMutex
	subMu     sync.Mutex
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		byID:      make(map[string]*models.Entity),
		listeners: make(map[int]func()),
	}
}

// Subscribe регистрирует подписчика, вызываемого синхронно после каждой
// операции, изменившей наблюдаемое состояние. Возвращает функцию отписки.
// Подписчик не должен синхронно вызывать мутации коллекции.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.listeners, id)
		s.subMu.Unlock()
	}
}

// Entities возвращает копии всех записей в порядке вставки
func (s *Store) Entities() []*models.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Entity, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id].Clone())
	}
	return result
}

// Get возвращает копию записи по ID или nil, если записи нет
func (s *Store) Get(id string) *models.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.byID[id]
	if !ok {
		return nil
	}
	return entity.Clone()
}

// Len возвращает количество записей
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// IndexOf возвращает позицию записи в коллекции или -1
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Index(s.order, id)
}

// Upsert добавляет запись или заменяет существующую, сохраняя ее позицию.
// Идемпотентна: повторное применение структурно идентичной записи не
// меняет состояние и не порождает уведомления.
func (s *Store) Upsert(entity *models.Entity) bool {
	s.mu.Lock()

	current, ok := s.byID[entity.ID]
	if ok && current.Equal(entity) {
		s.mu.Unlock()
		return false
	}

	if !ok {
		s.order = append(s.order, entity.ID)
	}
	s.byID[entity.ID] = entity.Clone()

	s.mu.Unlock()
	s.notify()
	return true
}

// Remove удаляет запись. Удаление отсутствующего ID — no-op без уведомления.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()

	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return false
	}

	delete(s.byID, id)
	if idx := slices.Index(s.order, id); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}

	s.mu.Unlock()
	s.notify()
	return true
}

// RestoreAt вставляет запись на заданную позицию. Используется при откате
// удаления: наивное добавление в конец нарушило бы порядок вставки.
// Если запись с таким ID уже существует, поведение совпадает с Upsert.
func (s *Store) RestoreAt(entity *models.Entity, index int) bool {
	s.mu.Lock()

	if current, ok := s.byID[entity.ID]; ok {
		if current.Equal(entity) {
			s.mu.Unlock()
			return false
		}
		s.byID[entity.ID] = entity.Clone()
		s.mu.Unlock()
		s.notify()
		return true
	}

	if index < 0 {
		index = 0
	}
	if index > len(s.order) {
		index = len(s.order)
	}
	s.order = slices.Insert(s.order, index, entity.ID)
	s.byID[entity.ID] = entity.Clone()

	s.mu.Unlock()
	s.notify()
	return true
}

// ReplaceAll заменяет содержимое коллекции, принимая порядок entities.
// Выполняет diff с текущим состоянием: если все записи структурно
// идентичны и порядок не изменился, уведомление не отправляется.
func (s *Store) ReplaceAll(entities []*models.Entity) bool {
	s.mu.Lock()

	changed := len(entities) != len(s.order)
	if !changed {
		for i, entity := range entities {
			if s.order[i] != entity.ID || !s.byID[entity.ID].Equal(entity) {
				changed = true
				break
			}
		}
	}
	if !changed {
		s.mu.Unlock()
		return false
	}

	s.byID = make(map[string]*models.Entity, len(entities))
	s.order = make([]string, 0, len(entities))
	for _, entity := range entities {
		// Дубликаты ID игнорируем: первая запись выигрывает
		if _, ok := s.byID[entity.ID]; ok {
			continue
		}
		s.order = append(s.order, entity.ID)
		s.byID[entity.ID] = entity.Clone()
	}

	s.mu.Unlock()
	s.notify()
	return true
}

// notify вызывает подписчиков вне основного мьютекса, чтобы подписчик
// мог читать коллекцию
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
