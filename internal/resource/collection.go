// Package resource реализует клиентский слой синхронизации коллекции
// ресурсов: оптимистичные мутации, периодический fetch и push-события
// сходятся в одном reconciler-е, который и решает, каким станет
// авторитетное состояние коллекции.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/livesync/internal/models"
	"github.com/iudanet/livesync/internal/push"
	"github.com/iudanet/livesync/internal/remote"
	"github.com/iudanet/livesync/internal/store"
)

// Ошибки времени жизни коллекции
var (
	// ErrClosed возвращается при обращении к закрытой коллекции
	ErrClosed = errors.New("collection is closed")

	// ErrNotFound возвращается мутацией над отсутствующей записью
	ErrNotFound = errors.New("entity not found")
)

// defaultPollInterval применяется, когда Config.PollInterval не задан
const defaultPollInterval = 30 * time.Second

// Config описывает зависимости и настройки синхронизируемой коллекции
type Config struct {
	Remote       remote.Collection // обязательный REST транспорт
	Pusher       push.Pusher       // push транспорт (опционально)
	Filter       map[string]string // фильтр для List
	Logger       *slog.Logger      // логгер (по умолчанию slog.Default)
	Channel      string            // имя канала push-событий (обязателен при Pusher)
	PollInterval time.Duration     // интервал периодического fetch
}

// Collection представляет синхронизируемую коллекцию ресурсов.
// Один экземпляр монопольно владеет своим хранилищем; все входящие
// изменения сериализуются мьютексом mu — это единственная точка
// сериализации подсистемы.
//
// Подписчики уведомляются синхронно и не должны синхронно вызывать
// Create/Update/Remove/Refresh — только читать Data и Status.
type Collection struct {
	cfg     Config
	store   *store.Store
	adapter *push.Adapter
	logger  *slog.Logger
	cancel  context.CancelFunc

	pending  map[string]*opQueue
	deferred map[string][]*models.Mutation

	listeners map[int]func()
	status    models.SyncStatus
	nextSub   int
	fetching  bool
	closed    bool
	started   bool

	mu       sync.Mutex
	statusMu sync.RWMutex
	subMu    sync.Mutex
	wg       sync.WaitGroup
}

// New создает коллекцию. Синхронизация начинается после Start.
func New(cfg Config) (*Collection, error) {
	if cfg.Remote == nil {
		return nil, fmt.Errorf("config.Remote must be provided")
	}
	if cfg.Pusher != nil && cfg.Channel == "" {
		return nil, fmt.Errorf("config.Channel must be provided with config.Pusher")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Collection{
		cfg:       cfg,
		store:     store.New(),
		logger:    cfg.Logger,
		pending:   make(map[string]*opQueue),
		deferred:  make(map[string][]*models.Mutation),
		listeners: make(map[int]func()),
		status:    models.SyncStatus{Loading: true},
	}

	// Изменения хранилища транслируются подписчикам коллекции
	c.store.Subscribe(c.notify)

	if cfg.Pusher != nil {
		c.adapter = push.NewAdapter(cfg.Pusher, c.applyPush, cfg.Logger)
	}

	return c, nil
}

// Start подключает push-канал и запускает poll scheduler.
// ctx ограничивает время жизни фоновых операций.
func (c *Collection) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("collection already started")
	}
	c.started = true
	c.mu.Unlock()

	if c.adapter != nil {
		if err := c.adapter.Attach(c.cfg.Channel); err != nil {
			c.mu.Lock()
			c.started = false
			c.mu.Unlock()
			return fmt.Errorf("failed to attach push channel: %w", err)
		}
	}

	pollCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.pollLoop(pollCtx)

	c.logger.Info("collection started",
		"channel", c.cfg.Channel,
		"poll_interval", c.cfg.PollInterval)
	return nil
}

// Close синхронно останавливает poll scheduler и отключает push-канал.
// Поздно завершившиеся сетевые вызовы не трогают остановленную
// коллекцию: каждый их продолжатель проверяет флаг closed.
func (c *Collection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c.adapter != nil {
		c.adapter.Detach()
	}
	c.wg.Wait()

	c.logger.Info("collection closed")
}

// Data возвращает копии всех записей коллекции в текущем порядке
func (c *Collection) Data() []*models.Entity {
	return c.store.Entities()
}

// Get возвращает копию записи по ID или nil
func (c *Collection) Get(id string) *models.Entity {
	return c.store.Get(id)
}

// Status возвращает текущее состояние синхронизации
func (c *Collection) Status() models.SyncStatus {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()

	return c.status
}

// Subscribe регистрирует подписчика, вызываемого после каждого
// наблюдаемого изменения данных или статуса. Возвращает функцию отписки.
func (c *Collection) Subscribe(fn func()) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.listeners, id)
		c.subMu.Unlock()
	}
}

// notify вызывает всех подписчиков коллекции
func (c *Collection) notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// setErr записывает ошибку синхронизации в статус
func (c *Collection) setErr(err error) {
	c.statusMu.Lock()
	c.status.Err = err
	c.statusMu.Unlock()
	c.notify()
}

// clearErr сбрасывает ошибку после успешной операции
func (c *Collection) clearErr() {
	c.statusMu.Lock()
	changed := c.status.Err != nil
	c.status.Err = nil
	c.statusMu.Unlock()

	if changed {
		c.notify()
	}
}

// finishFetch фиксирует результат завершившегося fetch. Подписчики
// уведомляются только при видимой смене статуса — сам по себе тик
// поллера не повод для перерисовки.
func (c *Collection) finishFetch(err error, at time.Time) {
	c.statusMu.Lock()
	changed := c.status.Loading || !errors.Is(c.status.Err, err)
	c.status.Loading = false
	c.status.Err = err
	if err == nil {
		c.status.LastSyncedAt = at
	}
	c.statusMu.Unlock()

	if changed {
		c.notify()
	}
}
