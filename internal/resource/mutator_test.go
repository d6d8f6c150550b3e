package resource

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/livesync/internal/models"
	"github.com/iudanet/livesync/internal/remote"
)

// seed наполняет коллекцию через fetch
func seed(t *testing.T, c *Collection, mock *remote.CollectionMock, entities ...*models.Entity) {
	t.Helper()

	prev := mock.ListFunc
	mock.ListFunc = func(ctx context.Context, filter map[string]string) ([]*models.Entity, error) {
		return entities, nil
	}
	require.NoError(t, c.fetchOnce(context.Background()))
	mock.ListFunc = prev
}

func TestCreate_OptimisticThenConfirmed(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	mock := emptyListMock()
	mock.CreateFunc = func(ctx context.Context, payload json.RawMessage) (*models.Entity, error) {
		close(started)
		<-release
		return entity("srv-1", 1, "X"), nil
	}

	c := newCollection(t, mock)
	defer c.Close()

	done := make(chan error, 1)
	go func() {
		done <- c.Create(context.Background(), json.RawMessage(`{"name":"X"}`))
	}()

	<-started

	// Временная запись видна сразу, помечена pending
	data := c.Data()
	require.Len(t, data, 1)
	assert.True(t, strings.HasPrefix(data[0].ID, tempIDPrefix))
	assert.True(t, data[0].Pending)

	close(release)
	require.NoError(t, <-done)

	// Серверная запись заменила временную
	data = c.Data()
	require.Len(t, data, 1)
	assert.Equal(t, "srv-1", data[0].ID)
	assert.False(t, data[0].Pending)
	assert.Equal(t, int64(1), data[0].Version)
}

func TestCreate_FailureLeavesNoPartialState(t *testing.T) {
	mock := emptyListMock()
	mock.CreateFunc = func(ctx context.Context, payload json.RawMessage) (*models.Entity, error) {
		return nil, &remote.ValidationError{Message: "name is required"}
	}

	c := newCollection(t, mock)
	defer c.Close()

	err := c.Create(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, remote.IsValidation(err))

	assert.Empty(t, c.Data())
	assert.Error(t, c.Status().Err)
}

func TestUpdate_RollbackIsExact(t *testing.T) {
	// Сценарий из продуктовых требований: оптимистичное обновление,
	// сервер отвечает сетевой ошибкой, состояние откатывается дословно
	mock := emptyListMock()
	mock.UpdateFunc = func(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error) {
		return nil, &remote.NetworkError{Err: errors.New("connection reset")}
	}

	c := newCollection(t, mock)
	defer c.Close()
	seed(t, c, mock, entity("a", 1, "X"))

	before := c.Data()

	err := c.Update(context.Background(), "a", json.RawMessage(`{"name":"Y"}`))
	require.Error(t, err)
	assert.True(t, remote.IsNetwork(err))

	// Снимок восстановлен дословно
	after := c.Data()
	require.Len(t, after, 1)
	assert.Equal(t, before, after)
	assert.Equal(t, int64(1), after[0].Version)
	assert.JSONEq(t, `{"id":"a","version":1,"name":"X"}`, string(after[0].Data))

	assert.Error(t, c.Status().Err)
}

func TestUpdate_OptimisticStateVisibleImmediately(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	mock := emptyListMock()
	mock.UpdateFunc = func(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error) {
		close(started)
		<-release
		return entity("a", 2, "Y"), nil
	}

	c := newCollection(t, mock)
	defer c.Close()
	seed(t, c, mock, entity("a", 1, "X"))

	done := make(chan error, 1)
	go func() {
		done <- c.Update(context.Background(), "a", json.RawMessage(`{"name":"Y"}`))
	}()

	<-started

	// Patch применен локально до подтверждения
	got := c.Get("a")
	require.NotNil(t, got)
	assert.True(t, got.Pending)
	assert.Contains(t, string(got.Data), `"name":"Y"`)

	close(release)
	require.NoError(t, <-done)

	got = c.Get("a")
	assert.False(t, got.Pending)
	assert.Equal(t, int64(2), got.Version)
	assert.NoError(t, c.Status().Err)
}

func TestUpdate_MissingEntity(t *testing.T) {
	c := newCollection(t, emptyListMock())
	defer c.Close()

	err := c.Update(context.Background(), "ghost", json.RawMessage(`{"name":"Y"}`))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_RollbackRestoresPosition(t *testing.T) {
	mock := emptyListMock()
	mock.DeleteFunc = func(ctx context.Context, id string) error {
		return &remote.NetworkError{Err: errors.New("timeout")}
	}

	c := newCollection(t, mock)
	defer c.Close()
	seed(t, c, mock,
		entity("a", 1, "A"),
		entity("b", 1, "B"),
		entity("c", 1, "C"),
	)

	err := c.Remove(context.Background(), "b")
	require.Error(t, err)

	// Запись вернулась на свое место, а не в конец
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Data()))
}

func TestRemove_OptimisticThenConfirmed(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	mock := emptyListMock()
	mock.DeleteFunc = func(ctx context.Context, id string) error {
		close(started)
		<-release
		return nil
	}

	c := newCollection(t, mock)
	defer c.Close()
	seed(t, c, mock, entity("a", 1, "A"), entity("b", 1, "B"))

	done := make(chan error, 1)
	go func() {
		done <- c.Remove(context.Background(), "a")
	}()

	<-started
	// Запись ушла из коллекции сразу
	assert.Equal(t, []string{"b"}, ids(c.Data()))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"b"}, ids(c.Data()))
}

func TestSameID_OperationsSerialize(t *testing.T) {
	var (
		mu         sync.Mutex
		inFlight   int
		maxFlight  int
		callOrder  []string
		firstStart = make(chan struct{})
		release    = make(chan struct{})
	)

	mock := emptyListMock()
	mock.UpdateFunc = func(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxFlight {
			maxFlight = inFlight
		}
		callOrder = append(callOrder, string(patch))
		if len(callOrder) == 1 {
			close(firstStart)
		}
		mu.Unlock()

		<-release

		mu.Lock()
		inFlight--
		mu.Unlock()
		return entity("a", 2, "done"), nil
	}

	c := newCollection(t, mock)
	defer c.Close()
	seed(t, c, mock, entity("a", 1, "A"))

	done := make(chan error, 2)
	go func() { done <- c.Update(context.Background(), "a", json.RawMessage(`{"step":1}`)) }()
	<-firstStart
	go func() { done <- c.Update(context.Background(), "a", json.RawMessage(`{"step":2}`)) }()

	// Вторая операция ждет в очереди, пока первая в полете
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Len(t, callOrder, 1)
	mu.Unlock()

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, []string{`{"step":1}`, `{"step":2}`}, callOrder)
	assert.Equal(t, 1, maxFlight)
	mu.Unlock()
}

func TestDifferentIDs_RunConcurrently(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight = map[string]bool{}
		both     = make(chan struct{})
		release  = make(chan struct{})
	)

	mock := emptyListMock()
	mock.UpdateFunc = func(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error) {
		mu.Lock()
		inFlight[id] = true
		if len(inFlight) == 2 {
			close(both)
		}
		mu.Unlock()

		<-release
		return entity(id, 2, "done"), nil
	}

	c := newCollection(t, mock)
	defer c.Close()
	seed(t, c, mock, entity("a", 1, "A"), entity("b", 1, "B"))

	done := make(chan error, 2)
	go func() { done <- c.Update(context.Background(), "a", json.RawMessage(`{"x":1}`)) }()
	go func() { done <- c.Update(context.Background(), "b", json.RawMessage(`{"x":1}`)) }()

	// Обе операции в полете одновременно — разные ID не блокируют друг друга
	select {
	case <-both:
	case <-time.After(2 * time.Second):
		t.Fatal("operations on different ids blocked each other")
	}

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)
}

func TestMutationsAfterClose(t *testing.T) {
	c := newCollection(t, emptyListMock())
	c.Close()

	assert.ErrorIs(t, c.Create(context.Background(), json.RawMessage(`{}`)), ErrClosed)
	assert.ErrorIs(t, c.Update(context.Background(), "a", json.RawMessage(`{}`)), ErrClosed)
	assert.ErrorIs(t, c.Remove(context.Background(), "a"), ErrClosed)
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrClosed)
}
