package remote

import (
	"context"
	"encoding/json"

	"github.com/iudanet/livesync/internal/models"
)

//go:generate moq -out collection_mock.go . Collection

// Collection defines the remote CRUD transport for a synchronized
// resource collection. Все методы могут вернуть ошибку; причина отказа
// передается вызывающему без изменений (обернутая для контекста).
type Collection interface {
	// List возвращает полный список ресурсов, отфильтрованный filter
	List(ctx context.Context, filter map[string]string) ([]*models.Entity, error)

	// Create создает ресурс и возвращает запись с серверным ID и версией
	Create(ctx context.Context, payload json.RawMessage) (*models.Entity, error)

	// Update применяет частичный patch и возвращает подтвержденную запись
	Update(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error)

	// Delete удаляет ресурс по ID
	Delete(ctx context.Context, id string) error
}
