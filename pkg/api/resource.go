package api

import "encoding/json"

// Имена push-событий, доставляемых по именованному каналу.
// Сервер публикует их при каждом изменении коллекции.
const (
	EventResourceCreated  = "resource-created"
	EventResourceUpdated  = "resource-updated"
	EventResourceDeleted  = "resource-deleted"
	EventResourceReplaced = "resource-replaced"
)

// ListResponse представляет ответ сервера на запрос списка ресурсов
type ListResponse struct {
	Items []json.RawMessage `json:"items"` // сырые JSON объекты ресурсов
}

// ResourceDeleted представляет payload события resource-deleted
type ResourceDeleted struct {
	ID string `json:"id"` // идентификатор удаленного ресурса
}

// ResourceReplaced представляет payload события resource-replaced
// (полная замена коллекции одним событием)
type ResourceReplaced struct {
	Items []json.RawMessage `json:"items"` // сырые JSON объекты ресурсов
}

// ErrorResponse представляет ответ сервера с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
