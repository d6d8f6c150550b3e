package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ErrMissingID возвращается, когда JSON объект ресурса не содержит поля "id"
var ErrMissingID = errors.New("resource object has no id field")

// Entity представляет одну запись синхронизируемой коллекции.
// Запись непрозрачна для движка синхронизации: движку важны только
// идентификатор и версия, остальные поля живут в Data как сырой JSON.
type Entity struct {
	ID      string          `json:"id"`      // ID уникальный идентификатор записи
	Data    json.RawMessage `json:"data"`    // Data полный JSON объект ресурса
	Version int64           `json:"version"` // Version монотонно растущая версия записи
	Pending bool            `json:"pending"` // Pending запись изменена локально и еще не подтверждена сервером
}

// EntityFromJSON разбирает сырой JSON объект ресурса в Entity.
// Объект обязан содержать строковое поле "id"; поле "version"
// опционально (отсутствие трактуется как 0).
func EntityFromJSON(raw json.RawMessage) (*Entity, error) {
	var probe struct {
		ID      string `json:"id"`
		Version int64  `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse resource object: %w", err)
	}
	if probe.ID == "" {
		return nil, ErrMissingID
	}

	data := make(json.RawMessage, len(raw))
	copy(data, raw)

	return &Entity{
		ID:      probe.ID,
		Version: probe.Version,
		Data:    data,
	}, nil
}

// Clone создает глубокую копию записи
func (e *Entity) Clone() *Entity {
	data := make(json.RawMessage, len(e.Data))
	copy(data, e.Data)

	return &Entity{
		ID:      e.ID,
		Data:    data,
		Version: e.Version,
		Pending: e.Pending,
	}
}

// Equal сравнивает две записи по значению: идентификатор, версия,
// флаг pending и структурное равенство JSON данных (порядок ключей
// не влияет на результат).
func (e *Entity) Equal(other *Entity) bool {
	if other == nil {
		return false
	}
	if e.ID != other.ID || e.Version != other.Version || e.Pending != other.Pending {
		return false
	}
	return jsonEqual(e.Data, other.Data)
}

// MergePatch накладывает частичный JSON объект patch на data.
// Слияние неглубокое: ключи верхнего уровня из patch заменяют
// соответствующие ключи data.
func MergePatch(data, patch json.RawMessage) (json.RawMessage, error) {
	base := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &base); err != nil {
			return nil, fmt.Errorf("failed to parse entity data: %w", err)
		}
	}

	var overlay map[string]any
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse patch: %w", err)
	}

	for k, v := range overlay {
		base[k] = v
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged data: %w", err)
	}

	return merged, nil
}

// jsonEqual проверяет структурное равенство двух JSON документов.
// Если хотя бы один документ не разбирается, сравниваются байты.
func jsonEqual(a, b json.RawMessage) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}

	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return bytes.Equal(a, b)
	}

	return reflect.DeepEqual(av, bv)
}
