package remote

import (
	"errors"
	"fmt"
)

// NetworkError представляет транзиентную ошибку транспорта: обрыв
// соединения, таймаут, ответ 5xx. Poll scheduler повторяет такие запросы
// на следующем тике; оптимистичные мутации откатываются.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError представляет отказ сервера принять payload (4xx).
// Повторять запрос бессмысленно; оптимистичное состояние откатывается,
// причина отказа отдается вызывающему.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsNetwork проверяет, является ли ошибка транзиентной сетевой ошибкой
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsValidation проверяет, является ли ошибка отказом валидации
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
