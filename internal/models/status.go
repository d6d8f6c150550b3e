package models

import "time"

// SyncStatus представляет состояние синхронизации коллекции.
// Изменяется poll scheduler-ом и reconciler-ом, для UI доступен
// только на чтение.
type SyncStatus struct {
	LastSyncedAt time.Time // время последнего успешного fetch
	Err          error     // последняя ошибка синхронизации (nil если все в порядке)
	Loading      bool      // true до завершения первого fetch
}
