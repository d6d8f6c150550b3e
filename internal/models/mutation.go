package models

// Op тип операции над коллекцией
type Op string

// Операции, которые понимает reconciler
const (
	OpUpsert  Op = "upsert"  // создание или обновление одной записи
	OpDelete  Op = "delete"  // удаление одной записи
	OpReplace Op = "replace" // полная замена коллекции (результат poll)
)

// Mutation представляет нормализованное входящее изменение коллекции.
// В эту форму приводятся все три источника: подтверждение мутации,
// результат периодического fetch и push-событие из канала.
type Mutation struct {
	Op       Op        // тип операции
	ID       string    // идентификатор записи (для OpUpsert/OpDelete)
	Entity   *Entity   // запись (для OpUpsert)
	Entities []*Entity // записи (для OpReplace)
}

// UpsertMutation создает мутацию создания/обновления одной записи
func UpsertMutation(e *Entity) *Mutation {
	return &Mutation{Op: OpUpsert, ID: e.ID, Entity: e}
}

// DeleteMutation создает мутацию удаления записи
func DeleteMutation(id string) *Mutation {
	return &Mutation{Op: OpDelete, ID: id}
}

// ReplaceMutation создает мутацию полной замены коллекции
func ReplaceMutation(entities []*Entity) *Mutation {
	return &Mutation{Op: OpReplace, Entities: entities}
}
