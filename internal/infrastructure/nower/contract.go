package nower

import "time"

// Nower источник текущего времени (дата создания комнаты).
// Вынесен в интерфейс, чтобы в тестах подставлять фиксированное время.
type Nower interface {
	Now() time.Time
}
