package tokener

import (
	"strings"

	"github.com/google/uuid"
)

type tokenerImpl struct{}

// New создаёт генератор на основе UUIDv4.
func New() Tokener {
	return &tokenerImpl{}
}

// NewID возвращает UUID в каноническом виде (идентификаторы комнат и назначений).
func (t *tokenerImpl) NewID() string {
	return uuid.NewString()
}

// NewToken возвращает токен доступа без дефисов, чтобы его было удобно вставлять в ссылку.
func (t *tokenerImpl) NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
