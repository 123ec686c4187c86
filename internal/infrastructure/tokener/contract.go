package tokener

// Tokener выдаёт идентификаторы и секретные токены для ссылок.
type Tokener interface {
	NewID() string
	NewToken() string
}
