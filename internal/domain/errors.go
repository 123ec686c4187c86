package domain

import "errors"

// Доменные ошибки, используемые для обработки бизнес-логики.
// Эти ошибки преобразуются в HTTP-ответы в слое обработчиков.
var (
	ErrRoomNotFound       = errors.New("room not found")       // Комната с таким ID или токеном администратора не найдена.
	ErrAssignmentNotFound = errors.New("assignment not found") // Назначение с таким токеном участника не найдено.
	ErrForbidden          = errors.New("invalid admin token")  // Токен администратора не подходит к комнате.
	ErrValidation         = errors.New("validation failed")    // Входные данные не прошли валидацию.
)
