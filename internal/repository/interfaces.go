package repository

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

// Repository объединяет все доменные репозитории.
type Repository interface {
	RoomRepository
	AssignmentRepository
}

// RoomRepository содержит операции для работы с комнатами.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error)
	GetRoomByID(ctx context.Context, roomID string) (domain.Room, error)
	GetRoomByAdminToken(ctx context.Context, adminToken string) (domain.Room, error)
	LockRoom(ctx context.Context, roomID string) (domain.Room, error)
	ListRoomsByOwner(ctx context.Context, ownerID string) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, roomID string, patch domain.RoomPatch) (domain.Room, error)
	MarkRoomDrawn(ctx context.Context, roomID string) error
	DeleteRoom(ctx context.Context, roomID string) error
}

// AssignmentRepository содержит операции для работы с назначениями.
type AssignmentRepository interface {
	CreateAssignments(ctx context.Context, assignments []domain.Assignment) error
	ListAssignmentsByRoom(ctx context.Context, roomID string) ([]domain.Assignment, error)
	GetAssignmentByToken(ctx context.Context, token string) (domain.Assignment, error)
	GetWishes(ctx context.Context, roomID, participantName string) ([]string, error)
	UpdateDrawnNames(ctx context.Context, assignments []domain.Assignment) error
	MarkViewed(ctx context.Context, token string) (domain.Assignment, error)
	UpdateWishes(ctx context.Context, token string, wishes []string) (domain.Assignment, error)
}

// HealthChecker описывает метод проверки соединения.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
