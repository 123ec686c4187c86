package roomlist

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	ListRooms(ctx context.Context, ownerID string) ([]domain.Room, error)
}
