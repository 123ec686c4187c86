package roomreshuffle

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	Reshuffle(ctx context.Context, roomID, adminToken string) (domain.RoomWithAssignments, error)
}
