package roomadminget

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	GetRoomAdmin(ctx context.Context, adminToken string) (domain.RoomWithAssignments, error)
}
