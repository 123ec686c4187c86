package roomupdate

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	UpdateRoom(ctx context.Context, roomID, adminToken string, patch domain.RoomPatch) (domain.Room, error)
}
