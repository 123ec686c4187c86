package roomcreate

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	CreateRoom(ctx context.Context, in domain.NewRoom) (domain.RoomWithAssignments, error)
}
