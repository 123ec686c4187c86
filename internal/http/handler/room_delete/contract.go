package roomdelete

import "context"

type UseCase interface {
	DeleteRoom(ctx context.Context, roomID, adminToken string) error
}
