package participantwishes

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	UpdateWishes(ctx context.Context, token string, wishes []string) (domain.Assignment, error)
}
