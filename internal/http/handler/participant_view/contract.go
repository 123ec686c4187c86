package participantview

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	MarkViewed(ctx context.Context, token string) (domain.Assignment, error)
}
