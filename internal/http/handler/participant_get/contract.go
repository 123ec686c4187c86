package participantget

import (
	"context"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type UseCase interface {
	GetParticipantView(ctx context.Context, token string) (domain.ParticipantView, error)
}
