package roomreshuffle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Blaxzter/secret-santa/internal/derangement"
	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

type stubUseCase struct {
	err error
}

func (s stubUseCase) Reshuffle(ctx context.Context, roomID, adminToken string) (domain.RoomWithAssignments, error) {
	if s.err != nil {
		return domain.RoomWithAssignments{}, s.err
	}
	return domain.RoomWithAssignments{
		Room: domain.Room{ID: roomID, IsDrawn: true},
		Assignments: []domain.Assignment{
			{ParticipantName: "A", DrawnName: "B"},
			{ParticipantName: "B", DrawnName: "A"},
		},
	}, nil
}

func serve(useCase UseCase) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Route("/rooms", New(useCase).Register)
	req := httptest.NewRequest(http.MethodPost, "/rooms/room-1/reshuffle", nil)
	req.Header.Set(common.AdminTokenHeader, "admin")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Reshuffles(t *testing.T) {
	t.Parallel()

	rec := serve(stubUseCase{})
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.RoomWithAssignments
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Room.IsDrawn)
	require.Len(t, body.Assignments, 2)
}

func TestHandler_InsufficientParticipants(t *testing.T) {
	t.Parallel()

	rec := serve(stubUseCase{err: derangement.ErrInsufficientParticipants})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), common.CodeInsufficientParticipants)
}

func TestHandler_GenerationExhaustedIsInternal(t *testing.T) {
	t.Parallel()

	rec := serve(stubUseCase{err: derangement.ErrGenerationExhausted})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
