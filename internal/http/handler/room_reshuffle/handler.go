package roomreshuffle

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Handler реализует POST /rooms/{room_id}/reshuffle.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/{room_id}/reshuffle", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	adminToken, err := common.AdminToken(r)
	if err != nil {
		return err
	}
	res, err := h.useCase.Reshuffle(r.Context(), chi.URLParam(r, "room_id"), adminToken)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, res)
	return nil
}
