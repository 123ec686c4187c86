package roomdelete

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Handler реализует DELETE /rooms/{room_id}.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Delete("/{room_id}", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	adminToken, err := common.AdminToken(r)
	if err != nil {
		return err
	}
	if err := h.useCase.DeleteRoom(r.Context(), chi.URLParam(r, "room_id"), adminToken); err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Room deleted"})
	return nil
}
