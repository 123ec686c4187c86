package roomadminget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Handler реализует GET /rooms/admin?token=.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/admin", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	token, err := common.QueryToken(r)
	if err != nil {
		return err
	}
	res, err := h.useCase.GetRoomAdmin(r.Context(), token)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, res)
	return nil
}
