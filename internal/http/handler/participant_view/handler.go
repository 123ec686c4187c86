package participantview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Handler реализует POST /participant/view?token=.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/view", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	token, err := common.QueryToken(r)
	if err != nil {
		return err
	}
	assignment, err := h.useCase.MarkViewed(r.Context(), token)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, map[string]domain.Assignment{"assignment": assignment})
	return nil
}
