package participantget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Handler реализует GET /participant?token=.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	token, err := common.QueryToken(r)
	if err != nil {
		return err
	}
	view, err := h.useCase.GetParticipantView(r.Context(), token)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, view)
	return nil
}
