package roomlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Handler реализует GET /rooms?owner_id=.
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
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		return common.NewBadRequestError(common.CodeValidation, "owner_id query parameter is required")
	}
	rooms, err := h.useCase.ListRooms(r.Context(), ownerID)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, map[string][]domain.Room{"rooms": rooms})
	return nil
}
