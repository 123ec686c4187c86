package roomupdate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

// Список участников после создания не меняется: для другого состава создаётся новая комната.
type request struct {
	RoomName   *string  `json:"room_name"`
	PriceLimit *float64 `json:"price_limit"`
}

// Handler реализует PATCH /rooms/{room_id}.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Patch("/{room_id}", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	adminToken, err := common.AdminToken(r)
	if err != nil {
		return err
	}
	var req request
	if err := common.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	patch := domain.RoomPatch{Name: req.RoomName, PriceLimit: req.PriceLimit}
	if patch.Empty() {
		return common.NewBadRequestError(common.CodeValidation, "no valid fields to update")
	}
	room, err := h.useCase.UpdateRoom(r.Context(), chi.URLParam(r, "room_id"), adminToken, patch)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, map[string]domain.Room{"room": room})
	return nil
}
