package participantwishes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

type request struct {
	Wishes *[]string `json:"wishes"`
}

// Handler реализует PUT /participant/wishes?token=.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Put("/wishes", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	token, err := common.QueryToken(r)
	if err != nil {
		return err
	}
	var req request
	if err := common.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.Wishes == nil {
		return common.NewBadRequestError(common.CodeValidation, "wishes field is required")
	}
	assignment, err := h.useCase.UpdateWishes(r.Context(), token, *req.Wishes)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, map[string]domain.Assignment{"assignment": assignment})
	return nil
}
