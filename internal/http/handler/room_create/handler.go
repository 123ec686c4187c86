package roomcreate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
)

type request struct {
	RoomName         string          `json:"room_name"`
	ParticipantNames []string        `json:"participant_names"`
	PriceLimit       float64         `json:"price_limit"`
	Currency         domain.Currency `json:"currency"`
	Language         domain.Language `json:"language"`
	OwnerID          string          `json:"owner_id"`
}

// Handler реализует POST /rooms.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	var req request
	if err := common.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.RoomName == "" || len(req.ParticipantNames) == 0 {
		return common.NewBadRequestError(common.CodeValidation, "room_name and participant_names are required")
	}
	res, err := h.useCase.CreateRoom(r.Context(), domain.NewRoom{
		Name:             req.RoomName,
		ParticipantNames: req.ParticipantNames,
		PriceLimit:       req.PriceLimit,
		Currency:         req.Currency,
		Language:         req.Language,
		OwnerID:          req.OwnerID,
	})
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusCreated, res)
	return nil
}
