package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Blaxzter/secret-santa/internal/http/handler/common"
	participantget "github.com/Blaxzter/secret-santa/internal/http/handler/participant_get"
	participantview "github.com/Blaxzter/secret-santa/internal/http/handler/participant_view"
	participantwishes "github.com/Blaxzter/secret-santa/internal/http/handler/participant_wishes"
	roomadminget "github.com/Blaxzter/secret-santa/internal/http/handler/room_admin_get"
	roomcreate "github.com/Blaxzter/secret-santa/internal/http/handler/room_create"
	roomdelete "github.com/Blaxzter/secret-santa/internal/http/handler/room_delete"
	roomlist "github.com/Blaxzter/secret-santa/internal/http/handler/room_list"
	roomreshuffle "github.com/Blaxzter/secret-santa/internal/http/handler/room_reshuffle"
	roomupdate "github.com/Blaxzter/secret-santa/internal/http/handler/room_update"
	"github.com/Blaxzter/secret-santa/internal/http/middleware"
	"github.com/Blaxzter/secret-santa/internal/http/swagger"
	"github.com/Blaxzter/secret-santa/internal/service"
)

// Handler агрегирует HTTP-эндпоинты.
type Handler struct {
	service       *service.Service
	swaggerSpec   []byte
	allowedOrigin string
}

func New(service *service.Service, spec []byte, allowedOrigin string) *Handler {
	return &Handler{service: service, swaggerSpec: spec, allowedOrigin: allowedOrigin}
}

// Router возвращает готовый chi.Router со всеми зарегистрированными маршрутами и middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	// Middleware применяются в порядке объявления
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.PanicMiddleware)
	r.Use(middleware.CORS(h.allowedOrigin))
	r.Use(middleware.LoggerMiddleware)
	r.Use(middleware.MetricsMiddleware)
	swagger.RegisterRoutes(r, h.swaggerSpec)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.HealthCheck(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	h.registerRoomRoutes(r)
	h.registerParticipantRoutes(r)

	return r
}

func (h *Handler) registerRoomRoutes(r chi.Router) {
	r.Route("/rooms", func(router chi.Router) {
		roomcreate.New(h.service).Register(router)
		roomlist.New(h.service).Register(router)
		roomadminget.New(h.service).Register(router)
		roomupdate.New(h.service).Register(router)
		roomdelete.New(h.service).Register(router)
		roomreshuffle.New(h.service).Register(router)
	})
}

func (h *Handler) registerParticipantRoutes(r chi.Router) {
	r.Route("/participant", func(router chi.Router) {
		participantget.New(h.service).Register(router)
		participantview.New(h.service).Register(router)
		participantwishes.New(h.service).Register(router)
	})
}
