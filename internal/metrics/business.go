package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "secret_santa"

var (
	roomsCreated = promauto.NewCounter(
		counterOpts("rooms_created_total", "Total number of created rooms"),
	)
	roomsDeleted = promauto.NewCounter(
		counterOpts("rooms_deleted_total", "Total number of deleted rooms"),
	)
	participantsRegistered = promauto.NewCounter(
		counterOpts("participants_registered_total", "Total number of participants across created rooms"),
	)
	reshuffles = promauto.NewCounter(
		counterOpts("reshuffles_total", "Total number of room reshuffles"),
	)
	reveals = promauto.NewCounter(
		counterOpts("assignments_revealed_total", "Total number of first-time assignment reveals"),
	)
	wishesUpdates = promauto.NewCounter(
		counterOpts("wishes_updates_total", "Total number of wish list updates"),
	)
	drawFallbacks = promauto.NewCounter(
		counterOpts("draw_fallbacks_total", "Draws resolved by the deterministic rotation"),
	)
	drawAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "draw_attempts",
		Help:      "Random permutations tried per draw.",
		Buckets:   []float64{1, 2, 3, 4, 5, 10, 20, 50, 100},
	})
)

// IncRoomsCreated увеличивает счётчик созданных комнат.
func IncRoomsCreated() {
	roomsCreated.Inc()
}

// IncRoomsDeleted увеличивает счётчик удалённых комнат.
func IncRoomsDeleted() {
	roomsDeleted.Inc()
}

// AddParticipantsRegistered увеличивает счётчик зарегистрированных участников.
func AddParticipantsRegistered(delta int) {
	if delta <= 0 {
		return
	}
	participantsRegistered.Add(float64(delta))
}

// IncReshuffles увеличивает счётчик перетасовок.
func IncReshuffles() {
	reshuffles.Inc()
}

// IncReveals увеличивает счётчик первых просмотров назначения.
func IncReveals() {
	reveals.Inc()
}

// IncWishesUpdates увеличивает счётчик обновлений списка желаний.
func IncWishesUpdates() {
	wishesUpdates.Inc()
}

// ObserveDraw фиксирует статистику одной жеребьёвки.
func ObserveDraw(attempts int, fallback bool) {
	drawAttempts.Observe(float64(attempts))
	if fallback {
		drawFallbacks.Inc()
	}
}

func counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}
}
