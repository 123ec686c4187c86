// Package derangement строит распределение "кто кому дарит" без самоназначений.
//
// Генерация двухфазная: сначала ограниченное число попыток случайной
// перестановки с проверкой отсутствия неподвижных точек, затем
// детерминированный циклический сдвиг, который корректен для любого N >= 2.
package derangement

import (
	"errors"
	"fmt"

	"github.com/Blaxzter/secret-santa/internal/infrastructure/randomizer"
)

// DefaultMaxAttempts число попыток случайной перестановки до перехода к сдвигу.
const DefaultMaxAttempts = 100

// MinParticipants минимальный размер входа, для которого существует распределение.
const MinParticipants = 2

var (
	// ErrInsufficientParticipants меньше двух участников: без самоназначения не обойтись.
	ErrInsufficientParticipants = errors.New("at least 2 participants required")
	// ErrGenerationExhausted обе фазы не дали корректного результата. Означает ошибку в логике.
	ErrGenerationExhausted = errors.New("could not create valid assignment")

	ErrLengthMismatch = errors.New("receivers length differs from participants")
	ErrFixedPoint     = errors.New("participant assigned to themselves")
	ErrNotPermutation = errors.New("receivers are not a permutation of participants")
)

// Result результат жеребьёвки вместе со статистикой генерации.
type Result struct {
	Receivers []string // Receivers[i] получатель подарка от participants[i]
	Attempts  int      // сколько случайных перестановок было проверено
	Fallback  bool     // true, если сработал циклический сдвиг
}

// Generator выполняет жеребьёвку. Безопасен для конкурентного использования,
// если таков переданный Randomizer.
type Generator struct {
	rnd         randomizer.Randomizer
	maxAttempts int
}

// New создаёт генератор. maxAttempts <= 0 заменяется на DefaultMaxAttempts.
func New(rnd randomizer.Randomizer, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{rnd: rnd, maxAttempts: maxAttempts}
}

// Generate возвращает получателей для participants: результат той же длины,
// перестановка входа, и result[i] != participants[i] для всех i.
func (g *Generator) Generate(participants []string) ([]string, error) {
	res, err := g.GenerateWithStats(participants)
	if err != nil {
		return nil, err
	}
	return res.Receivers, nil
}

// GenerateWithStats то же, что Generate, но дополнительно сообщает число попыток и факт fallback.
func (g *Generator) GenerateWithStats(participants []string) (Result, error) {
	if len(participants) < MinParticipants {
		return Result{}, ErrInsufficientParticipants
	}

	shuffled := make([]string, len(participants))
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		copy(shuffled, participants)
		g.rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if !hasFixedPoint(participants, shuffled) {
			return Result{Receivers: shuffled, Attempts: attempt}, nil
		}
	}

	rotated := Rotate(participants)
	if err := Validate(participants, rotated); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGenerationExhausted, err)
	}
	return Result{Receivers: rotated, Attempts: g.maxAttempts, Fallback: true}, nil
}

// Rotate циклический сдвиг на одну позицию: result[i] = participants[(i+1) mod N].
func Rotate(participants []string) []string {
	n := len(participants)
	result := make([]string, n)
	for i := range participants {
		result[i] = participants[(i+1)%n]
	}
	return result
}

// Validate проверяет, что receivers является перестановкой participants без неподвижных точек.
func Validate(participants, receivers []string) error {
	if len(participants) != len(receivers) {
		return ErrLengthMismatch
	}
	if i := fixedPoint(participants, receivers); i >= 0 {
		return fmt.Errorf("%w: %q at position %d", ErrFixedPoint, participants[i], i)
	}
	counts := make(map[string]int, len(participants))
	for _, name := range participants {
		counts[name]++
	}
	for _, name := range receivers {
		counts[name]--
		if counts[name] < 0 {
			return fmt.Errorf("%w: %q", ErrNotPermutation, name)
		}
	}
	return nil
}

func hasFixedPoint(participants, receivers []string) bool {
	return fixedPoint(participants, receivers) >= 0
}

// fixedPoint индекс первой неподвижной точки или -1.
func fixedPoint(participants, receivers []string) int {
	for i := range participants {
		if participants[i] == receivers[i] {
			return i
		}
	}
	return -1
}
