package randomizer

import (
	"math/rand"
	"sync"
	"time"
)

type randomizerImpl struct {
	mu  sync.Mutex // Защищает доступ к генератору случайных чисел
	rnd *rand.Rand
}

// New создаёт потокобезопасный randomizer, засеянный текущим временем.
// Криптостойкость для жеребьёвки не требуется.
func New() Randomizer {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed создаёт randomizer с фиксированным seed (воспроизводимые прогоны в тестах).
func NewWithSeed(seed int64) Randomizer {
	return &randomizerImpl{
		rnd: rand.New(rand.NewSource(seed)), // #nosec G404
	}
}

// Shuffle перемешивает n элементов алгоритмом Fisher-Yates:
// идём с последней позиции к первой и меняем i с равномерно выбранным j из [0, i].
func (r *randomizerImpl) Shuffle(n int, swap func(i, j int)) {
	if n <= 1 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := r.rnd.Intn(i + 1)
		swap(i, j)
	}
}
