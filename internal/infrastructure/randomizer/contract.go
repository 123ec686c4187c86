package randomizer

// Randomizer источник случайности для жеребьёвки.
// Shuffle должен быть несмещённым (Fisher-Yates).
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
}
