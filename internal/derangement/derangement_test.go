package derangement

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Blaxzter/secret-santa/internal/infrastructure/randomizer"
)

// noopRandomizer никогда не переставляет элементы: каждая попытка даёт тождественную перестановку.
type noopRandomizer struct {
	calls int
}

func (r *noopRandomizer) Shuffle(n int, swap func(i, j int)) {
	r.calls++
}

// reverseRandomizer разворачивает вход: для чётного N это всегда корректное распределение.
type reverseRandomizer struct{}

func (reverseRandomizer) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func names(n int) []string {
	result := make([]string, n)
	for i := range result {
		result[i] = fmt.Sprintf("p%04d", i)
	}
	return result
}

func requireDerangement(t *testing.T, participants, receivers []string) {
	t.Helper()
	require.Len(t, receivers, len(participants))
	for i := range participants {
		require.NotEqual(t, participants[i], receivers[i], "fixed point at %d", i)
	}
	sortedIn := append([]string(nil), participants...)
	sortedOut := append([]string(nil), receivers...)
	sort.Strings(sortedIn)
	sort.Strings(sortedOut)
	require.Equal(t, sortedIn, sortedOut)
}

func TestGenerateRejectsTooFewParticipants(t *testing.T) {
	g := New(randomizer.New(), DefaultMaxAttempts)

	_, err := g.Generate(nil)
	require.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = g.Generate([]string{})
	require.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = g.Generate([]string{"Anna"})
	require.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestGenerateTwoParticipantsAlwaysSwap(t *testing.T) {
	g := New(randomizer.New(), DefaultMaxAttempts)
	for i := 0; i < 100; i++ {
		receivers, err := g.Generate([]string{"A", "B"})
		require.NoError(t, err)
		require.Equal(t, []string{"B", "A"}, receivers)
	}
}

func TestGenerateThreeParticipantsOnlyCycles(t *testing.T) {
	g := New(randomizer.NewWithSeed(3), DefaultMaxAttempts)
	input := []string{"A", "B", "C"}
	seen := map[string]int{}

	for i := 0; i < 1000; i++ {
		receivers, err := g.Generate(input)
		require.NoError(t, err)
		key := strings.Join(receivers, ",")
		require.Contains(t, []string{"B,C,A", "C,A,B"}, key)
		seen[key]++
	}

	require.Greater(t, seen["B,C,A"], 0)
	require.Greater(t, seen["C,A,B"], 0)
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	g := New(randomizer.New(), DefaultMaxAttempts)
	input := []string{"Anna", "Ben", "Clara", "David", "Emil"}
	snapshot := append([]string(nil), input...)

	receivers, err := g.Generate(input)
	require.NoError(t, err)
	require.Equal(t, snapshot, input)
	requireDerangement(t, input, receivers)
}

func TestGenerateOutputPassesValidation(t *testing.T) {
	g := New(randomizer.New(), DefaultMaxAttempts)
	for n := 2; n <= 30; n++ {
		input := names(n)
		receivers, err := g.Generate(input)
		require.NoError(t, err)
		require.NoError(t, Validate(input, receivers))
		requireDerangement(t, input, receivers)
	}
}

func TestGenerateFallsBackToRotation(t *testing.T) {
	rnd := &noopRandomizer{}
	g := New(rnd, DefaultMaxAttempts)
	input := []string{"Anna", "Ben", "Clara", "David"}

	res, err := g.GenerateWithStats(input)
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Equal(t, DefaultMaxAttempts, res.Attempts)
	require.Equal(t, DefaultMaxAttempts, rnd.calls)
	require.Equal(t, []string{"Ben", "Clara", "David", "Anna"}, res.Receivers)
}

func TestGenerateHonoursAttemptBound(t *testing.T) {
	rnd := &noopRandomizer{}
	g := New(rnd, 5)

	res, err := g.GenerateWithStats([]string{"A", "B", "C"})
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Equal(t, 5, rnd.calls)

	require.Equal(t, DefaultMaxAttempts, New(rnd, 0).maxAttempts)
	require.Equal(t, DefaultMaxAttempts, New(rnd, -3).maxAttempts)
}

func TestGenerateStopsAtFirstValidPermutation(t *testing.T) {
	g := New(reverseRandomizer{}, DefaultMaxAttempts)

	res, err := g.GenerateWithStats([]string{"A", "B", "C", "D"})
	require.NoError(t, err)
	require.False(t, res.Fallback)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, []string{"D", "C", "B", "A"}, res.Receivers)
}

func TestGenerateDuplicateNamesExhausts(t *testing.T) {
	g := New(&noopRandomizer{}, 3)

	_, err := g.Generate([]string{"A", "A", "B"})
	require.ErrorIs(t, err, ErrGenerationExhausted)
}

func TestRotateIsDerangementForAllSizes(t *testing.T) {
	for n := 2; n <= 50; n++ {
		input := names(n)
		rotated := Rotate(input)
		require.NoError(t, Validate(input, rotated), "n=%d", n)
		requireDerangement(t, input, rotated)
	}
}

func TestRotateTwoIsSwap(t *testing.T) {
	require.Equal(t, []string{"B", "A"}, Rotate([]string{"A", "B"}))
}

func TestValidate(t *testing.T) {
	participants := []string{"A", "B", "C"}

	require.NoError(t, Validate(participants, []string{"B", "C", "A"}))
	require.ErrorIs(t, Validate(participants, []string{"B", "A"}), ErrLengthMismatch)
	require.ErrorIs(t, Validate(participants, []string{"A", "C", "B"}), ErrFixedPoint)
	require.ErrorIs(t, Validate(participants, []string{"B", "A", "A"}), ErrNotPermutation)
	require.ErrorIs(t, Validate(participants, []string{"B", "C", "X"}), ErrNotPermutation)
}

func TestGenerateLargeInput(t *testing.T) {
	g := New(randomizer.New(), DefaultMaxAttempts)
	input := names(1000)

	start := time.Now()
	res, err := g.GenerateWithStats(input)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.False(t, res.Fallback)
	require.LessOrEqual(t, res.Attempts, DefaultMaxAttempts)
	require.Less(t, elapsed, time.Second)
	requireDerangement(t, input, res.Receivers)
}

// Для N=4 существует ровно 9 распределений; отбраковка равномерной
// перестановки должна давать их с равной частотой.
func TestGenerateUniformOverDerangements(t *testing.T) {
	g := New(randomizer.NewWithSeed(2024), DefaultMaxAttempts)
	input := []string{"A", "B", "C", "D"}
	const trials = 9000

	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		receivers, err := g.Generate(input)
		require.NoError(t, err)
		counts[strings.Join(receivers, "")]++
	}
	require.Len(t, counts, 9)

	observed := make([]float64, 0, len(counts))
	expected := make([]float64, 0, len(counts))
	for _, c := range counts {
		observed = append(observed, float64(c))
		expected = append(expected, trials/9.0)
	}
	chi := stat.ChiSquare(observed, expected)
	pValue := 1 - distuv.ChiSquared{K: float64(len(counts) - 1)}.CDF(chi)
	require.Greater(t, pValue, 0.001, "chi-square=%f", chi)
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := New(randomizer.New(), DefaultMaxAttempts)
	input := names(12)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				receivers, err := g.Generate(input)
				if err == nil {
					err = Validate(input, receivers)
				}
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
