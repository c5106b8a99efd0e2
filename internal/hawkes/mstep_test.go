package hawkes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateParams(t *testing.T) {
	t.Parallel()

	times := []float64{0.0, 1.0, 2.0, 10.0}
	params := Params{Mu: 0.9, A: 0.8, B: 0.5}

	iterate := func(t *testing.T) (Stats, float64) {
		t.Helper()
		g, err := NewDenseGaps(times)
		require.NoError(t, err)
		r, err := ComputeResponsibilities(g, params, 1)
		require.NoError(t, err)
		return ReduceStats(r, g), Horizon(times)
	}

	t.Run("produces strictly positive parameters", func(t *testing.T) {
		t.Parallel()
		st, horizon := iterate(t)

		next, err := UpdateParams(st, times, horizon, params.B)
		require.NoError(t, err)
		assert.Greater(t, next.Mu, 0.0)
		assert.Greater(t, next.A, 0.0)
		assert.Greater(t, next.B, 0.0)
		assert.False(t, math.IsNaN(next.Mu) || math.IsNaN(next.A) || math.IsNaN(next.B))
	})

	t.Run("mu is background mass over elapsed time", func(t *testing.T) {
		t.Parallel()
		st, horizon := iterate(t)

		next, err := UpdateParams(st, times, horizon, params.B)
		require.NoError(t, err)
		assert.InDelta(t, st.Background/horizon, next.Mu, 1e-12)
	})

	t.Run("fitted b is a root of the stationarity equation", func(t *testing.T) {
		t.Parallel()
		st, horizon := iterate(t)

		next, err := UpdateParams(st, times, horizon, params.B)
		require.NoError(t, err)

		obj := decayObjective{t: times, horizon: horizon, s1: st.Triggered, s2: st.Exposure}
		val, _, err := obj.eval(next.B)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, val, 1e-6)
	})

	t.Run("a satisfies its closed form at the fitted b", func(t *testing.T) {
		t.Parallel()
		st, horizon := iterate(t)

		next, err := UpdateParams(st, times, horizon, params.B)
		require.NoError(t, err)

		var survivor float64
		for _, ti := range times {
			survivor += 1 - math.Exp(-next.B*(horizon-ti))
		}
		assert.InDelta(t, next.B*st.Triggered/survivor, next.A, 1e-12)
	})

	t.Run("near-zero triggered mass is a degenerate condition", func(t *testing.T) {
		t.Parallel()
		st := Stats{Background: 4, Triggered: 0, Exposure: 0}
		_, err := UpdateParams(st, times, 10.0, 0.5)
		assert.ErrorIs(t, err, ErrDegenerate)

		st = Stats{Background: 4 - 1e-12, Triggered: 1e-12, Exposure: -1e-12}
		_, err = UpdateParams(st, times, 10.0, 0.5)
		assert.ErrorIs(t, err, ErrDegenerate)
	})

	t.Run("rejects invalid horizon and seed", func(t *testing.T) {
		t.Parallel()
		st := Stats{Background: 2, Triggered: 2, Exposure: -3}

		_, err := UpdateParams(st, times, 0, 0.5)
		assert.ErrorIs(t, err, ErrInvalidSequence)

		_, err = UpdateParams(st, times, 10.0, 0)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestSolveDecay(t *testing.T) {
	t.Parallel()

	t.Run("recovers a planted root", func(t *testing.T) {
		t.Parallel()
		// Build stats so that b* = 2 solves the equation: choose S2 to
		// cancel the other two terms exactly at b = 2.
		times := []float64{0, 0.5, 1.5, 2.5, 4.0, 6.0}
		horizon := Horizon(times)
		const s1, bStar = 3.0, 2.0

		var sumA, sumC float64
		for _, ti := range times {
			w := horizon - ti
			sumA += w * math.Exp(-bStar*w)
			sumC += 1 - math.Exp(-bStar*w)
		}
		s2 := s1*sumA/sumC - s1/bStar

		obj := decayObjective{t: times, horizon: horizon, s1: s1, s2: s2}
		got, err := solveDecay(obj, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, bStar, got, 1e-6)
	})

	t.Run("converges from seeds on either side", func(t *testing.T) {
		t.Parallel()
		times := []float64{0, 1, 2, 3, 5, 8, 9, 12}
		horizon := Horizon(times)
		obj := decayObjective{t: times, horizon: horizon, s1: 4, s2: -6}

		fromBelow, err := solveDecay(obj, 0.1)
		require.NoError(t, err)
		fromAbove, err := solveDecay(obj, 5.0)
		require.NoError(t, err)
		assert.InDelta(t, fromBelow, fromAbove, 1e-6)
	})
}
