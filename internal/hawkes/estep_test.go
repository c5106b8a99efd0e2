package hawkes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedResponsibilities recomputes the E-step by direct expansion of
// the model definition: raw weight a*exp(-b*(t_i-t_j)) for j < i, mu on
// the diagonal, rows normalized.
func expectedResponsibilities(times []float64, p Params) [][]float64 {
	n := len(times)
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		sum := p.Mu
		for j := 0; j < i; j++ {
			w := p.A * math.Exp(-p.B*(times[i]-times[j]))
			rows[i][j] = w
			sum += w
		}
		rows[i][i] = p.Mu
		for j := 0; j <= i; j++ {
			rows[i][j] /= sum
		}
	}
	return rows
}

func TestComputeResponsibilities(t *testing.T) {
	t.Parallel()

	times := []float64{0.0, 1.0, 2.0, 10.0}
	params := Params{Mu: 0.9, A: 0.8, B: 0.5}

	t.Run("matches hand-expanded weights", func(t *testing.T) {
		t.Parallel()
		g, err := NewDenseGaps(times)
		require.NoError(t, err)
		r, err := ComputeResponsibilities(g, params, 1)
		require.NoError(t, err)

		want := expectedResponsibilities(times, params)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				assert.InDelta(t, want[i][j], r.At(i, j), 1e-6, "entry (%d,%d)", i, j)
			}
		}
	})

	t.Run("rows are proper probability distributions", func(t *testing.T) {
		t.Parallel()
		g, err := NewDenseGaps(times)
		require.NoError(t, err)
		r, err := ComputeResponsibilities(g, params, 1)
		require.NoError(t, err)

		for i := 0; i < r.Len(); i++ {
			assert.InDelta(t, 1.0, r.RowSum(i), 1e-9, "row %d sum", i)
			for j := 0; j < r.Len(); j++ {
				v := r.At(i, j)
				assert.GreaterOrEqual(t, v, 0.0, "entry (%d,%d)", i, j)
				assert.LessOrEqual(t, v, 1.0, "entry (%d,%d)", i, j)
				if j > i {
					assert.Zero(t, v, "entry (%d,%d) above diagonal", i, j)
				}
			}
		}
	})

	t.Run("first event is certainly background", func(t *testing.T) {
		t.Parallel()
		g, err := NewDenseGaps(times)
		require.NoError(t, err)
		r, err := ComputeResponsibilities(g, params, 1)
		require.NoError(t, err)

		assert.Equal(t, 1.0, r.Diag(0))
		assert.Equal(t, 1.0, r.RowSum(0))
	})

	t.Run("parallel evaluation is identical to serial", func(t *testing.T) {
		t.Parallel()
		long := make([]float64, 200)
		for i := range long {
			long[i] = float64(i) + 0.25*math.Sin(float64(i))
		}
		g, err := NewDenseGaps(long)
		require.NoError(t, err)

		serial, err := ComputeResponsibilities(g, params, 1)
		require.NoError(t, err)
		parallel, err := ComputeResponsibilities(g, params, 8)
		require.NoError(t, err)

		for i := 0; i < g.Len(); i++ {
			assert.Equal(t, serial.Diag(i), parallel.Diag(i), "diag %d", i)
			for j := 0; j < i; j++ {
				assert.Equal(t, serial.At(i, j), parallel.At(i, j), "entry (%d,%d)", i, j)
			}
		}
	})

	t.Run("sparse support mirrors the gap structure", func(t *testing.T) {
		t.Parallel()
		g, err := NewSparseGaps(times, 5.0)
		require.NoError(t, err)
		r, err := ComputeResponsibilities(g, params, 1)
		require.NoError(t, err)

		// Rows 0..2 have no retained pairs, so their mass is all background.
		for i := 0; i < 3; i++ {
			assert.Equal(t, 1.0, r.Diag(i), "row %d", i)
		}
		assert.InDelta(t, 1.0, r.RowSum(3), 1e-9)
		assert.Zero(t, r.At(2, 1), "dropped pair carries no mass")
		assert.Greater(t, r.At(3, 2), 0.0, "retained pair carries mass")
	})

	t.Run("rejects non-positive parameters", func(t *testing.T) {
		t.Parallel()
		g, err := NewDenseGaps(times)
		require.NoError(t, err)

		_, err = ComputeResponsibilities(g, Params{Mu: 0, A: 0.8, B: 0.5}, 1)
		assert.ErrorIs(t, err, ErrInvalidParams)
		_, err = ComputeResponsibilities(g, Params{Mu: 0.9, A: -1, B: 0.5}, 1)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}
