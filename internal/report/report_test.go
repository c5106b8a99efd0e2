package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/hawkes/internal/hawkes"
)

func fitTrace(t *testing.T) ([]float64, hawkes.Params, []hawkes.TracePoint) {
	t.Helper()
	times := []float64{0.0, 0.4, 1.1, 1.3, 2.8, 4.0, 4.2, 7.5, 9.0}

	var trace hawkes.Trace
	cfg := hawkes.DefaultFitConfig()
	cfg.Iterations = 15
	cfg.Observer = trace.Observer()

	res, err := hawkes.Fit(times, cfg)
	require.NoError(t, err)
	return times, res.Params, trace.Points()
}

func TestConvergencePlots(t *testing.T) {
	t.Parallel()
	_, _, trace := fitTrace(t)

	dir := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, ConvergencePlots(trace, dir))

	for _, name := range []string{"q_convergence.png", "parameter_trace.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "plot %s must exist", name)
		assert.Greater(t, info.Size(), int64(0), "plot %s must not be empty", name)
	}

	t.Run("empty trace is an error", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, ConvergencePlots(nil, t.TempDir()))
	})
}

func TestHTMLReport(t *testing.T) {
	t.Parallel()
	times, params, trace := fitTrace(t)

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, HTMLReport(times, params, trace, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)
	assert.True(t, strings.Contains(html, "Fitted Conditional Intensity"))
	assert.True(t, strings.Contains(html, "Surrogate Objective"))

	t.Run("rejects short sequences", func(t *testing.T) {
		t.Parallel()
		err := HTMLReport([]float64{1.0}, params, trace, filepath.Join(t.TempDir(), "r.html"))
		assert.Error(t, err)
	})
}
