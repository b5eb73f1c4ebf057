package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"FlightAnalyzer/src/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table() *processor.FlightTable {
	return processor.NewFlightTable([]processor.FlightRecord{
		{Month: 1, Hour: 6, Carrier: "AA", Name: "American Airlines Inc.", Origin: "JFK", Dest: "LAX", DepDelay: processor.Float(25), ArrDelay: processor.Float(20)},
		{Month: 1, Hour: 7, Carrier: "AA", Name: "American Airlines Inc.", Origin: "JFK", Dest: "LAX", DepDelay: processor.Float(-3), ArrDelay: processor.Float(-8)},
		{Month: 2, Hour: 18, Carrier: "UA", Name: "United Air Lines Inc.", Origin: "EWR", Dest: "SFO", DepDelay: processor.Float(90), ArrDelay: processor.Missing()},
		{Month: 3, Hour: 18, Carrier: "B6", Origin: "JFK", Dest: "BOS", DepDelay: processor.Missing(), ArrDelay: processor.Missing()},
	})
}

func assertPNG(t *testing.T, path string, r *Renderer) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, r.Width, cfg.Width)
	assert.Equal(t, r.Height, cfg.Height)
}

func TestRenderAll(t *testing.T) {
	a := processor.NewAnalyzer(processor.DefaultDelayThreshold)
	tb := table()
	r := NewRenderer(filepath.Join(t.TempDir(), "charts"))

	dist, err := a.DelayDistribution(tb, "", processor.DefaultHistogramBins)
	require.NoError(t, err)
	hourly, err := a.HourlyStats(tb, "")
	require.NoError(t, err)
	routes, err := a.RouteStats(tb, 15)
	require.NoError(t, err)

	renders := []struct {
		file   string
		render func() (string, error)
	}{
		{DelayDistributionFile, func() (string, error) { return r.DelayDistribution(dist) }},
		{CarrierPerformanceFile, func() (string, error) { return r.CarrierPerformance(a.CarrierStats(tb)) }},
		{HourlyDelaysFile, func() (string, error) { return r.HourlyDelays(hourly) }},
		{RouteAnalysisFile, func() (string, error) { return r.RouteAnalysis(routes) }},
		{MonthlyTrendsFile, func() (string, error) { return r.MonthlyTrends(a.MonthlyTrends(tb)) }},
	}
	for _, tc := range renders {
		t.Run(tc.file, func(t *testing.T) {
			path, err := tc.render()
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(r.Dir, tc.file), path)
			assertPNG(t, path, r)
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer(t.TempDir())
	empty := processor.NewFlightTable(nil)
	a := processor.NewAnalyzer(processor.DefaultDelayThreshold)

	_, err := r.DelayDistribution(processor.DelayDistribution{})
	assert.ErrorIs(t, err, ErrNothingToDraw)
	_, err = r.CarrierPerformance(a.CarrierStats(empty))
	assert.ErrorIs(t, err, ErrNothingToDraw)
	_, err = r.HourlyDelays(nil)
	assert.ErrorIs(t, err, ErrNothingToDraw)
	_, err = r.RouteAnalysis(nil)
	assert.ErrorIs(t, err, ErrNothingToDraw)
	_, err = r.MonthlyTrends(a.MonthlyTrends(empty))
	assert.ErrorIs(t, err, ErrNothingToDraw)

	entries, err := os.ReadDir(r.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValueRange(t *testing.T) {
	lo, hi := valueRange([]float64{-10, 20}, []float64{5})
	assert.Equal(t, -10.0, lo)
	assert.InDelta(t, 21.5, hi, 1e-9)

	lo, hi = valueRange([]float64{0})
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 1.05, hi, 1e-9)
}
