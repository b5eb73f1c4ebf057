package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"FlightAnalyzer/src/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func flight(carrier, name, origin, dest string, month, hour int, dep, arr processor.NullFloat) processor.FlightRecord {
	return processor.FlightRecord{
		Year: 2013, Month: month, Day: 1,
		Carrier: carrier, Name: name,
		Origin: origin, Dest: dest,
		Hour: hour, DepDelay: dep, ArrDelay: arr,
		Distance: processor.Float(500),
	}
}

func table() *processor.FlightTable {
	f := processor.Float
	return processor.NewFlightTable([]processor.FlightRecord{
		flight("AA", "American Airlines Inc.", "JFK", "LAX", 1, 6, f(30), f(25)),
		flight("AA", "American Airlines Inc.", "JFK", "LAX", 1, 7, f(-3), f(-8)),
		flight("UA", "United Air Lines Inc.", "EWR", "SFO", 2, 18, f(5), processor.Missing()),
		flight("UA", "United Air Lines Inc.", "EWR", "ORD", 3, 19, processor.Missing(), f(12)),
	})
}

func build(t *testing.T, params Params) *Result {
	t.Helper()
	res, err := Build(processor.NewAnalyzer(processor.DefaultDelayThreshold), table(), "flights.csv", params)
	require.NoError(t, err)
	return res
}

func TestBuild(t *testing.T) {
	res := build(t, Params{TopN: 2, Bins: 4})

	assert.Equal(t, "flights.csv", res.Source)
	assert.Equal(t, 4, res.Summary.TotalFlights)
	assert.Len(t, res.Carriers, 2)
	assert.Len(t, res.Routes, 2)
	assert.Len(t, res.Monthly, 3)
	assert.Len(t, res.Hourly, 3)
	assert.Equal(t, 2, res.Distribution.Total)
}

func TestBuildCarrierFilter(t *testing.T) {
	res := build(t, Params{Carrier: "UA", TopN: 5, Bins: 4})
	require.Len(t, res.Hourly, 1)
	assert.Equal(t, 18, res.Hourly[0].Hour)
	// 航司筛选不影响汇总
	assert.Equal(t, 4, res.Summary.TotalFlights)

	_, err := Build(processor.NewAnalyzer(15), table(), "flights.csv", Params{Carrier: "ZZ", TopN: 5, Bins: 4})
	assert.True(t, errors.Is(err, processor.ErrInvalidParameter))

	_, err = Build(processor.NewAnalyzer(15), table(), "flights.csv", Params{TopN: 0, Bins: 4})
	assert.True(t, errors.Is(err, processor.ErrInvalidParameter))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, build(t, Params{Carrier: "AA", TopN: 3, Bins: 4})))

	out := buf.String()
	assert.Contains(t, out, "Flight Data Summary: flights.csv")
	assert.Contains(t, out, "Percentage Delayed Flights (>15 min)")
	assert.Contains(t, out, "33.33%")
	assert.Contains(t, out, "Carrier with Most Delays")
	assert.Contains(t, out, "American Airlines Inc.")
	assert.Contains(t, out, "JFK-LAX")
	assert.Contains(t, out, "January")
	assert.Contains(t, out, "Hour (AA)")
	assert.Contains(t, out, "06:00")
}

func TestWriteSummaryEmpty(t *testing.T) {
	res, err := Build(processor.NewAnalyzer(15), processor.NewFlightTable(nil), "empty.csv", Params{TopN: 5, Bins: 4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, res))
	assert.Contains(t, buf.String(), "No flights with recorded delays")
	assert.NotContains(t, buf.String(), "Most Common Origin")
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "analysis.xlsx")
	require.NoError(t, SaveWorkbook(path, build(t, Params{TopN: 5, Bins: 4})))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"summary", "carriers", "hourly", "routes", "monthly", "distribution"}, f.GetSheetList())

	rows, err := f.GetRows("carriers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "carrier", rows[0][0])
	assert.Equal(t, "AA", rows[1][0])
	assert.Equal(t, "UA", rows[2][0])
}
