package utils

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMissingColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"AA"}, series.String, "carrier"),
		series.New([]string{"JFK"}, series.String, "origin"),
	)
	assert.True(t, HasColumn(df, "carrier"))
	assert.False(t, HasColumn(df, "dest"))
	assert.Equal(t, []string{"dest", "hour"}, MissingColumns(df, []string{"origin", "dest", "carrier", "hour"}))
	assert.Empty(t, MissingColumns(df, []string{"origin"}))
}

func TestSaveSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.xlsx")
	routes := dataframe.New(
		series.New([]string{"JFK", "EWR"}, series.String, "origin"),
		series.New([]float64{12.5, math.NaN()}, series.Float, "mean"),
	)
	months := dataframe.New(series.New([]string{"January"}, series.String, "month"))

	require.NoError(t, SaveSheets(path, []Sheet{{Name: "routes", Frame: routes}, {Name: "monthly", Frame: months}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"routes", "monthly"}, f.GetSheetList())
	v, err := f.GetCellValue("routes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)
	// NaN 写为空单元格
	v, err = f.GetCellValue("routes", "B3")
	require.NoError(t, err)
	assert.Empty(t, v)
	v, err = f.GetCellValue("monthly", "A1")
	require.NoError(t, err)
	assert.Equal(t, "month", v)
}

func TestSaveSheetsEmpty(t *testing.T) {
	assert.Error(t, SaveSheets(filepath.Join(t.TempDir(), "x.xlsx"), nil))
}
