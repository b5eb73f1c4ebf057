package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"FlightAnalyzer/src/chart"
	"FlightAnalyzer/src/processor"
	"FlightAnalyzer/src/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flightsCSV = `year,month,day,dep_time,sched_dep_time,dep_delay,arr_time,sched_arr_time,arr_delay,carrier,flight,tailnum,origin,dest,air_time,distance,hour,minute,name
2013,1,1,517,515,2,830,819,11,UA,1545,N14228,EWR,IAH,227,1400,5,15,United Air Lines Inc.
2013,1,1,533,529,4,850,830,20,UA,1714,N24211,LGA,IAH,227,1416,5,29,United Air Lines Inc.
2013,1,1,542,540,2,923,850,33,AA,1141,N619AA,JFK,MIA,160,1089,5,40,American Airlines Inc.
2013,2,1,554,600,-6,812,837,-25,DL,461,N668DN,LGA,ATL,116,762,6,0,Delta Air Lines Inc.
2013,2,1,655,600,55,913,854,19,AA,301,N3ALAA,LGA,ORD,138,733,6,0,American Airlines Inc.
2013,3,1,,630,NA,,810,NA,AA,1895,N633AA,EWR,MIA,,1085,6,30,American Airlines Inc.
`

// syncBuffer watch 在后台写入输出
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setup(t *testing.T, content string) (dataFile, configDir, outDir string) {
	t.Helper()
	dir := t.TempDir()
	dataFile = filepath.Join(dir, "flights.csv")
	require.NoError(t, os.WriteFile(dataFile, []byte(content), 0644))
	configDir = filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	return dataFile, configDir, filepath.Join(dir, "output")
}

func TestAnalyze(t *testing.T) {
	dataFile, configDir, outDir := setup(t, flightsCSV)
	var out, logs bytes.Buffer

	err := NewCLI(Options{Output: &out, LogOutput: &logs}).ExecuteContext(context.Background(),
		"analyze", "--config", configDir, "--file", dataFile, "--out", outDir, "--top", "3", "--carrier", "AA")
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "Flight Data Summary: flights.csv")
	assert.Contains(t, report, "Total Flights")
	assert.Contains(t, report, "Top 3 Routes")
	assert.Contains(t, report, "LGA-ORD")
	assert.Contains(t, report, "Hour (AA)")

	assert.FileExists(t, filepath.Join(outDir, "flight_analysis.xlsx"))
	assert.FileExists(t, filepath.Join(outDir, "app.log"))
	for _, name := range []string{
		chart.DelayDistributionFile, chart.CarrierPerformanceFile, chart.HourlyDelaysFile,
		chart.RouteAnalysisFile, chart.MonthlyTrendsFile,
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.Contains(t, logs.String(), "读取航班数据 6 条")
}

func TestAnalyzeConfigFile(t *testing.T) {
	dataFile, configDir, outDir := setup(t, flightsCSV)
	cfg := `{"input": {"file": "` + filepath.ToSlash(dataFile) + `"}, "analysis": {"delay_threshold": 30}, "output": {"dir": "` + filepath.ToSlash(outDir) + `", "workbook": "", "charts": false}}`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), []byte(cfg), 0644))

	var out bytes.Buffer
	err := NewCLI(Options{Output: &out, LogOutput: &bytes.Buffer{}}).ExecuteContext(context.Background(),
		"analyze", "--config", configDir)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Percentage Delayed Flights (>30 min)")
	assert.NoFileExists(t, filepath.Join(outDir, "flight_analysis.xlsx"))
	assert.NoFileExists(t, filepath.Join(outDir, chart.HourlyDelaysFile))
}

func TestAnalyzeNoCharts(t *testing.T) {
	dataFile, configDir, outDir := setup(t, flightsCSV)
	err := NewCLI(Options{Output: &bytes.Buffer{}, LogOutput: &bytes.Buffer{}}).ExecuteContext(context.Background(),
		"analyze", "--config", configDir, "--file", dataFile, "--out", outDir, "--no-charts")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "flight_analysis.xlsx"))
	assert.NoFileExists(t, filepath.Join(outDir, chart.MonthlyTrendsFile))
}

func TestAnalyzeHeaderOnly(t *testing.T) {
	header := strings.SplitN(flightsCSV, "\n", 2)[0] + "\n"
	dataFile, configDir, outDir := setup(t, header)
	var out, logs bytes.Buffer

	err := NewCLI(Options{Output: &out, LogOutput: &logs}).ExecuteContext(context.Background(),
		"analyze", "--config", configDir, "--file", dataFile, "--out", outDir)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Total Flights")
	assert.Contains(t, out.String(), "No flights with recorded delays")
	assert.Contains(t, logs.String(), "跳过图表")
	assert.NoFileExists(t, filepath.Join(outDir, chart.DelayDistributionFile))
}

func TestAnalyzeErrors(t *testing.T) {
	dataFile, configDir, outDir := setup(t, flightsCSV)
	run := func(args ...string) error {
		args = append([]string{"analyze", "--config", configDir, "--out", outDir}, args...)
		return NewCLI(Options{Output: &bytes.Buffer{}, LogOutput: &bytes.Buffer{}}).ExecuteContext(context.Background(), args...)
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input file")

	err = run("--file", dataFile, "--top", "0")
	assert.Error(t, err)

	err = run("--file", dataFile, "--carrier", "ZZ")
	assert.True(t, errors.Is(err, processor.ErrInvalidParameter))

	bad := filepath.Join(filepath.Dir(dataFile), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("year,month,carrier\n2013,1,AA\n"), 0644))
	err = run("--file", bad)
	var schemaErr *processor.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "dep_delay")

	err = run("--file", filepath.Join(filepath.Dir(dataFile), "flights.json"))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	dataFile, configDir, outDir := setup(t, flightsCSV)
	out := &syncBuffer{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- NewCLI(Options{Output: out, LogOutput: &syncBuffer{}}).ExecuteContext(ctx,
			"watch", "--config", configDir, "--file", dataFile, "--out", outDir, "--no-charts", "--interval", "1h")
	}()

	summaries := func() int { return strings.Count(out.String(), "Flight Data Summary") }
	require.Eventually(t, func() bool { return summaries() == 1 }, 10*time.Second, 20*time.Millisecond)

	// 写入临时文件后改名替换，只产生一次 Create 事件
	lines := strings.Split(strings.TrimSpace(flightsCSV), "\n")
	tmp := dataFile + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(strings.Join(lines[:4], "\n")+"\n"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(tmp, future, future))
	require.NoError(t, os.Rename(tmp, dataFile))

	require.Eventually(t, func() bool { return summaries() >= 2 }, 10*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchInitialFailure(t *testing.T) {
	_, configDir, outDir := setup(t, flightsCSV)
	missing := filepath.Join(t.TempDir(), "missing.csv")

	err := NewCLI(Options{Output: &bytes.Buffer{}, LogOutput: &bytes.Buffer{}}).ExecuteContext(context.Background(),
		"watch", "--config", configDir, "--file", missing, "--out", outDir)
	assert.Error(t, err)
}

func TestWatchLoopCloseWaitsForRun(t *testing.T) {
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "app.log"), nil)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var closed atomic.Bool
	loop := &watchLoop{
		logger: logger,
		run: func() error {
			close(started)
			<-release
			// 分析期间日志仍未关闭
			assert.False(t, closed.Load())
			return nil
		},
		closer: func() {
			closed.Store(true)
			logger.Close()
		},
	}

	runDone := make(chan error, 1)
	go func() { runDone <- loop.analyze("定时") }()
	<-started

	closeDone := make(chan struct{})
	go func() {
		loop.close()
		close(closeDone)
	}()

	select {
	case <-closeDone:
		t.Fatal("close returned while a run was in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-runDone)
	<-closeDone
	assert.True(t, closed.Load())

	// 关闭后不再执行
	assert.ErrorIs(t, loop.analyze("文件更新"), errWatchClosed)
}
