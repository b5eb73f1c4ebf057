package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"FlightAnalyzer/src/chart"
	"FlightAnalyzer/src/config"
	"FlightAnalyzer/src/datasource/file"
	"FlightAnalyzer/src/processor"
	"FlightAnalyzer/src/report"
	"FlightAnalyzer/src/storage"

	"github.com/spf13/cobra"
)

const (
	configFile     = "config.json"
	dataConfigFile = "dataconfig.json"
)

// analysisFlags analyze 与 watch 共用的参数，命令行优先于配置文件
type analysisFlags struct {
	configDir string
	file      string
	carrier   string
	topN      int
	threshold float64
	bins      int
	outDir    string
	noCharts  bool
}

func (f *analysisFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configDir, "config", "./config", "Directory holding config.json and dataconfig.json")
	cmd.Flags().StringVar(&f.file, "file", "", "Flight data file (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.carrier, "carrier", "", "Carrier code or name for hourly stats and delay distribution")
	cmd.Flags().IntVar(&f.topN, "top", 15, "Number of routes to report")
	cmd.Flags().Float64Var(&f.threshold, "threshold", processor.DefaultDelayThreshold, "Departure delay in minutes above which a flight counts as delayed")
	cmd.Flags().IntVar(&f.bins, "bins", processor.DefaultHistogramBins, "Number of bins in the delay distribution")
	cmd.Flags().StringVar(&f.outDir, "out", "", "Output directory for the workbook and charts")
	cmd.Flags().BoolVar(&f.noCharts, "no-charts", false, "Skip chart rendering")
}

// load 读取配置并用显式给出的命令行参数覆盖
func (f *analysisFlags) load(cmd *cobra.Command) (*config.Config, *config.DataConfig, error) {
	cfg, dcfg, err := config.LoadConfig(f.configDir, configFile, dataConfigFile)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Input.File = f.file
	}
	if flags.Changed("carrier") {
		cfg.Analysis.Carrier = f.carrier
	}
	if flags.Changed("top") {
		cfg.Analysis.TopN = f.topN
	}
	if flags.Changed("threshold") {
		cfg.Analysis.DelayThreshold = f.threshold
	}
	if flags.Changed("bins") {
		cfg.Analysis.HistogramBins = f.bins
	}
	if flags.Changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if f.noCharts {
		cfg.Output.Charts = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Input.File == "" {
		return nil, nil, fmt.Errorf("no input file: pass --file or set input.file in %s", configFile)
	}
	return cfg, dcfg, nil
}

// runner 执行一次完整的 读取-统计-输出 流程
type runner struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
	out    io.Writer
}

func newRunner(cfg *config.Config, dcfg *config.DataConfig, opts Options) (*runner, error) {
	logger, err := storage.NewLogger(filepath.Join(cfg.Output.Dir, cfg.LogName), opts.LogOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetMaxSize(cfg.LogMaxSize); err != nil {
		logger.Warningf("日志轮转大小配置无效，不轮转: %v", err)
	}
	return &runner{cfg: cfg, dcfg: dcfg, logger: logger, out: opts.Output}, nil
}

func (r *runner) close() {
	r.logger.Close()
}

func (r *runner) run() error {
	t1 := time.Now()
	input := r.cfg.Input.File

	table, err := file.LoadFlightTable(input, file.OptionsFromConfig(r.cfg, r.dcfg))
	if err != nil {
		return fmt.Errorf("读取航班数据 %s 失败: %w", input, err)
	}
	r.logger.Infof("读取航班数据 %d 条: %s", table.Len(), input)

	res, err := report.Build(processor.NewAnalyzer(r.cfg.Analysis.DelayThreshold), table, filepath.Base(input), report.Params{
		Carrier: r.cfg.Analysis.Carrier,
		TopN:    r.cfg.Analysis.TopN,
		Bins:    r.cfg.Analysis.HistogramBins,
	})
	if err != nil {
		return err
	}
	if res.Summary.IsEmpty() {
		r.logger.Warning("没有有效的延误数据")
	}

	if err := report.WriteSummary(r.out, res); err != nil {
		return fmt.Errorf("输出统计报告失败: %w", err)
	}

	if name := r.cfg.Output.Workbook; name != "" {
		path := filepath.Join(r.cfg.Output.Dir, name)
		if err := report.SaveWorkbook(path, res); err != nil {
			return err
		}
		r.logger.Infof("统计结果已保存: %s", path)
	}

	if r.cfg.Output.Charts {
		if err := r.renderCharts(res); err != nil {
			return err
		}
	}

	r.logger.Infof("数据处理时间：%v", time.Since(t1))
	return nil
}

func (r *runner) renderCharts(res *report.Result) error {
	rd := chart.NewRenderer(r.cfg.Output.Dir)
	charts := []struct {
		name   string
		render func() (string, error)
	}{
		{"delay distribution", func() (string, error) { return rd.DelayDistribution(res.Distribution) }},
		{"carrier performance", func() (string, error) { return rd.CarrierPerformance(res.Carriers) }},
		{"hourly delays", func() (string, error) { return rd.HourlyDelays(res.Hourly) }},
		{"route analysis", func() (string, error) { return rd.RouteAnalysis(res.Routes) }},
		{"monthly trends", func() (string, error) { return rd.MonthlyTrends(res.Monthly) }},
	}

	for _, c := range charts {
		path, err := c.render()
		if errors.Is(err, chart.ErrNothingToDraw) {
			r.logger.Warningf("跳过图表 %s: 没有数据", c.name)
			continue
		}
		if err != nil {
			return fmt.Errorf("绘制 %s 失败: %w", c.name, err)
		}
		r.logger.Infof("图表已保存: %s", path)
	}
	return nil
}
