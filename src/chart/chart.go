package chart

import (
	"errors"
	"fmt"
	"path/filepath"

	"FlightAnalyzer/src/processor"
	"FlightAnalyzer/src/utils"
)

// ErrNothingToDraw 输入为空，未生成图片
var ErrNothingToDraw = errors.New("nothing to draw")

// 输出文件名
const (
	DelayDistributionFile  = "delay_distribution.png"
	CarrierPerformanceFile = "carrier_performance.png"
	HourlyDelaysFile       = "hourly_delays.png"
	RouteAnalysisFile      = "route_analysis.png"
	MonthlyTrendsFile      = "monthly_trends.png"
)

// Renderer 将统计结果绘制为PNG
type Renderer struct {
	Dir    string
	Width  int
	Height int
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{Dir: dir, Width: 1200, Height: 600}
}

func (r *Renderer) save(p *plot, name string) (string, error) {
	if err := utils.EnsureDir(r.Dir); err != nil {
		return "", err
	}
	path := filepath.Join(r.Dir, name)
	if err := p.dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("保存图片 %s 失败: %w", path, err)
	}
	return path, nil
}

// DelayDistribution 起飞延误分布直方图
func (r *Renderer) DelayDistribution(d processor.DelayDistribution) (string, error) {
	if d.IsEmpty() {
		return "", ErrNothingToDraw
	}
	labels := make([]string, len(d.Counts))
	// 只标注约10个刻度，避免重叠
	step := len(labels)/10 + 1
	for i := 0; i < len(labels); i += step {
		labels[i] = fmt.Sprintf("%.0f", d.Edges[i])
	}

	p := newPlot(r.Width, r.Height, "Distribution of Departure Delays", "Delay Minutes", "Number of Flights", labels, d.Counts)
	p.frame()
	p.bars(5, d.Counts)
	return r.save(p, DelayDistributionFile)
}

// CarrierPerformance 各航司延误航班比例，按比例降序
func (r *Renderer) CarrierPerformance(cs processor.CarrierStats) (string, error) {
	cs = cs.ByDelayedRate()
	var (
		labels []string
		rates  []float64
	)
	for _, c := range cs {
		if !c.DelayedRate.Valid {
			continue
		}
		label := c.Name
		if label == "" {
			label = c.Carrier
		}
		labels = append(labels, label)
		rates = append(rates, c.DelayedRate.Value*100)
	}
	if len(labels) == 0 {
		return "", ErrNothingToDraw
	}

	p := newPlot(r.Width, r.Height, "Carrier Delay Performance", "Carrier", "Percentage of Delayed Flights", labels, rates)
	p.frame()
	p.bars(0, rates)
	return r.save(p, CarrierPerformanceFile)
}

// HourlyDelays 各小时平均起飞延误折线
func (r *Renderer) HourlyDelays(hs processor.HourlyStats) (string, error) {
	if len(hs) == 0 {
		return "", ErrNothingToDraw
	}
	labels := make([]string, len(hs))
	values := make([]float64, len(hs))
	for i, h := range hs {
		labels[i] = h.Label()
		values[i] = h.DepDelay.OrNaN()
	}

	p := newPlot(r.Width, r.Height, "Average Delays by Hour of Day", "Hour", "Average Delay (minutes)", labels, values)
	p.frame()
	p.line(values, palette[2])
	return r.save(p, HourlyDelaysFile)
}

// RouteAnalysis 平均延误最高的航线
func (r *Renderer) RouteAnalysis(rs processor.RouteStats) (string, error) {
	if len(rs) == 0 {
		return "", ErrNothingToDraw
	}
	labels := make([]string, len(rs))
	values := make([]float64, len(rs))
	for i, route := range rs {
		labels[i] = route.String()
		values[i] = route.DepDelay.OrNaN()
	}

	title := fmt.Sprintf("Top %d Routes by Average Delay", len(rs))
	p := newPlot(r.Width, r.Height, title, "Route (Origin-Destination)", "Average Delay (minutes)", labels, values)
	p.frame()
	p.bars(3, values)
	return r.save(p, RouteAnalysisFile)
}

// MonthlyTrends 各月平均起飞/到达延误
func (r *Renderer) MonthlyTrends(ms processor.MonthlyStats) (string, error) {
	if len(ms) == 0 {
		return "", ErrNothingToDraw
	}
	labels := make([]string, len(ms))
	dep := make([]float64, len(ms))
	arr := make([]float64, len(ms))
	for i, m := range ms {
		labels[i] = m.Label()
		dep[i] = m.DepDelay.OrNaN()
		arr[i] = m.ArrDelay.OrNaN()
	}

	p := newPlot(r.Width, r.Height, "Monthly Delay Trends", "Month", "Average Delay (minutes)", labels, dep, arr)
	p.frame()
	p.bars(4, dep, arr)
	p.legend(4, "Departure Delay", "Arrival Delay")
	return r.save(p, MonthlyTrendsFile)
}
