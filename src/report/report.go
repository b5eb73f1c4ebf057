package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"FlightAnalyzer/src/processor"
	"FlightAnalyzer/src/utils"
)

// Params 一次分析的参数
type Params struct {
	Carrier string // 小时统计与延误分布的航司筛选
	TopN    int
	Bins    int
}

// Result 一次分析的全部结果
type Result struct {
	Source       string
	Params       Params
	Summary      processor.SummaryStatistics
	Carriers     processor.CarrierStats
	Hourly       processor.HourlyStats
	Routes       processor.RouteStats
	Monthly      processor.MonthlyStats
	Distribution processor.DelayDistribution
}

// Build 对航班表执行全部统计
func Build(a *processor.Analyzer, table *processor.FlightTable, source string, params Params) (*Result, error) {
	res := &Result{
		Source:   source,
		Params:   params,
		Summary:  a.Summary(table),
		Carriers: a.CarrierStats(table),
		Monthly:  a.MonthlyTrends(table),
	}

	var err error
	if res.Hourly, err = a.HourlyStats(table, params.Carrier); err != nil {
		return nil, fmt.Errorf("hourly stats: %w", err)
	}
	if res.Routes, err = a.RouteStats(table, params.TopN); err != nil {
		return nil, fmt.Errorf("route stats: %w", err)
	}
	if res.Distribution, err = a.DelayDistribution(table, params.Carrier, params.Bins); err != nil {
		return nil, fmt.Errorf("delay distribution: %w", err)
	}
	return res, nil
}

// WriteSummary 输出文本报告
func WriteSummary(w io.Writer, res *Result) error {
	s := res.Summary
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Flight Data Summary: %s\n", res.Source)
	fmt.Fprintf(tw, "Total Flights\t%d\n", s.TotalFlights)
	if s.IsEmpty() {
		fmt.Fprintf(tw, "No flights with recorded delays\n")
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Flights With Both Delays\t%d\n", s.Count)
	fmt.Fprintf(tw, "Departure Delay (mean/median/std)\t%s / %s / %s\t(n=%d)\n",
		s.DepDelay.Mean, s.DepDelay.Median, s.DepDelay.Std, s.DepDelay.Count)
	fmt.Fprintf(tw, "Arrival Delay (mean/median/std)\t%s / %s / %s\t(n=%d)\n",
		s.ArrDelay.Mean, s.ArrDelay.Median, s.ArrDelay.Std, s.ArrDelay.Count)
	fmt.Fprintf(tw, "Percentage Delayed Flights (>%g min)\t%s\n", s.Threshold, percent(s.DelayedRate))
	fmt.Fprintf(tw, "Most Common Origin\t%s\n", s.MostCommonOrigin)
	fmt.Fprintf(tw, "Most Common Destination\t%s\n", s.MostCommonDest)
	fmt.Fprintf(tw, "Carrier with Most Delays\t%s\n", s.WorstCarrier)
	fmt.Fprintf(tw, "Average Flight Distance\t%s\n", s.AvgDistance)

	fmt.Fprintf(tw, "\nCarrier\tFlights\tDep Delay\tArr Delay\tOn Time\n")
	for _, c := range res.Carriers.ByDelayedRate() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", carrierLabel(c), c.Flights, c.DepDelay, c.ArrDelay, percent(c.OnTimeRate))
	}

	fmt.Fprintf(tw, "\nTop %d Routes\tFlights\tDep Delay\n", len(res.Routes))
	for _, r := range res.Routes {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.String(), r.Flights, r.DepDelay)
	}

	fmt.Fprintf(tw, "\nMonth\tFlights\tDep Delay\tArr Delay\n")
	for _, m := range res.Monthly {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", m.Label(), m.Flights, m.DepDelay, m.ArrDelay)
	}

	hourTitle := "Hour"
	if res.Params.Carrier != "" {
		hourTitle = fmt.Sprintf("Hour (%s)", res.Params.Carrier)
	}
	fmt.Fprintf(tw, "\n%s\tFlights\tDep Delay\n", hourTitle)
	for _, h := range res.Hourly {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", h.Label(), h.Flights, h.DepDelay)
	}
	return tw.Flush()
}

// SaveWorkbook 每个统计表一个工作表
func SaveWorkbook(path string, res *Result) error {
	return utils.SaveSheets(path, []utils.Sheet{
		{Name: "summary", Frame: res.Summary.ToDataFrame()},
		{Name: "carriers", Frame: res.Carriers.ToDataFrame()},
		{Name: "hourly", Frame: res.Hourly.ToDataFrame()},
		{Name: "routes", Frame: res.Routes.ToDataFrame()},
		{Name: "monthly", Frame: res.Monthly.ToDataFrame()},
		{Name: "distribution", Frame: res.Distribution.ToDataFrame()},
	})
}

func percent(v processor.NullFloat) string {
	if !v.Valid {
		return "NA"
	}
	return fmt.Sprintf("%.2f%%", v.Value*100)
}

func carrierLabel(c processor.CarrierStat) string {
	if c.Name == "" {
		return c.Carrier
	}
	return strings.TrimSpace(c.Carrier + " " + c.Name)
}
