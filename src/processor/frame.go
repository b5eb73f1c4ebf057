package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 统计结果转为 DataFrame，便于导出。缺失值以 NaN 表示。

func floats(n int, get func(i int) NullFloat) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = get(i).OrNaN()
	}
	return out
}

// ToDataFrame 指标/数值两列
func (s SummaryStatistics) ToDataFrame() dataframe.DataFrame {
	metrics := []string{
		"Total Flights",
		"Flights With Both Delays",
		"Average Departure Delay",
		"Median Departure Delay",
		"Std Departure Delay",
		"Average Arrival Delay",
		"Median Arrival Delay",
		"Std Arrival Delay",
		fmt.Sprintf("Percentage Delayed Flights (>%g min)", s.Threshold),
		"Most Common Origin",
		"Most Common Destination",
		"Carrier with Most Delays",
		"Average Flight Distance",
	}
	pct := "NA"
	if s.DelayedRate.Valid {
		pct = fmt.Sprintf("%.2f", s.DelayedRate.Value*100)
	}
	values := []string{
		fmt.Sprint(s.TotalFlights),
		fmt.Sprint(s.Count),
		s.DepDelay.Mean.String(),
		s.DepDelay.Median.String(),
		s.DepDelay.Std.String(),
		s.ArrDelay.Mean.String(),
		s.ArrDelay.Median.String(),
		s.ArrDelay.Std.String(),
		pct,
		s.MostCommonOrigin,
		s.MostCommonDest,
		s.WorstCarrier,
		s.AvgDistance.String(),
	}
	return dataframe.New(
		series.New(metrics, series.String, "metric"),
		series.New(values, series.String, "value"),
	)
}

func (cs CarrierStats) ToDataFrame() dataframe.DataFrame {
	codes := make([]string, len(cs))
	names := make([]string, len(cs))
	flights := make([]int, len(cs))
	for i, c := range cs {
		codes[i], names[i], flights[i] = c.Carrier, c.Name, c.Flights
	}
	return dataframe.New(
		series.New(codes, series.String, "carrier"),
		series.New(names, series.String, "name"),
		series.New(flights, series.Int, "flights"),
		series.New(floats(len(cs), func(i int) NullFloat { return cs[i].DepDelay }), series.Float, "mean_dep_delay"),
		series.New(floats(len(cs), func(i int) NullFloat { return cs[i].ArrDelay }), series.Float, "mean_arr_delay"),
		series.New(floats(len(cs), func(i int) NullFloat { return cs[i].OnTimeRate }), series.Float, "on_time_rate"),
		series.New(floats(len(cs), func(i int) NullFloat { return cs[i].DelayedRate }), series.Float, "delayed_rate"),
	)
}

func (hs HourlyStats) ToDataFrame() dataframe.DataFrame {
	hours := make([]string, len(hs))
	flights := make([]int, len(hs))
	for i, h := range hs {
		hours[i], flights[i] = h.Label(), h.Flights
	}
	return dataframe.New(
		series.New(hours, series.String, "hour"),
		series.New(flights, series.Int, "flights"),
		series.New(floats(len(hs), func(i int) NullFloat { return hs[i].DepDelay }), series.Float, "mean_dep_delay"),
	)
}

func (rs RouteStats) ToDataFrame() dataframe.DataFrame {
	origins := make([]string, len(rs))
	dests := make([]string, len(rs))
	flights := make([]int, len(rs))
	for i, r := range rs {
		origins[i], dests[i], flights[i] = r.Origin, r.Dest, r.Flights
	}
	return dataframe.New(
		series.New(origins, series.String, "origin"),
		series.New(dests, series.String, "dest"),
		series.New(floats(len(rs), func(i int) NullFloat { return rs[i].DepDelay }), series.Float, "mean"),
		series.New(flights, series.Int, "count"),
	)
}

func (ms MonthlyStats) ToDataFrame() dataframe.DataFrame {
	months := make([]string, len(ms))
	flights := make([]int, len(ms))
	for i, m := range ms {
		months[i], flights[i] = m.Label(), m.Flights
	}
	return dataframe.New(
		series.New(months, series.String, "month"),
		series.New(flights, series.Int, "flights"),
		series.New(floats(len(ms), func(i int) NullFloat { return ms[i].DepDelay }), series.Float, "dep_delay"),
		series.New(floats(len(ms), func(i int) NullFloat { return ms[i].ArrDelay }), series.Float, "arr_delay"),
	)
}

func (d DelayDistribution) ToDataFrame() dataframe.DataFrame {
	n := len(d.Counts)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := 0; i < n; i++ {
		lower[i], upper[i] = d.Edges[i], d.Edges[i+1]
	}
	return dataframe.New(
		series.New(lower, series.Float, "from"),
		series.New(upper, series.Float, "to"),
		series.New(d.Counts, series.Float, "flights"),
	)
}
