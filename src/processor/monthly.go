package processor

import (
	"sort"
	"time"
)

// MonthStat 单月统计
type MonthStat struct {
	Month    int // 1-12
	Flights  int
	DepDelay NullFloat
	ArrDelay NullFloat
}

// Label 月份英文名
func (m MonthStat) Label() string {
	return time.Month(m.Month).String()
}

// MonthlyStats 按月份升序，数据中没有的月份不出现
type MonthlyStats []MonthStat

// MonthlyTrends 按月统计平均起飞、到达延误
func (a *Analyzer) MonthlyTrends(table *FlightTable) MonthlyStats {
	type monthAcc struct {
		flights  int
		dep, arr meanAcc
	}
	groups := make(map[int]*monthAcc)
	table.Each(func(r *FlightRecord) {
		if r.Month < 1 || r.Month > 12 {
			return
		}
		acc, ok := groups[r.Month]
		if !ok {
			acc = &monthAcc{}
			groups[r.Month] = acc
		}
		acc.flights++
		acc.dep.add(r.DepDelay)
		acc.arr.add(r.ArrDelay)
	})

	out := make(MonthlyStats, 0, len(groups))
	for month, acc := range groups {
		out = append(out, MonthStat{
			Month:    month,
			Flights:  acc.flights,
			DepDelay: acc.dep.mean(),
			ArrDelay: acc.arr.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
