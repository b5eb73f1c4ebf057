package processor

import (
	"fmt"
	"sort"
)

// HourStat 某个计划起飞小时的统计
type HourStat struct {
	Hour     int       // 0-23
	Flights  int       // 起飞延误有值的航班数
	DepDelay NullFloat // 平均起飞延误
}

// Label 形如 "07:00"
func (h HourStat) Label() string {
	return fmt.Sprintf("%02d:00", h.Hour)
}

// HourlyStats 按小时升序，没有航班的小时不出现
type HourlyStats []HourStat

// HourlyStats 按计划起飞小时统计平均起飞延误
// carrier 非空时先按航司代码或名称筛选，筛选无匹配返回 ErrInvalidParameter。
func (a *Analyzer) HourlyStats(table *FlightTable, carrier string) (HourlyStats, error) {
	if carrier != "" {
		table = table.ByCarrier(carrier)
		if table.Len() == 0 {
			return nil, fmt.Errorf("carrier %q matches no records: %w", carrier, ErrInvalidParameter)
		}
	}

	groups := make(map[int]*meanAcc)
	table.Each(func(r *FlightRecord) {
		if !r.DepDelay.Valid || r.Hour < 0 || r.Hour > 23 {
			return
		}
		acc, ok := groups[r.Hour]
		if !ok {
			acc = &meanAcc{}
			groups[r.Hour] = acc
		}
		acc.add(r.DepDelay)
	})

	out := make(HourlyStats, 0, len(groups))
	for hour, acc := range groups {
		out = append(out, HourStat{Hour: hour, Flights: acc.n, DepDelay: acc.mean()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}
