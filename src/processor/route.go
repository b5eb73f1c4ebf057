package processor

import (
	"fmt"
	"sort"
)

// Route 有向航线
type Route struct {
	Origin string
	Dest   string
}

func (r Route) String() string {
	return r.Origin + "-" + r.Dest
}

// RouteStat 单条航线的统计
type RouteStat struct {
	Route
	Flights  int       // 全部航班，含延误缺失的航班
	DepDelay NullFloat // 平均起飞延误
}

// RouteStats 航线排名
type RouteStats []RouteStat

// RouteStats 按航线统计并取平均延误最高的 topN 条
// 排序：平均延误降序(无延误数据的排最后)、航班数降序、始发站升序、目的站升序。
func (a *Analyzer) RouteStats(table *FlightTable, topN int) (RouteStats, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("top_n must be positive, got %d: %w", topN, ErrInvalidParameter)
	}

	type routeAcc struct {
		flights int
		dep     meanAcc
	}
	groups := make(map[Route]*routeAcc)
	table.Each(func(r *FlightRecord) {
		key := Route{Origin: r.Origin, Dest: r.Dest}
		acc, ok := groups[key]
		if !ok {
			acc = &routeAcc{}
			groups[key] = acc
		}
		acc.flights++
		acc.dep.add(r.DepDelay)
	})

	out := make(RouteStats, 0, len(groups))
	for route, acc := range groups {
		out = append(out, RouteStat{Route: route, Flights: acc.flights, DepDelay: acc.dep.mean()})
	}
	sort.Slice(out, func(i, j int) bool { return routeLess(out[i], out[j]) })

	if topN < len(out) {
		out = out[:topN]
	}
	return out, nil
}

func routeLess(a, b RouteStat) bool {
	if a.DepDelay.Valid != b.DepDelay.Valid {
		return a.DepDelay.Valid
	}
	if a.DepDelay.Valid && a.DepDelay.Value != b.DepDelay.Value {
		return a.DepDelay.Value > b.DepDelay.Value
	}
	if a.Flights != b.Flights {
		return a.Flights > b.Flights
	}
	if a.Origin != b.Origin {
		return a.Origin < b.Origin
	}
	return a.Dest < b.Dest
}
