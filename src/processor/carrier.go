package processor

import "sort"

// CarrierStat 单个航司的延误统计
type CarrierStat struct {
	Carrier     string // 航司代码，分组键
	Name        string // 航司名称，仅用于展示
	Flights     int    // 全部航班，含延误缺失的航班
	DepDelay    NullFloat
	ArrDelay    NullFloat
	OnTimeRate  NullFloat // 起飞延误不超过阈值的比例
	DelayedRate NullFloat // 起飞延误超过阈值的比例
}

// CarrierStats 按航司代码升序排列
type CarrierStats []CarrierStat

// Get 按航司代码查找
func (cs CarrierStats) Get(code string) (CarrierStat, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Carrier >= code })
	if i < len(cs) && cs[i].Carrier == code {
		return cs[i], true
	}
	return CarrierStat{}, false
}

// First 第一项
func (cs CarrierStats) First() (CarrierStat, bool) {
	if len(cs) == 0 {
		return CarrierStat{}, false
	}
	return cs[0], true
}

// TotalFlights 各航司航班数之和
func (cs CarrierStats) TotalFlights() int {
	total := 0
	for _, c := range cs {
		total += c.Flights
	}
	return total
}

// ByDelayedRate 返回按延误率降序排列的副本，延误率缺失的排在最后
func (cs CarrierStats) ByDelayedRate() CarrierStats {
	out := make(CarrierStats, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DelayedRate, out[j].DelayedRate
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Value != b.Value {
			return a.Value > b.Value
		}
		return out[i].Carrier < out[j].Carrier
	})
	return out
}

type carrierAcc struct {
	name            string
	flights         int
	dep, arr        meanAcc
	onTime, delayed int
}

// CarrierStats 按航司分组统计
// 延误缺失的航班计入航班数，但不参与均值和比例
func (a *Analyzer) CarrierStats(table *FlightTable) CarrierStats {
	groups := make(map[string]*carrierAcc)
	table.Each(func(r *FlightRecord) {
		acc, ok := groups[r.Carrier]
		if !ok {
			acc = &carrierAcc{name: r.Name}
			groups[r.Carrier] = acc
		}
		acc.flights++
		acc.dep.add(r.DepDelay)
		acc.arr.add(r.ArrDelay)
		if r.DepDelay.Valid {
			if a.isDelayed(r.DepDelay.Value) {
				acc.delayed++
			} else {
				acc.onTime++
			}
		}
	})

	out := make(CarrierStats, 0, len(groups))
	for code, acc := range groups {
		out = append(out, CarrierStat{
			Carrier:     code,
			Name:        acc.name,
			Flights:     acc.flights,
			DepDelay:    acc.dep.mean(),
			ArrDelay:    acc.arr.mean(),
			OnTimeRate:  rate(acc.onTime, acc.dep.n),
			DelayedRate: rate(acc.delayed, acc.dep.n),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Carrier < out[j].Carrier })
	return out
}
