package processor

// SummaryStatistics 数据集概况
type SummaryStatistics struct {
	TotalFlights int     // 表中全部航班
	Count        int     // 起飞、到达延误均不缺失的航班
	Threshold    float64 // 延误判定阈值
	DepDelay     DelayStats
	ArrDelay     DelayStats
	DelayedCount int       // 起飞延误超过阈值的航班
	DelayedRate  NullFloat // DelayedCount / DepDelay.Count

	MostCommonOrigin string
	MostCommonDest   string
	WorstCarrier     string    // 延误率最高的航司(名称)
	AvgDistance      NullFloat // 平均航程
}

// IsEmpty 没有任何有效延误数据
func (s SummaryStatistics) IsEmpty() bool {
	return s.DepDelay.Count == 0 && s.ArrDelay.Count == 0
}

// Summary 生成数据集概况
// 缺失的延误值不参与统计；两个延误字段各自独立统计，Count 为两者都有值的航班数。
// 空表返回各项计数为0的结果，不返回错误。
func (a *Analyzer) Summary(table *FlightTable) SummaryStatistics {
	s := SummaryStatistics{
		TotalFlights: table.Len(),
		Threshold:    a.Threshold,
	}

	var (
		dep, arr []float64
		distance meanAcc
		origins  = make(map[string]int)
		dests    = make(map[string]int)
	)
	table.Each(func(r *FlightRecord) {
		if r.DepDelay.Valid {
			dep = append(dep, r.DepDelay.Value)
			if a.isDelayed(r.DepDelay.Value) {
				s.DelayedCount++
			}
		}
		if r.ArrDelay.Valid {
			arr = append(arr, r.ArrDelay.Value)
		}
		if r.DepDelay.Valid && r.ArrDelay.Valid {
			s.Count++
		}
		distance.add(r.Distance)
		origins[r.Origin]++
		dests[r.Dest]++
	})

	s.DepDelay = describe(dep)
	s.ArrDelay = describe(arr)
	s.DelayedRate = rate(s.DelayedCount, s.DepDelay.Count)
	s.AvgDistance = distance.mean()
	s.MostCommonOrigin = mode(origins)
	s.MostCommonDest = mode(dests)

	if worst, ok := a.CarrierStats(table).ByDelayedRate().First(); ok && worst.DelayedRate.Valid {
		s.WorstCarrier = worst.Name
		if s.WorstCarrier == "" {
			s.WorstCarrier = worst.Carrier
		}
	}
	return s
}

// mode 出现次数最多的键，并列时取字典序最小的
func mode(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if k == "" {
			continue
		}
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}
