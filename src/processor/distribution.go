package processor

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins 延误分布默认分箱数
const DefaultHistogramBins = 50

// DelayDistribution 正起飞延误的直方图
// Edges 长度为 len(Counts)+1
type DelayDistribution struct {
	Edges  []float64
	Counts []float64
	Total  int
}

// IsEmpty 没有正延误数据
func (d DelayDistribution) IsEmpty() bool {
	return d.Total == 0
}

// DelayDistribution 统计起飞延误大于0的航班分布
func (a *Analyzer) DelayDistribution(table *FlightTable, carrier string, bins int) (DelayDistribution, error) {
	if bins <= 0 {
		return DelayDistribution{}, fmt.Errorf("bins must be positive, got %d: %w", bins, ErrInvalidParameter)
	}
	if carrier != "" {
		table = table.ByCarrier(carrier)
		if table.Len() == 0 {
			return DelayDistribution{}, fmt.Errorf("carrier %q matches no records: %w", carrier, ErrInvalidParameter)
		}
	}

	var delays []float64
	table.Each(func(r *FlightRecord) {
		if r.DepDelay.Valid && r.DepDelay.Value > 0 {
			delays = append(delays, r.DepDelay.Value)
		}
	})
	if len(delays) == 0 {
		return DelayDistribution{}, nil
	}
	sort.Float64s(delays)

	lo, hi := delays[0], delays[len(delays)-1]
	if hi == lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	// 最后一个边界需严格大于最大值
	edges[bins] = math.Nextafter(hi, math.Inf(1))

	return DelayDistribution{
		Edges:  edges,
		Counts: stat.Histogram(nil, edges, delays, nil),
		Total:  len(delays),
	}, nil
}
