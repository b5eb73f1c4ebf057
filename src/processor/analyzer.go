package processor

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Analyzer 航班延误统计
// 无状态，所有方法都是航班表和参数的纯函数，可并发调用
type Analyzer struct {
	Threshold float64 // 延误判定阈值(分钟)
}

// NewAnalyzer 创建统计器，threshold 为负数时使用默认阈值
func NewAnalyzer(threshold float64) *Analyzer {
	if threshold < 0 {
		threshold = DefaultDelayThreshold
	}
	return &Analyzer{Threshold: threshold}
}

// isDelayed 起飞延误超过阈值
func (a *Analyzer) isDelayed(delay float64) bool {
	return delay > a.Threshold
}

// meanAcc 均值累加器，只累计有效值
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v NullFloat) {
	if !v.Valid {
		return
	}
	m.sum += v.Value
	m.n++
}

func (m meanAcc) mean() NullFloat {
	if m.n == 0 {
		return Missing()
	}
	return Float(m.sum / float64(m.n))
}

// rate 计算比例，分母为0时返回缺失
func rate(num, den int) NullFloat {
	if den == 0 {
		return Missing()
	}
	return Float(float64(num) / float64(den))
}

// DelayStats 单个延误字段的描述统计
type DelayStats struct {
	Count  int
	Mean   NullFloat
	Median NullFloat
	Std    NullFloat
}

func describe(values []float64) DelayStats {
	if len(values) == 0 {
		return DelayStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	ds := DelayStats{
		Count:  len(sorted),
		Mean:   Float(stat.Mean(sorted, nil)),
		Median: Float(median(sorted)),
		Std:    Float(0),
	}
	if len(sorted) > 1 {
		ds.Std = Float(stat.StdDev(sorted, nil))
	}
	return ds
}

// median 要求输入已排序，偶数个取中间两数的平均
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
