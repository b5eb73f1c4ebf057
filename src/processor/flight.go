package processor

import (
	"fmt"
	"math"
)

// DefaultDelayThreshold 延误判定阈值(分钟)，起飞延误大于该值视为延误航班
const DefaultDelayThreshold = 15.0

// NullFloat 可缺失的数值
// 取消/备降航班的延误字段为空，Valid=false 表示缺失，不能按0处理
type NullFloat struct {
	Value float64
	Valid bool
}

// Float 构造一个有效值
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// Missing 构造一个缺失值
func Missing() NullFloat {
	return NullFloat{}
}

// OrNaN 缺失时返回NaN，用于绘图和导出
func (n NullFloat) OrNaN() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "NA"
	}
	return fmt.Sprintf("%.2f", n.Value)
}

// FlightRecord 单个航班记录
type FlightRecord struct {
	Year         int
	Month        int
	Day          int
	DepTime      NullFloat // 实际起飞时刻(hhmm)
	SchedDepTime int       // 计划起飞时刻(hhmm)
	DepDelay     NullFloat // 起飞延误(分钟)，负数为提前
	ArrTime      NullFloat
	SchedArrTime int
	ArrDelay     NullFloat // 到达延误(分钟)
	Carrier      string    // 航司代码
	Name         string    // 航司全称
	Flight       string
	TailNum      string
	Origin       string
	Dest         string
	AirTime      NullFloat
	Distance     NullFloat
	Hour         int // 计划起飞小时
	Minute       int
}

// FlightTable 航班表，加载后只读
type FlightTable struct {
	records []FlightRecord
}

// NewFlightTable 用给定记录创建航班表，记录会被复制
func NewFlightTable(records []FlightRecord) *FlightTable {
	cp := make([]FlightRecord, len(records))
	copy(cp, records)
	return &FlightTable{records: cp}
}

// Len 记录数，nil表视为空表
func (t *FlightTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At 返回第i条记录
func (t *FlightTable) At(i int) FlightRecord {
	return t.records[i]
}

// Each 依次遍历所有记录
func (t *FlightTable) Each(fn func(r *FlightRecord)) {
	if t == nil {
		return
	}
	for i := range t.records {
		fn(&t.records[i])
	}
}

// Filter 返回满足条件的子表
func (t *FlightTable) Filter(keep func(r *FlightRecord) bool) *FlightTable {
	out := &FlightTable{}
	t.Each(func(r *FlightRecord) {
		if keep(r) {
			out.records = append(out.records, *r)
		}
	})
	return out
}

// ByCarrier 按航司代码或航司名称筛选(精确匹配，区分大小写)
func (t *FlightTable) ByCarrier(carrier string) *FlightTable {
	return t.Filter(func(r *FlightRecord) bool {
		return r.Carrier == carrier || r.Name == carrier
	})
}
