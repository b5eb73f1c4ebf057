package chart

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

// husl 8色调色板
var palette = []string{
	"#f77189", "#ce9032", "#97a431", "#32b166",
	"#36ada4", "#39a7d0", "#a48cf4", "#f561dd",
}

const (
	marginLeft   = 80.0
	marginRight  = 30.0
	marginTop    = 50.0
	marginBottom = 120.0
	yTicks       = 5
)

// plot 坐标系与公共元素
type plot struct {
	dc          *gg.Context
	title       string
	xLabel      string
	yLabel      string
	labels      []string
	yMin, yMax  float64
	left, right float64
	top, bottom float64
}

func newPlot(width, height int, title, xLabel, yLabel string, labels []string, values ...[]float64) *plot {
	p := &plot{
		dc:     gg.NewContext(width, height),
		title:  title,
		xLabel: xLabel,
		yLabel: yLabel,
		labels: labels,
		left:   marginLeft,
		right:  float64(width) - marginRight,
		top:    marginTop,
		bottom: float64(height) - marginBottom,
	}
	p.yMin, p.yMax = valueRange(values...)
	return p
}

// valueRange 包含0的取值范围，忽略NaN
func valueRange(values ...[]float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, vs := range values {
		for _, v := range vs {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	// 顶部留白
	return lo, hi + (hi-lo)*0.05
}

func (p *plot) y(v float64) float64 {
	return p.bottom - (v-p.yMin)/(p.yMax-p.yMin)*(p.bottom-p.top)
}

// slot 第i个分类的中心位置和宽度
func (p *plot) slot(i int) (float64, float64) {
	w := (p.right - p.left) / float64(len(p.labels))
	return p.left + w*(float64(i)+0.5), w
}

func (p *plot) frame() {
	dc := p.dc
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// 网格与纵轴刻度
	dc.SetLineWidth(1)
	for i := 0; i <= yTicks; i++ {
		v := p.yMin + (p.yMax-p.yMin)*float64(i)/yTicks
		y := p.y(v)
		dc.SetRGB(0.9, 0.9, 0.9)
		dc.DrawLine(p.left, y, p.right, y)
		dc.Stroke()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(formatTick(v), p.left-8, y, 1, 0.5)
	}

	// 坐标轴
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawLine(p.left, p.top, p.left, p.bottom)
	dc.DrawLine(p.left, p.y(0), p.right, p.y(0))
	dc.Stroke()

	// 标题与轴标签
	width := float64(dc.Width())
	dc.DrawStringAnchored(p.title, width/2, p.top/2, 0.5, 0.5)
	dc.DrawStringAnchored(p.xLabel, (p.left+p.right)/2, float64(dc.Height())-15, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 20, (p.top+p.bottom)/2)
	dc.DrawStringAnchored(p.yLabel, 20, (p.top+p.bottom)/2, 0.5, 0.5)
	dc.Pop()

	// 横轴标签，旋转45度
	for i, label := range p.labels {
		x, _ := p.slot(i)
		dc.Push()
		dc.RotateAbout(gg.Radians(-45), x, p.bottom+10)
		dc.DrawStringAnchored(label, x, p.bottom+10, 1, 0.5)
		dc.Pop()
	}
}

// bars 分组柱状图，每个 series 一种颜色，从调色板第 color 个开始
func (p *plot) bars(color int, series ...[]float64) {
	dc := p.dc
	for i := range p.labels {
		x, w := p.slot(i)
		barW := w * 0.8 / float64(len(series))
		start := x - w*0.4
		for s, vs := range series {
			v := vs[i]
			if math.IsNaN(v) {
				continue
			}
			y0, y1 := p.y(0), p.y(v)
			dc.SetHexColor(palette[(color+s)%len(palette)])
			dc.DrawRectangle(start+float64(s)*barW, math.Min(y0, y1), barW, math.Abs(y1-y0))
			dc.Fill()
		}
	}
}

// line 折线加圆点，NaN 处断开
func (p *plot) line(values []float64, color string) {
	dc := p.dc
	dc.SetHexColor(color)
	dc.SetLineWidth(2)
	open := false
	for i, v := range values {
		if math.IsNaN(v) {
			open = false
			continue
		}
		x, _ := p.slot(i)
		if open {
			dc.LineTo(x, p.y(v))
		} else {
			dc.MoveTo(x, p.y(v))
			open = true
		}
	}
	dc.Stroke()
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		x, _ := p.slot(i)
		dc.DrawCircle(x, p.y(v), 4)
		dc.Fill()
	}
}

// legend 右上角图例
func (p *plot) legend(color int, names ...string) {
	dc := p.dc
	for i, name := range names {
		y := p.top + 10 + float64(i)*18
		dc.SetHexColor(palette[(color+i)%len(palette)])
		dc.DrawRectangle(p.right-150, y-6, 12, 12)
		dc.Fill()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(name, p.right-132, y, 0, 0.5)
	}
}

func formatTick(v float64) string {
	if math.Abs(v) >= 100 || v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
