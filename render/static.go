// Package render draws a path as a static chart or as an interactive web map.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"velograph/algo"
	"velograph/config"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	pathColor   = color.NRGBA{R: 0, G: 0, B: 255, A: 178}
	dotColor    = color.NRGBA{R: 0, G: 0, B: 255, A: 128}
	startColor  = color.NRGBA{R: 0, G: 128, B: 0, A: 255}
	endColor    = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	gridColor   = color.NRGBA{R: 128, G: 128, B: 128, A: 77}
	wheatColor  = color.NRGBA{R: 245, G: 222, B: 179, A: 128}
	rasterTypes = map[string]bool{"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true}
)

// StaticOptions 静态图尺寸
type StaticOptions struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultStaticOptions 12x10 英寸, 150 DPI
func DefaultStaticOptions() StaticOptions {
	return StaticOptionsFrom(config.Default().Render)
}

// StaticOptionsFrom 从配置里取尺寸
func StaticOptionsFrom(rc config.RenderConfig) StaticOptions {
	return StaticOptions{
		Width:  vg.Length(rc.WidthInches) * vg.Inch,
		Height: vg.Length(rc.HeightInches) * vg.Inch,
		DPI:    rc.DPI,
	}
}

// NewPlot 构建路径图: 蓝色路径线, 绿色起点, 红色终点, 中间节点画成小点,
// 左上角是统计信息
func NewPlot(p *algo.Path) (*plot.Plot, error) {
	stats, err := p.Stats()
	if err != nil {
		return nil, err
	}

	xys := make(plotter.XYs, p.Len())
	for i, n := range p.Nodes {
		xys[i].X = n.Lon
		xys[i].Y = n.Lat
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("VeloGraph Path Visualization (%d nodes)", stats.Nodes)
	plt.Title.TextStyle.Font.Size = vg.Points(14)
	plt.Title.TextStyle.Font.Weight = xfont.WeightBold
	plt.X.Label.Text = "Longitude"
	plt.X.Label.TextStyle.Font.Size = vg.Points(12)
	plt.Y.Label.Text = "Latitude"
	plt.Y.Label.TextStyle.Font.Size = vg.Points(12)
	plt.X.Tick.Marker = coordTicks
	plt.Y.Tick.Marker = coordTicks

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	plt.Add(grid)

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("绘制路径失败: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = pathColor
	plt.Add(line)

	if len(xys) > 2 {
		dots, err := plotter.NewScatter(xys[1 : len(xys)-1])
		if err != nil {
			return nil, fmt.Errorf("绘制中间节点失败: %w", err)
		}
		dots.GlyphStyle.Shape = draw.CircleGlyph{}
		dots.GlyphStyle.Radius = vg.Points(1.5)
		dots.GlyphStyle.Color = dotColor
		plt.Add(dots)
	}

	start, err := marker(xys[:1], startColor)
	if err != nil {
		return nil, err
	}
	end, err := marker(xys[len(xys)-1:], endColor)
	if err != nil {
		return nil, err
	}
	plt.Add(start, end)

	plt.Add(newStatsBox(stats.Text()))

	plt.Legend.Add("Path", line)
	plt.Legend.Add("Start", start)
	plt.Legend.Add("End", end)
	plt.Legend.Top = true

	return plt, nil
}

// coordTicks 经纬度刻度: 位置沿用 plot.DefaultTicks, 标签按刻度间距取足够的小数位,
// 城市范围的路径跨度往往不到 0.01 度, 默认格式会把几个刻度都标成同一个数
var coordTicks = plot.TickerFunc(func(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)

	var major []float64
	for _, t := range ticks {
		if t.Label != "" {
			major = append(major, t.Value)
		}
	}

	prec := 0
	step := math.Inf(1)
	for i := 1; i < len(major); i++ {
		step = math.Min(step, major[i]-major[i-1])
	}
	if step > 0 && !math.IsInf(step, 1) {
		prec = max(0, int(math.Ceil(-math.Log10(step))))
	}
	for prec < 10 && !distinctLabels(major, prec) {
		prec++
	}

	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = strconv.FormatFloat(ticks[i].Value, 'f', prec, 64)
		}
	}
	return ticks
})

func distinctLabels(values []float64, prec int) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		l := strconv.FormatFloat(v, 'f', prec, 64)
		if seen[l] {
			return false
		}
		seen[l] = true
	}
	return true
}

// statsBox 绘图区左上角的统计信息框, 半透明小麦色底
type statsBox struct {
	text    string
	style   text.Style
	fill    color.Color
	padding vg.Length
}

func newStatsBox(txt string) *statsBox {
	fnt := font.From(plot.DefaultFont, vg.Points(9))
	fnt.Variant = "Mono"
	return &statsBox{
		text: txt,
		style: text.Style{
			Color:   color.Black,
			Font:    fnt,
			XAlign:  text.XLeft,
			YAlign:  text.YTop,
			Handler: plot.DefaultTextHandler,
		},
		fill:    wheatColor,
		padding: vg.Points(4),
	}
}

// Rect 框在画布上的位置, 锚在绘图区宽高的 2% 处
func (b *statsBox) Rect(c draw.Canvas) vg.Rectangle {
	x := c.Min.X + 0.02*(c.Max.X-c.Min.X)
	top := c.Max.Y - 0.02*(c.Max.Y-c.Min.Y)
	w := b.style.Width(b.text) + 2*b.padding
	h := b.style.Height(b.text) + 2*b.padding
	return vg.Rectangle{
		Min: vg.Point{X: x, Y: top - h},
		Max: vg.Point{X: x + w, Y: top},
	}
}

// Plot 实现 plot.Plotter: 先画底色再写字
func (b *statsBox) Plot(c draw.Canvas, _ *plot.Plot) {
	r := b.Rect(c)
	c.FillPolygon(b.fill, []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	})
	c.FillText(b.style, vg.Point{X: r.Min.X + b.padding, Y: r.Max.Y - b.padding}, b.text)
}

func marker(xys plotter.XYs, c color.Color) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("绘制端点失败: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(6)
	s.GlyphStyle.Color = c
	return s, nil
}

// FormatFromFilename 根据扩展名确定输出格式, 没有扩展名时为 png
func FormatFromFilename(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "png"
	}
	return ext
}

// WriteStatic 把路径图写入文件, 格式由扩展名决定
func WriteStatic(p *algo.Path, filename string, opts StaticOptions) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}

	if err := WriteStaticTo(f, p, FormatFromFilename(filename), opts); err != nil {
		f.Close()
		os.Remove(filename)
		return err
	}
	return f.Close()
}

// WriteStaticTo 把路径图按 format 写入 w
// 栅格格式 (png/jpg/tiff) 使用 opts.DPI, 其余格式 (svg/pdf/eps) 交给 plot 自己处理
func WriteStaticTo(w io.Writer, p *algo.Path, format string, opts StaticOptions) error {
	plt, err := NewPlot(p)
	if err != nil {
		return err
	}

	if !rasterTypes[format] {
		wt, err := plt.WriterTo(opts.Width, opts.Height, format)
		if err != nil {
			return fmt.Errorf("不支持的输出格式 %q: %w", format, err)
		}
		if _, err := wt.WriteTo(w); err != nil {
			return fmt.Errorf("写入图片失败: %w", err)
		}
		return nil
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	plt.Draw(draw.New(c))

	var wt io.WriterTo
	switch format {
	case "png":
		wt = vgimg.PngCanvas{Canvas: c}
	case "jpg", "jpeg":
		wt = vgimg.JpegCanvas{Canvas: c}
	default:
		wt = vgimg.TiffCanvas{Canvas: c}
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("写入图片失败: %w", err)
	}
	return nil
}
