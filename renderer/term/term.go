// Package term 在终端中预览折行结果。
//
// 终端以单元格计宽：Measurer 把 uniseg 给出的单元格数乘以 CellWidth 换算成 px，
// 预览时再按同一比例把文本盒宽度换回单元格，画出标尺并标红超宽的行
// （只有一个字符也放不下时才会超宽）。
package term

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/tracing"
	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/ByLCY/textwrap/layout"
	"github.com/ByLCY/textwrap/renderer"
)

// DefaultWidth 是无法读取终端尺寸时的预览宽度（列）。
const DefaultWidth = 80

// Measurer 以终端单元格计宽。CellWidth 是一个单元格对应的 px，<= 0 时按 1 处理。
type Measurer struct {
	CellWidth float64
}

var _ layout.Measurer = Measurer{}

func (m Measurer) cell() float64 {
	if m.CellWidth <= 0 {
		return 1
	}
	return m.CellWidth
}

// Measure 实现 layout.Measurer。东亚宽字符占两个单元格，组合字符不占。
func (m Measurer) Measure(text string, _ layout.FontConfig) float64 {
	return float64(uniseg.StringWidth(text)) * m.cell()
}

// Cells 把 px 宽度换算成单元格数（向上取整）。
func (m Measurer) Cells(px float64) int {
	return int(math.Ceil(px/m.cell() - 1e-9))
}

// Options 控制预览输出。
type Options struct {
	Color bool // 使用 ANSI 颜色
	Ruler bool // 在每个文本盒上方画出宽度标尺
	Width int  // 终端列数，<= 0 时取 DefaultWidth
}

// MeasurerFor 返回把场景宽度映射到 width 列的 Measurer。
func MeasurerFor(scene *layout.Scene, width int) Measurer {
	if width <= 0 {
		width = DefaultWidth
	}
	if scene == nil || scene.Width <= 0 {
		return Measurer{CellWidth: 1}
	}
	return Measurer{CellWidth: scene.Width / float64(width)}
}

// TerminalWidth 读取 fd 对应终端的列数，不是终端或读取失败时返回 DefaultWidth。
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w < 10 {
		return DefaultWidth
	}
	return w
}

func tracer() tracing.Trace {
	return tracing.Select("textwrap")
}

// Renderer 把场景渲染为终端预览文本，实现 renderer.Renderer。
type Renderer struct {
	opts Options

	header   *color.Color
	ruler    *color.Color
	overflow *color.Color
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建终端预览渲染器。
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	r := &Renderer{
		opts:     opts,
		header:   color.New(color.FgCyan, color.Bold),
		ruler:    color.New(color.FgHiBlack),
		overflow: color.New(color.FgRed, color.Underline),
	}
	for _, c := range []*color.Color{r.header, r.ruler, r.overflow} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(scene *layout.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Preview(&buf, scene); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Preview 逐个文本盒输出折行结果。盒子的测量器若不是 Measurer，
// 则按 MeasurerFor(scene, Width) 的比例把 px 换算为单元格。
func (r *Renderer) Preview(w io.Writer, scene *layout.Scene) error {
	if scene == nil {
		return fmt.Errorf("场景为空")
	}
	m, ok := scene.Measurer().(Measurer)
	if !ok {
		m = MeasurerFor(scene, r.opts.Width)
	}
	for i, tb := range scene.Boxes() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := r.previewBox(w, tb, m); err != nil {
			return fmt.Errorf("预览文本盒 %s 失败: %w", tb.ID, err)
		}
	}
	return nil
}

func (r *Renderer) previewBox(w io.Writer, tb *layout.TextBox, m Measurer) error {
	cells := max(m.Cells(tb.Width()), 1)
	title := fmt.Sprintf("%s (%s, %d 行, 宽 %d 列)", tb.ID, tb.Kind(), tb.LineCount(), cells)
	if !tb.Appearance().Visible {
		title += " [hidden]"
	}
	if _, err := r.header.Fprintln(w, title); err != nil {
		return err
	}
	if r.opts.Ruler {
		if _, err := r.ruler.Fprintln(w, "  "+Ruler(cells)); err != nil {
			return err
		}
	}
	for _, line := range tb.Lines() {
		used := m.Cells(tb.MeasureLine(line))
		if used > cells {
			tracer().Debugf("box %s: line %q overflows %d > %d cells", tb.ID, line, used, cells)
			if _, err := fmt.Fprintf(w, "  %s\n", r.overflow.Sprint(line)); err != nil {
				return err
			}
			continue
		}
		pad := 0
		switch tb.Align() {
		case layout.AlignCenter:
			pad = (cells - used) / 2
		case layout.AlignRight:
			pad = cells - used
		}
		if _, err := fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), line); err != nil {
			return err
		}
	}
	return nil
}

// Ruler 返回 n 列宽的标尺，每 10 列一个数字刻度，每 5 列一个 '+'。
func Ruler(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		switch {
		case i%10 == 0:
			b.WriteByte(byte('0' + i/10%10))
		case i%5 == 0:
			b.WriteByte('+')
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
