// Package bitmap 用 tinyfont 点阵字体测量并绘制场景，输出 PNG。
//
// 点阵字体不能缩放：字号只用于挑选最接近的 freemono 字面（proggy 用于极小字号），
// 测量与绘制使用同一个字面，因此折行结果与最终像素一致。
package bitmap

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/ByLCY/textwrap/layout"
	"github.com/ByLCY/textwrap/renderer"
)

// 点阵画布的最大边长，受 drivers.Displayer 的 int16 坐标限制。
const maxSide = math.MaxInt16

type variant int

const (
	regular variant = iota
	bold
	oblique
	boldOblique
)

// freemono 字面按字号升序排列，每个字号四个变体。
var faces = []struct {
	pt       float64
	variants [4]tinyfont.Fonter
}{
	{9, [4]tinyfont.Fonter{&freemono.Regular9pt7b, &freemono.Bold9pt7b, &freemono.Oblique9pt7b, &freemono.BoldOblique9pt7b}},
	{12, [4]tinyfont.Fonter{&freemono.Regular12pt7b, &freemono.Bold12pt7b, &freemono.Oblique12pt7b, &freemono.BoldOblique12pt7b}},
	{18, [4]tinyfont.Fonter{&freemono.Regular18pt7b, &freemono.Bold18pt7b, &freemono.Oblique18pt7b, &freemono.BoldOblique18pt7b}},
	{24, [4]tinyfont.Fonter{&freemono.Regular24pt7b, &freemono.Bold24pt7b, &freemono.Oblique24pt7b, &freemono.BoldOblique24pt7b}},
}

// tinyFace 用于 8px 及以下的字号。
var tinyFace tinyfont.Fonter = &proggy.TinySZ8pt7b

// Options 配置点阵渲染器。
type Options struct {
	Background string // 画布底色，空表示透明
}

// Renderer 同时实现 layout.Measurer 与 renderer.Renderer。
type Renderer struct {
	background string

	mu     sync.Mutex
	widths map[widthKey]float64
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type widthKey struct {
	face tinyfont.Fonter
	text string
}

// NewRenderer 创建点阵渲染器。
func NewRenderer(opts Options) *Renderer {
	return &Renderer{background: opts.Background, widths: map[widthKey]float64{}}
}

func tracer() tracing.Trace {
	return tracing.Select("textwrap")
}

// FaceFor 按字号与字重/斜体挑选字面：取 pt 值与 px 字号换算结果最接近者。
func FaceFor(font layout.FontConfig) tinyfont.Fonter {
	if font.Size <= 8 {
		return tinyFace
	}
	v := regular
	switch {
	case font.IsBold() && font.IsItalic():
		v = boldOblique
	case font.IsBold():
		v = bold
	case font.IsItalic():
		v = oblique
	}
	pt := font.Size * layout.PxToPt
	best := faces[0]
	for _, f := range faces[1:] {
		if math.Abs(f.pt-pt) < math.Abs(best.pt-pt) {
			best = f
		}
	}
	return best.variants[v]
}

// Measure 返回 text 在所选字面下的像素宽度（外框宽度）。
func (r *Renderer) Measure(text string, font layout.FontConfig) float64 {
	if text == "" {
		return 0
	}
	key := widthKey{face: FaceFor(font), text: text}
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.widths[key]; ok {
		return w
	}
	_, outbox := tinyfont.LineWidth(key.face, text)
	w := float64(outbox)
	r.widths[key] = w
	return w
}

// Render 把场景绘制到 RGBA 画布并编码为 PNG。
func (r *Renderer) Render(scene *layout.Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("场景为空")
	}
	w, h := int(math.Ceil(scene.Width)), int(math.Ceil(scene.Height))
	if w <= 0 || h <= 0 || w > maxSide || h > maxSide {
		return nil, fmt.Errorf("点阵画布尺寸 %dx%d 超出范围", w, h)
	}
	display := newImageDisplay(w, h)
	if r.background != "" {
		bg, ok := renderer.ParseColor(r.background)
		if !ok {
			tracer().Infof("unknown background %q, using black", r.background)
		}
		display.fill(bg)
	}
	for _, tb := range scene.Boxes() {
		r.drawTextBox(display, tb)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, display.img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawTextBox(d *imageDisplay, tb *layout.TextBox) {
	w, h := d.Size()
	look := tb.Appearance()
	if !look.Visible || tb.LineCount() == 0 {
		return
	}
	fill, _ := renderer.ParseColor(look.Fill)
	col := renderer.WithOpacity(fill, look.Opacity)
	font := tb.Font()
	face := FaceFor(font)

	for i, line := range tb.Lines() {
		if line == "" {
			continue
		}
		lineWidth := tb.MeasureLine(line)
		x := tb.Left() + tb.Align().Offset(tb.Width()) - tb.Align().Offset(lineWidth)
		x0, y, ok := lineOrigin(x, tb.Baseline(i), lineWidth, font.Size, w, h)
		if !ok {
			tracer().Debugf("box %s: line %d at (%.0f, %.0f) is off canvas, skipped", tb.ID, i, x, tb.Baseline(i))
			continue
		}
		if font.CharSpacing == 0 {
			tinyfont.WriteLine(d, face, x0, y, line, col)
			continue
		}
		for _, ch := range line {
			s := string(ch)
			tinyfont.WriteLine(d, face, int16(math.Round(x)), y, s, col)
			x += r.Measure(s, font) + font.CharSpacing
		}
	}
}

// lineOrigin 把行起点换算成 int16 坐标。整行完全落在画布外，
// 或字形可能越出 int16 范围时返回 false，调用方跳过该行。
func lineOrigin(x, baseline, width, size float64, w, h int16) (int16, int16, bool) {
	guard := 2*size + 64
	switch {
	case math.IsNaN(x) || math.IsNaN(baseline):
		return 0, 0, false
	case x+width < 0 || x > float64(w):
		return 0, 0, false
	case baseline+guard < 0 || baseline-guard > float64(h):
		return 0, 0, false
	case x-guard < math.MinInt16 || x+width+guard > math.MaxInt16:
		return 0, 0, false
	case baseline-guard < math.MinInt16 || baseline+guard > math.MaxInt16:
		return 0, 0, false
	}
	return int16(math.Round(x)), int16(math.Round(baseline)), true
}

// cached 返回宽度缓存的条目数。
func (r *Renderer) cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widths)
}
