package layout

import (
	"math"
	"unicode/utf8"
)

// Kind 区分两种文本盒：不折行的 Text 与按宽度折行的 Textbox。
type Kind int

const (
	KindTextbox Kind = iota // 宽度是外部约束，高度由折行结果推出
	KindText                // 只按显式换行分行，宽度 = 最宽一行
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "textbox"
}

// Appearance 是不参与排版的外观属性。
type Appearance struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
	Visible     bool    `json:"visible"`
}

// Props 是 Set 的类型化部分更新：nil 字段表示不修改。
//
// 各字段的影响：
//   - Text：重新分段并重新折行
//   - Width / MinWidth：宽度夹到 >= MinWidth 后重新折行（不清缓存）
//   - SplitByGrapheme：重新折行
//   - FontFamily / FontSize / FontWeight / FontStyle / LineHeight / CharSpacing：清空测量缓存并重新折行
//   - Left / Top / Align / 外观 / 选区：只更新字段
type Props struct {
	Text            *string
	Left            *float64
	Top             *float64
	Width           *float64
	MinWidth        *float64
	SplitByGrapheme *bool

	FontFamily  *string
	FontSize    *float64
	FontWeight  *string
	FontStyle   *string
	LineHeight  *float64
	CharSpacing *float64

	Align       *Align
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
	Opacity     *float64
	Visible     *bool

	Editable       *bool
	SelectionColor *string
}

// Ptr 返回 v 的指针，方便构造 Props。
func Ptr[T any](v T) *T { return &v }

// TextBox 是一个带样式的文本块及其排版结果。
//
// 任何影响排版的修改都会在方法返回前重新计算 Lines 与 Height，
// 调用方通过 API 永远读不到过期的排版。TextBox 不是并发安全的。
type TextBox struct {
	ID string

	kind            Kind
	text            string
	left, top       float64
	width, minWidth float64
	splitByGrapheme bool
	font            FontConfig
	align           Align
	appearance      Appearance
	selection       Selection

	measurer Measurer
	cache    *measureCache

	lines  []string
	height float64
}

// NewTextbox 创建按宽度自动折行的文本盒，构造时即完成一次折行。
func NewTextbox(text string, props Props, m Measurer) *TextBox {
	return newTextBox(KindTextbox, text, props, m)
}

// NewText 创建不折行的文本，宽度由最宽的一行决定。
func NewText(text string, props Props, m Measurer) *TextBox {
	return newTextBox(KindText, text, props, m)
}

func newTextBox(kind Kind, text string, props Props, m Measurer) *TextBox {
	if m == nil {
		m = FixedMeasurer{}
	}
	tb := &TextBox{
		kind:     kind,
		text:     text,
		width:    DefaultWidth,
		minWidth: DefaultMinWidth,
		font:     DefaultFont(),
		align:    AlignLeft,
		appearance: Appearance{
			Fill:        DefaultFill,
			StrokeWidth: 1,
			Opacity:     1,
			Visible:     true,
		},
		selection: Selection{Color: DefaultSelectionColor, Editable: true},
		measurer:  m,
		cache:     newMeasureCache(),
	}
	tb.apply(props)
	tb.clampWidth()
	tb.relayout()
	return tb
}

// Kind 返回文本盒类型。
func (tb *TextBox) Kind() Kind { return tb.kind }

// Text 返回原始文本。
func (tb *TextBox) Text() string { return tb.text }

// Lines 返回排版后的行（副本）。行号即渲染顺序。
func (tb *TextBox) Lines() []string {
	out := make([]string, len(tb.lines))
	copy(out, tb.lines)
	return out
}

// LineCount 返回行数。
func (tb *TextBox) LineCount() int { return len(tb.lines) }

func (tb *TextBox) Width() float64         { return tb.width }
func (tb *TextBox) MinWidth() float64      { return tb.minWidth }
func (tb *TextBox) Height() float64        { return tb.height }
func (tb *TextBox) Left() float64          { return tb.left }
func (tb *TextBox) Top() float64           { return tb.top }
func (tb *TextBox) SplitByGrapheme() bool  { return tb.splitByGrapheme }
func (tb *TextBox) Font() FontConfig       { return tb.font }
func (tb *TextBox) Align() Align           { return tb.align }
func (tb *TextBox) Appearance() Appearance { return tb.appearance }
func (tb *TextBox) Selection() Selection   { return tb.selection }
func (tb *TextBox) Measurer() Measurer     { return tb.measurer }

// SetText 替换文本并重新折行。
func (tb *TextBox) SetText(text string) *TextBox {
	tb.text = text
	tb.relayout()
	return tb
}

// SetWidth 设置宽度约束（夹到 >= MinWidth）并重新折行。对 Text 无效：其宽度由内容决定。
func (tb *TextBox) SetWidth(width float64) *TextBox {
	if tb.kind == KindText {
		return tb
	}
	tb.width = math.Max(width, tb.minWidth)
	tb.relayout()
	return tb
}

// SetFontSize 修改字号，清空测量缓存并重新排版。
func (tb *TextBox) SetFontSize(size float64) *TextBox {
	return tb.Set(Props{FontSize: &size})
}

// SetFontFamily 修改字体族，清空测量缓存并重新排版。
func (tb *TextBox) SetFontFamily(family string) *TextBox {
	return tb.Set(Props{FontFamily: &family})
}

// SetMeasurer 更换测量后端；旧后端的缓存宽度全部作废。
func (tb *TextBox) SetMeasurer(m Measurer) *TextBox {
	if m == nil {
		return tb
	}
	tb.measurer = m
	tb.cache.clear()
	tb.relayout()
	return tb
}

// Set 批量更新属性。影响排版的字段会在返回前触发重新折行。
func (tb *TextBox) Set(props Props) *TextBox {
	fontChanged, layoutChanged := tb.apply(props)
	if fontChanged {
		tracer().Debugf("textbox %s: font changed, dropping %d cached widths", tb.ID, tb.cache.len())
		tb.cache.clear()
	}
	if props.Width != nil || props.MinWidth != nil {
		tb.clampWidth()
	}
	if fontChanged || layoutChanged {
		tb.relayout()
	}
	return tb
}

// apply 只写字段，不做排版；返回字体字段或其他排版字段是否被修改。
func (tb *TextBox) apply(p Props) (fontChanged, layoutChanged bool) {
	if p.Text != nil {
		tb.text = *p.Text
		layoutChanged = true
	}
	if p.Width != nil && tb.kind == KindTextbox {
		tb.width = *p.Width
		layoutChanged = true
	}
	if p.MinWidth != nil {
		tb.minWidth = *p.MinWidth
		layoutChanged = true
	}
	if p.SplitByGrapheme != nil {
		tb.splitByGrapheme = *p.SplitByGrapheme
		layoutChanged = true
	}

	font := tb.font
	if p.FontFamily != nil {
		font.Family = *p.FontFamily
	}
	if p.FontSize != nil {
		font.Size = *p.FontSize
	}
	if p.FontWeight != nil {
		font.Weight = *p.FontWeight
	}
	if p.FontStyle != nil {
		font.Style = *p.FontStyle
	}
	if p.LineHeight != nil {
		font.LineHeight = *p.LineHeight
	}
	if p.CharSpacing != nil {
		font.CharSpacing = *p.CharSpacing
	}
	font = font.withDefaults()
	if font != tb.font {
		tb.font = font
		fontChanged = true
	}

	if p.Left != nil {
		tb.left = *p.Left
	}
	if p.Top != nil {
		tb.top = *p.Top
	}
	if p.Align != nil {
		tb.align = *p.Align
	}
	if p.Fill != nil {
		tb.appearance.Fill = *p.Fill
	}
	if p.Stroke != nil {
		tb.appearance.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		tb.appearance.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		tb.appearance.Opacity = *p.Opacity
	}
	if p.Visible != nil {
		tb.appearance.Visible = *p.Visible
	}
	if p.Editable != nil {
		tb.selection.Editable = *p.Editable
	}
	if p.SelectionColor != nil {
		tb.selection.Color = *p.SelectionColor
	}
	return fontChanged, layoutChanged
}

func (tb *TextBox) clampWidth() {
	if tb.kind == KindTextbox {
		tb.width = math.Max(tb.width, tb.minWidth)
	}
}

// relayout 重新分行并计算尺寸。
func (tb *TextBox) relayout() {
	switch tb.kind {
	case KindText:
		tb.lines = SplitParagraphs(tb.text)
		if tb.lines == nil {
			tb.lines = []string{}
		}
		width := 0.0
		for _, line := range tb.lines {
			width = math.Max(width, tb.MeasureLine(line))
		}
		tb.width = width
	default:
		tb.lines = WrapText(tb.text, tb.width, tb.splitByGrapheme, tb.MeasureLine)
	}
	tb.height = float64(len(tb.lines)) * tb.font.LinePitch()
	if n := len(tb.text); n > 0 {
		tracer().Debugf("textbox %s: %d bytes -> %d lines, %.2fx%.2f", tb.ID, n, len(tb.lines), tb.width, tb.height)
	}
}

// MeasureLine 返回一行在当前字体下的宽度（含字间距），结果按结构化键缓存。
func (tb *TextBox) MeasureLine(line string) float64 {
	if line == "" {
		return 0
	}
	key := newMeasureKey(line, tb.font)
	if w, ok := tb.cache.get(key); ok {
		return w
	}
	w := tb.measurer.Measure(line, tb.font)
	if tb.font.CharSpacing != 0 {
		w += float64(utf8.RuneCountInString(line)-1) * tb.font.CharSpacing
	}
	tb.cache.put(key, w)
	return w
}

// CachedWidths 返回测量缓存中的条目数。
func (tb *TextBox) CachedWidths() int { return tb.cache.len() }
