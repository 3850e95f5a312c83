package layout

import "strings"

// 默认排版参数，与画布端文本对象的缺省值保持一致。
const (
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 40.0
	DefaultFontWeight = "normal"
	DefaultFontStyle  = "normal"
	DefaultLineHeight = 1.16
	DefaultWidth      = 100.0
	DefaultMinWidth   = 20.0
	DefaultFill       = "black"
)

// FontConfig 描述决定字形宽度与行距的样式元组。单位为像素（px）。
type FontConfig struct {
	Family      string  `json:"family"`
	Size        float64 `json:"size"`
	Weight      string  `json:"weight"`
	Style       string  `json:"style"`
	LineHeight  float64 `json:"lineHeight"` // 字号的倍数
	CharSpacing float64 `json:"charSpacing"`
}

// DefaultFont 返回缺省字体配置。
func DefaultFont() FontConfig {
	return FontConfig{
		Family:     DefaultFontFamily,
		Size:       DefaultFontSize,
		Weight:     DefaultFontWeight,
		Style:      DefaultFontStyle,
		LineHeight: DefaultLineHeight,
	}
}

// LinePitch 是相邻两行基线的距离：Size * LineHeight。
func (f FontConfig) LinePitch() float64 { return f.Size * f.LineHeight }

// IsBold reports whether Weight names a bold-ish face ("bold", "bolder" or a numeric weight >= 600).
func (f FontConfig) IsBold() bool {
	w := strings.ToLower(strings.TrimSpace(f.Weight))
	switch w {
	case "bold", "bolder":
		return true
	case "600", "700", "800", "900":
		return true
	}
	return strings.Contains(w, "bold") && !strings.Contains(w, "semi")
}

// IsItalic reports whether Style asks for an italic or oblique face.
func (f FontConfig) IsItalic() bool {
	s := strings.ToLower(f.Style)
	return strings.Contains(s, "italic") || strings.Contains(s, "oblique")
}

// withDefaults 用缺省值补齐非法或缺失的字段（字号、行高必须为正）。
func (f FontConfig) withDefaults() FontConfig {
	if f.Family == "" {
		f.Family = DefaultFontFamily
	}
	if f.Size <= 0 {
		f.Size = DefaultFontSize
	}
	if f.Weight == "" {
		f.Weight = DefaultFontWeight
	}
	if f.Style == "" {
		f.Style = DefaultFontStyle
	}
	if f.LineHeight <= 0 {
		f.LineHeight = DefaultLineHeight
	}
	return f
}

// Align 是文本水平对齐方式。
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify" // 按 left 处理，不做两端对齐
)

// ParseAlign 解析对齐方式，未知值回退为 left。
func ParseAlign(v string) Align {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	case "justify":
		return AlignJustify
	default:
		return AlignLeft
	}
}

// Offset 返回该对齐方式在宽度为 width 的盒子内的锚点横坐标。
func (a Align) Offset(width float64) float64 {
	switch a {
	case AlignCenter:
		return width / 2
	case AlignRight:
		return width
	default:
		return 0
	}
}

// TextAnchor returns the SVG text-anchor keyword for the alignment.
func (a Align) TextAnchor() string {
	switch a {
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "end"
	default:
		return "start"
	}
}
