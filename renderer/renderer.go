package renderer

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/ByLCY/textwrap/layout"
)

// Renderer 将排好版的场景输出为最终文件，例如 PDF、SVG 或图像。
// Render 返回生成的二进制数据以及可能的错误；它只消费 TextBox.Lines()，不再折行。
type Renderer interface {
	Render(scene *layout.Scene) ([]byte, error)
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa、rgb(...)、rgba(...) 与 CSS 颜色名。
// 无法识别时返回不透明黑色与 false。
func ParseColor(s string) (color.RGBA, bool) {
	black := color.RGBA{A: 0xff}
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return black, false
	case v == "transparent" || v == "none":
		return color.RGBA{}, true
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return c, true
	}
	return black, false
}

func parseHex(h string) (color.RGBA, bool) {
	black := color.RGBA{A: 0xff}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return black, false
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return black, false
	}
	return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, true
}

// parseRGBFunc 解析 rgb(r,g,b) 与 rgba(r,g,b,a)，a 取 0..1。
func parseRGBFunc(v string) (color.RGBA, bool) {
	black := color.RGBA{A: 0xff}
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return black, false
	}
	parts := strings.Split(v[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return black, false
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return black, false
		}
		ch[i] = f
	}
	clamp := func(f, hi float64) float64 { return max(0, min(f, hi)) }
	return color.RGBA{
		R: uint8(clamp(ch[0], 255)),
		G: uint8(clamp(ch[1], 255)),
		B: uint8(clamp(ch[2], 255)),
		A: uint8(clamp(ch[3], 1)*255 + 0.5),
	}, true
}

// WithOpacity 按 opacity（0..1）缩放颜色的透明度。返回值不做预乘。
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	opacity = max(0, min(opacity, 1))
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
