// Package markup 把排好版的文本盒序列化为 SVG 文本。
//
// 序列化只消费 TextBox.Lines()：每一行对应一个 <tspan>，不会重新折行或测量。
package markup

import (
	"math"
	"strings"

	"github.com/ByLCY/textwrap/layout"
)

const svgNS = "http://www.w3.org/2000/svg"

// 包装 <svg> 的最小尺寸（px）。
const (
	minWrapperWidth  = 100.0
	minWrapperHeight = 50.0
)

// Options 控制导出形态。
type Options struct {
	IncludeWrapper  bool // 输出完整的 <svg> 文档；false 时只输出片段
	IncludePosition bool // left/top 非零时用 translate 包一层 <g>
	IncludeBounds   bool // 叠加一个虚线矩形标出文本盒边界，便于调试
}

// DefaultOptions 返回缺省导出选项：带包装、带定位、不画边界。
func DefaultOptions() Options {
	return Options{IncludeWrapper: true, IncludePosition: true}
}

// Export 导出单个文本盒。没有文本时返回空的 <svg>，不带包装时返回空串。
func Export(tb *layout.TextBox, opts Options) string {
	if tb == nil || tb.Text() == "" || tb.LineCount() == 0 {
		if opts.IncludeWrapper {
			return element("svg", []attr{{"xmlns", svgNS}}, "")
		}
		return ""
	}

	content := fragment(tb, opts)
	if !opts.IncludeWrapper {
		return content
	}
	w := math.Max(tb.Width()+tb.Left(), math.Max(tb.MinWidth(), minWrapperWidth))
	h := math.Max(tb.Height()+tb.Top(), minWrapperHeight)
	return element("svg", []attr{
		{"xmlns", svgNS},
		{"width", num(w)},
		{"height", num(h)},
		{"viewBox", "0 0 " + num(w) + " " + num(h)},
	}, content)
}

// ExportScene 按绘制顺序导出场景中的全部文本盒，包装尺寸取场景尺寸。
func ExportScene(scene *layout.Scene, opts Options) string {
	if scene == nil {
		return ""
	}
	boxOpts := opts
	boxOpts.IncludeWrapper = false

	var parts []string
	for _, tb := range scene.Boxes() {
		if svg := Export(tb, boxOpts); svg != "" {
			parts = append(parts, svg)
		}
	}
	body := strings.Join(parts, "\n")
	if !opts.IncludeWrapper {
		return body
	}
	w, h := num(scene.Width), num(scene.Height)
	return "<svg" + attrs([]attr{
		{"xmlns", svgNS},
		{"width", w},
		{"height", h},
		{"viewBox", "0 0 " + w + " " + h},
	}) + ">\n" + body + "\n</svg>"
}

// emptyLine 占住空行，使后续行的 dy 仍按行距累加。
const emptyLine = "\u200B"

// fragment 生成 <text>（可能带 <g> 与边界矩形），不含 <svg> 包装。
func fragment(tb *layout.TextBox, opts Options) string {
	font := tb.Font()
	xOffset := num(tb.Align().Offset(tb.Width()))

	lines := tb.Lines()
	spans := make([]string, 0, len(lines))
	for i, line := range lines {
		dy := "0em"
		if i > 0 {
			dy = num(font.LineHeight) + "em"
		}
		a := []attr{{"x", xOffset}, {"dy", dy}}
		if font.CharSpacing != 0 {
			a = append(a, attr{"letter-spacing", num(font.CharSpacing) + "px"})
		}
		if line == "" {
			// 空的 tspan 不产生文本块，dy 不会生效
			line = emptyLine
		}
		spans = append(spans, element("tspan", a, escape(line)))
	}

	look := tb.Appearance()
	textAttrs := []attr{
		{"font-family", font.Family},
		{"font-size", num(font.Size)},
		{"font-weight", font.Weight},
		{"font-style", font.Style},
		{"fill", look.Fill},
	}
	if look.Stroke != "" {
		textAttrs = append(textAttrs, attr{"stroke", look.Stroke})
	}
	textAttrs = append(textAttrs,
		attr{"stroke-width", num(look.StrokeWidth)},
		attr{"text-anchor", tb.Align().TextAnchor()},
		attr{"dominant-baseline", "text-before-edge"},
	)
	if look.Opacity != 1 {
		textAttrs = append(textAttrs, attr{"opacity", num(look.Opacity)})
	}
	if !look.Visible {
		textAttrs = append(textAttrs, attr{"visibility", "hidden"})
	}

	content := element("text", textAttrs, strings.Join(spans, "\n  "))
	if opts.IncludeBounds {
		content += "\n" + element("rect", []attr{
			{"x", "0"},
			{"y", "0"},
			{"width", num(tb.Width())},
			{"height", num(tb.Height())},
			{"fill", "none"},
			{"stroke", "#999999"},
			{"stroke-width", "1"},
			{"stroke-dasharray", "4 2"},
		}, "")
	}

	positioned := tb.Left() != 0 || tb.Top() != 0
	if opts.IncludePosition && positioned {
		translate := "translate(" + num(tb.Left()) + ", " + num(tb.Top()) + ")"
		return element("g", []attr{{"transform", translate}}, content)
	}
	if opts.IncludeBounds {
		return element("g", nil, content)
	}
	return content
}
