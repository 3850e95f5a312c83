package layout

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/textwrap/binding"
	"github.com/ByLCY/textwrap/dsl"
)

// Build 根据场景 DSL 的 AST 生成 Scene：收集资源、解析样式继承，
// 再按声明顺序创建文本盒（创建即完成折行）。
func Build(doc *dsl.Document, opts BuildOptions) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if doc.Block == nil {
		return nil, fmt.Errorf("场景 %s 缺少内容", doc.Name)
	}

	scene := NewScene(0, 0, opts.Measurer)
	scene.Name = doc.Name
	scene.BaseDir = opts.BaseDir

	res, err := collectResources(doc.Block, scene)
	if err != nil {
		return nil, err
	}
	if reg, ok := opts.Measurer.(FontRegistrar); ok {
		for _, name := range slices.Sorted(maps.Keys(scene.Fonts)) {
			if err := reg.RegisterFont(scene.Fonts[name], opts.BaseDir); err != nil {
				return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
			}
		}
	}

	for _, stmt := range doc.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "size", "font", "style", "color":
			continue
		case "textbox", "text":
			if err := handleTextBox(cmd, scene, res, opts.Data); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("第 %d 行：未知指令 %s", cmd.Pos.Line, cmd.Name)
		}
	}
	return scene, nil
}

// resources 是构建期使用的命名资源。
type resources struct {
	styles map[string]Style
	colors map[string]string
}

func collectResources(block *dsl.Block, scene *Scene) (resources, error) {
	res := resources{styles: map[string]Style{}, colors: map[string]string{}}
	rawStyles := map[string]Style{}

	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "size":
			w, h, err := parseSceneSize(cmd)
			if err != nil {
				return res, err
			}
			scene.Width, scene.Height = w, h
		case "font":
			font := parseFontResource(cmd)
			if font.Name != "" {
				scene.Fonts[font.Name] = font
			}
		case "color":
			if len(cmd.Args) >= 2 {
				res.colors[cmd.Args[0].Value] = cmd.Args[len(cmd.Args)-1].Value
			}
		case "style":
			style := parseStyleResource(cmd)
			if style.Name != "" {
				rawStyles[style.Name] = style
			}
		}
	}

	styles, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.styles = styles
	return res, nil
}

func parseSceneSize(cmd *dsl.Command) (float64, float64, error) {
	if len(cmd.Args) < 2 {
		return 0, 0, fmt.Errorf("第 %d 行：size 需要宽和高两个参数", cmd.Pos.Line)
	}
	w, okW := ParseLength(cmd.Args[0].Value)
	h, okH := ParseLength(cmd.Args[1].Value)
	if !okW || !okH || w.Value <= 0 || h.Value <= 0 {
		return 0, 0, fmt.Errorf("第 %d 行：无法解析场景尺寸 %s x %s", cmd.Pos.Line, cmd.Args[0].Raw, cmd.Args[1].Raw)
	}
	return w.ToPX(DefaultFontSize), h.ToPX(DefaultFontSize), nil
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			font.Src = stmt.Assignment.Value.Raw()
		case "style":
			font.Style = stmt.Assignment.Value.Raw()
		case "family":
			font.Family = stmt.Assignment.Value.Raw()
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	if cmd.Block == nil {
		return style
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		style.Props[stmt.Assignment.Key] = stmt.Assignment.Value.Raw()
	}
	return style
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// handleTextBox 处理 `textbox <id> [style] { ... }` 与 `text <id> [style] { ... }`。
func handleTextBox(cmd *dsl.Command, scene *Scene, res resources, data any) error {
	kind := KindTextbox
	if cmd.Name == "text" {
		kind = KindText
	}
	var id, styleName string
	if len(cmd.Args) > 0 {
		id = cmd.Args[0].Value
	}
	if len(cmd.Args) > 1 {
		styleName = cmd.Args[1].Value
	}

	inline := map[string]string{}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			inline[stmt.Assignment.Key] = stmt.Assignment.Value.Raw()
		}
	}
	if s := inline["style"]; s != "" {
		styleName = s
	}
	if styleName != "" {
		if _, ok := res.styles[styleName]; !ok {
			return fmt.Errorf("第 %d 行：%s %s 引用了未定义的 style %s", cmd.Pos.Line, cmd.Name, id, styleName)
		}
	}
	attrs := mergeStyleAttributes(styleName, inline, res.styles)

	props, err := composeProps(attrs, res, data)
	if err != nil {
		return fmt.Errorf("第 %d 行：%s %s: %w", cmd.Pos.Line, cmd.Name, id, err)
	}
	scene.CreateOrUpdate(id, kind, props)
	return nil
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if style != "" {
		if s, ok := styles[style]; ok {
			for k, v := range s.Props {
				out[k] = v
			}
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

// composeProps 将属性表翻译成类型化的 Props。字号最先解析，em 长度依赖它。
func composeProps(attrs map[string]string, res resources, data any) (Props, error) {
	var p Props

	fontSize := DefaultFontSize
	if v, ok := attrs["font-size"]; ok {
		size, err := parsePX(v, DefaultFontSize)
		if err != nil || size <= 0 {
			return p, fmt.Errorf("font-size %q 无法解析", v)
		}
		fontSize = size
		p.FontSize = Ptr(size)
	}

	for key, raw := range attrs {
		var err error
		switch key {
		case "text":
			text := norm.NFC.String(binding.Interpolate(raw, data))
			p.Text = &text
		case "left", "x":
			p.Left, err = lengthProp(raw, fontSize)
		case "top", "y":
			p.Top, err = lengthProp(raw, fontSize)
		case "width":
			p.Width, err = lengthProp(raw, fontSize)
		case "min-width":
			p.MinWidth, err = lengthProp(raw, fontSize)
		case "char-spacing":
			p.CharSpacing, err = lengthProp(raw, fontSize)
		case "stroke-width":
			p.StrokeWidth, err = lengthProp(raw, fontSize)
		case "line-height":
			lh, ok := ParseLineHeight(raw)
			if !ok {
				err = fmt.Errorf("line-height %q 无法解析", raw)
				break
			}
			p.LineHeight = Ptr(lh.Resolve(fontSize))
		case "opacity":
			var f float64
			f, err = strconv.ParseFloat(raw, 64)
			p.Opacity = &f
		case "split-by-grapheme":
			p.SplitByGrapheme, err = boolProp(raw)
		case "visible":
			p.Visible, err = boolProp(raw)
		case "editable":
			p.Editable, err = boolProp(raw)
		case "font-family":
			p.FontFamily = Ptr(raw)
		case "font-weight":
			p.FontWeight = Ptr(raw)
		case "font-style":
			p.FontStyle = Ptr(raw)
		case "align", "text-align":
			p.Align = Ptr(ParseAlign(raw))
		case "fill", "color":
			p.Fill = Ptr(resolveColor(raw, res))
		case "stroke":
			p.Stroke = Ptr(resolveColor(raw, res))
		case "selection-color":
			p.SelectionColor = Ptr(resolveColor(raw, res))
		}
		if err != nil {
			return p, fmt.Errorf("%s: %w", key, err)
		}
	}
	return p, nil
}

func parsePX(value string, fontSize float64) (float64, error) {
	l, ok := ParseLength(value)
	if !ok {
		return 0, fmt.Errorf("长度 %q 无法解析", value)
	}
	return l.ToPX(fontSize), nil
}

func lengthProp(value string, fontSize float64) (*float64, error) {
	v, err := parsePX(value, fontSize)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func boolProp(value string) (*bool, error) {
	b, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return nil, fmt.Errorf("布尔值 %q 无法解析", value)
	}
	return &b, nil
}

func resolveColor(value string, res resources) string {
	if c, ok := res.colors[value]; ok {
		return c
	}
	return value
}
