package layout

// 该文件定义场景资源与调试快照，供构建、渲染与调试 JSON 共用。

// FontResource 描述字体资源，src 可以是文件路径、embed:<内置名> 或 built-in:<注入名>。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`  // 例如 "bold italic"，用于挑选字重/斜体槽位
	Family string `json:"family"` // 渲染器使用的 Family 名称，缺省等于 Name
}

// Style 用于描述可继承的文本样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// SceneSnapshot 是场景排版结果的 JSON 视图。
type SceneSnapshot struct {
	Name   string        `json:"name"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Boxes  []BoxSnapshot `json:"boxes"`
}

// BoxSnapshot 记录单个文本盒的几何、样式与折行结果。
type BoxSnapshot struct {
	ID              string      `json:"id"`
	Kind            string      `json:"kind"`
	Text            string      `json:"text"`
	Left            float64     `json:"left"`
	Top             float64     `json:"top"`
	Width           float64     `json:"width"`
	MinWidth        float64     `json:"minWidth,omitempty"`
	Height          float64     `json:"height"`
	SplitByGrapheme bool        `json:"splitByGrapheme,omitempty"`
	Align           Align       `json:"align"`
	Font            FontConfig  `json:"font"`
	Appearance      Appearance  `json:"appearance"`
	Lines           []LineDebug `json:"lines"`
	Selection       *Selection  `json:"selection,omitempty"`
}

// LineDebug 记录一行的内容、测量宽度与基线位置。
type LineDebug struct {
	Content  string  `json:"content"`
	Width    float64 `json:"width"`
	Baseline float64 `json:"baseline"`
	Overflow bool    `json:"overflow,omitempty"`
}

// Snapshot 生成文本盒的调试快照。
func (tb *TextBox) Snapshot() BoxSnapshot {
	snap := BoxSnapshot{
		ID:              tb.ID,
		Kind:            tb.kind.String(),
		Text:            tb.text,
		Left:            tb.left,
		Top:             tb.top,
		Width:           tb.width,
		Height:          tb.height,
		SplitByGrapheme: tb.splitByGrapheme,
		Align:           tb.align,
		Font:            tb.font,
		Appearance:      tb.appearance,
		Lines:           make([]LineDebug, 0, len(tb.lines)),
	}
	if tb.kind == KindTextbox {
		snap.MinWidth = tb.minWidth
	}
	for i, line := range tb.lines {
		w := tb.MeasureLine(line)
		snap.Lines = append(snap.Lines, LineDebug{
			Content:  line,
			Width:    w,
			Baseline: tb.Baseline(i),
			Overflow: tb.kind == KindTextbox && w > tb.width,
		})
	}
	if sel := tb.selection; sel.Start != 0 || sel.End != 0 || sel.Editing {
		snap.Selection = &sel
	}
	return snap
}

// Baseline 返回第 i 行的基线纵坐标：Top + Size + i*Size*LineHeight。
func (tb *TextBox) Baseline(i int) float64 {
	return tb.top + tb.font.Size + float64(i)*tb.font.LinePitch()
}

// Snapshot 生成整个场景的调试快照。
func (s *Scene) Snapshot() SceneSnapshot {
	out := SceneSnapshot{Name: s.Name, Width: s.Width, Height: s.Height}
	for _, tb := range s.Boxes() {
		out.Boxes = append(out.Boxes, tb.Snapshot())
	}
	return out
}
