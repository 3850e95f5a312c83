package layout

// DefaultSelectionColor 是选区高亮的缺省颜色。
const DefaultSelectionColor = "rgba(17,119,255,0.3)"

// Selection 是挂在文本盒上的可选选区，索引以字符（rune）计。
// 它只记录状态，不参与排版，也不绘制光标。
type Selection struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Color    string `json:"color"`
	Editable bool   `json:"editable"`
	Editing  bool   `json:"editing"`
}

// SetSelectionStart 设置选区起点，负数夹到 0。
func (tb *TextBox) SetSelectionStart(index int) *TextBox {
	tb.selection.Start = max(index, 0)
	return tb
}

// SetSelectionEnd 设置选区终点，超出文本长度时夹到末尾。
func (tb *TextBox) SetSelectionEnd(index int) *TextBox {
	tb.selection.End = min(index, len([]rune(tb.text)))
	return tb
}

// SetEditing 切换编辑状态；不可编辑的文本盒保持非编辑。
func (tb *TextBox) SetEditing(editing bool) *TextBox {
	tb.selection.Editing = editing && tb.selection.Editable
	return tb
}

// SelectedText 返回选区内的文本；区间无效时返回空串。
func (tb *TextBox) SelectedText() string {
	runes := []rune(tb.text)
	start := min(max(tb.selection.Start, 0), len(runes))
	end := min(max(tb.selection.End, 0), len(runes))
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
