package layout

import (
	"github.com/google/uuid"
)

// 场景画布的缺省尺寸（px）。
const (
	DefaultSceneWidth  = 800.0
	DefaultSceneHeight = 600.0
)

// Scene 按插入顺序持有一组文本盒，可按 ID 创建、更新、删除。
// 渲染器与 SVG 导出按 Boxes() 的顺序绘制。Scene 不是并发安全的。
type Scene struct {
	Name    string                  `json:"name"`
	Width   float64                 `json:"width"`
	Height  float64                 `json:"height"`
	Fonts   map[string]FontResource `json:"fonts"`
	BaseDir string                  `json:"-"`

	measurer Measurer
	order    []string
	boxes    map[string]*TextBox
}

// NewScene 创建空场景；非正的尺寸回退为 800x600。
func NewScene(width, height float64, m Measurer) *Scene {
	if width <= 0 {
		width = DefaultSceneWidth
	}
	if height <= 0 {
		height = DefaultSceneHeight
	}
	if m == nil {
		m = FixedMeasurer{}
	}
	return &Scene{
		Width:    width,
		Height:   height,
		Fonts:    map[string]FontResource{},
		measurer: m,
		boxes:    map[string]*TextBox{},
	}
}

// Measurer 返回新建文本盒使用的测量后端。
func (s *Scene) Measurer() Measurer { return s.measurer }

// SetMeasurer 替换测量后端，并让已有文本盒按新度量重新折行。
func (s *Scene) SetMeasurer(m Measurer) {
	if m == nil {
		m = FixedMeasurer{}
	}
	s.measurer = m
	for _, id := range s.order {
		s.boxes[id].SetMeasurer(m)
	}
}

// CreateOrUpdate 在 id 不存在时按 kind 新建文本盒，否则对已有文本盒执行 Set。
// id 为空时分配一个 UUID。
func (s *Scene) CreateOrUpdate(id string, kind Kind, props Props) *TextBox {
	if id == "" {
		id = uuid.NewString()
	}
	if tb, ok := s.boxes[id]; ok {
		return tb.Set(props)
	}
	text := ""
	if props.Text != nil {
		text = *props.Text
	}
	tb := newTextBox(kind, text, props, s.measurer)
	tb.ID = id
	s.boxes[id] = tb
	s.order = append(s.order, id)
	return tb
}

// Get 按 ID 查找文本盒。
func (s *Scene) Get(id string) (*TextBox, bool) {
	tb, ok := s.boxes[id]
	return tb, ok
}

// Remove 删除文本盒，返回是否存在。
func (s *Scene) Remove(id string) bool {
	if _, ok := s.boxes[id]; !ok {
		return false
	}
	delete(s.boxes, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear 删除全部文本盒。
func (s *Scene) Clear() {
	s.boxes = map[string]*TextBox{}
	s.order = nil
}

// Len 返回文本盒数量。
func (s *Scene) Len() int { return len(s.order) }

// Boxes 按插入顺序返回全部文本盒。
func (s *Scene) Boxes() []*TextBox {
	out := make([]*TextBox, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.boxes[id])
	}
	return out
}
