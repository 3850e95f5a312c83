package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/textwrap/layout"
)

func TestMeasureCells(t *testing.T) {
	m := Measurer{}
	font := layout.DefaultFont()
	assert.Equal(t, 5.0, m.Measure("hello", font))
	assert.Equal(t, 4.0, m.Measure("中文", font), "东亚宽字符占两个单元格")
	assert.Equal(t, 4.0, m.Measure("cafe\u0301", font), "组合字符不占单元格")
	assert.Equal(t, 0.0, m.Measure("", font))

	scaled := Measurer{CellWidth: 8}
	assert.Equal(t, 40.0, scaled.Measure("hello", font))
	assert.Equal(t, 5, scaled.Cells(40))
	assert.Equal(t, 6, scaled.Cells(41))
}

func TestMeasurerFor(t *testing.T) {
	scene := layout.NewScene(800, 600, nil)
	assert.Equal(t, 10.0, MeasurerFor(scene, 80).CellWidth)
	assert.Equal(t, 10.0, MeasurerFor(scene, 0).CellWidth)
	assert.Equal(t, 1.0, MeasurerFor(nil, 80).CellWidth)
}

func TestRuler(t *testing.T) {
	assert.Equal(t, "----+----1", Ruler(10))
	assert.Equal(t, "----+----1----+----2--", Ruler(22))
	assert.Equal(t, "", Ruler(0))
}

func TestPreviewPlain(t *testing.T) {
	scene := layout.NewScene(10, 10, Measurer{})
	scene.CreateOrUpdate("a", layout.KindTextbox, layout.Props{
		Text:     layout.Ptr("hello world foo"),
		Width:    layout.Ptr(10.0),
		MinWidth: layout.Ptr(0.0),
	})
	scene.CreateOrUpdate("b", layout.KindTextbox, layout.Props{
		Text:     layout.Ptr("ab"),
		Width:    layout.Ptr(6.0),
		MinWidth: layout.Ptr(0.0),
		Align:    layout.Ptr(layout.AlignRight),
		Visible:  layout.Ptr(false),
	})

	out, err := NewRenderer(Options{Ruler: true}).Render(scene)
	require.NoError(t, err)
	want := strings.Join([]string{
		"a (textbox, 2 行, 宽 10 列)",
		"  ----+----1",
		"  hello",
		"  world foo",
		"",
		"b (textbox, 1 行, 宽 6 列) [hidden]",
		"  ----+-",
		"      ab",
		"",
	}, "\n")
	assert.Equal(t, want, string(out))
}

func TestPreviewHighlightsOverflow(t *testing.T) {
	scene := layout.NewScene(10, 10, Measurer{})
	tb := scene.CreateOrUpdate("cjk", layout.KindTextbox, layout.Props{
		Text:     layout.Ptr("中文"),
		Width:    layout.Ptr(1.0),
		MinWidth: layout.Ptr(0.0),
	})
	require.Equal(t, []string{"中", "文"}, tb.Lines(), "放不下一个字符时退化为每行一个字符")

	plain, err := NewRenderer(Options{}).Render(scene)
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "\x1b[")

	colored, err := NewRenderer(Options{Color: true}).Render(scene)
	require.NoError(t, err)
	assert.Contains(t, string(colored), "\x1b[31;4m中")
}

func TestPreviewScalesForeignMeasurer(t *testing.T) {
	scene := layout.NewScene(800, 600, layout.FixedMeasurer{Advance: 10})
	scene.CreateOrUpdate("body", layout.KindTextbox, layout.Props{
		Text:  layout.Ptr("abcdef ghij"),
		Width: layout.Ptr(100.0),
	})
	out, err := NewRenderer(Options{Width: 80}).Render(scene)
	require.NoError(t, err)
	assert.Contains(t, string(out), "宽 10 列")
	assert.Contains(t, string(out), "  abcdef\n  ghij\n")
}

func TestPreviewNilScene(t *testing.T) {
	_, err := NewRenderer(Options{}).Render(nil)
	assert.Error(t, err)
}

func TestTerminalWidthFallback(t *testing.T) {
	// 测试进程的 fd -1 不是终端
	assert.Equal(t, DefaultWidth, TerminalWidth(-1))
}
