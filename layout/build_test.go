package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/textwrap/dsl"
)

func buildScene(t *testing.T, src string, data any) *Scene {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	scene, err := Build(doc, BuildOptions{Measurer: FixedMeasurer{Advance: 10}, Data: data})
	if err != nil {
		t.Fatalf("构建场景失败: %v", err)
	}
	return scene
}

const buildDSL = `
scene Card v1 {
  size 4in 300
  color Accent #0F62FE
  font Serif { src: "embed:latin-modern" style: "bold italic" }

  style Base { font-size: 20px line-height: 1.5 }
  style Heading extends Base { font-weight: bold fill: Accent }

  textbox title Heading {
    text: "Hello ${user.name}"
    left: 10
    top: 5mm
    width: 4em
  }
  textbox body {
    text: "Cafe\u0301 au lait"
    style: Base
    min-width: 40
    width: 10
    split-by-grapheme: true
    char-spacing: 0
    align: center
    opacity: 0.5
    visible: false
  }
  text caption { text: "a\nbb" font-family: Serif line-height: 30px }
}
`

func TestBuildScene(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ana"}}
	scene := buildScene(t, buildDSL, data)

	if scene.Name != "Card" || scene.Width != 384 || scene.Height != 300 {
		t.Fatalf("unexpected scene header: %s %gx%g", scene.Name, scene.Width, scene.Height)
	}
	if f, ok := scene.Fonts["Serif"]; !ok || f.Src != "embed:latin-modern" || f.Style != "bold italic" {
		t.Fatalf("font resource not collected: %+v", scene.Fonts)
	}
	if got := ids(scene.Boxes()); strings.Join(got, ",") != "title,body,caption" {
		t.Fatalf("文本盒应按声明顺序排列，实际 %v", got)
	}

	title, _ := scene.Get("title")
	if title.Text() != "Hello Ana" {
		t.Fatalf("插值失败: %q", title.Text())
	}
	font := title.Font()
	if font.Size != 20 || font.LineHeight != 1.5 || font.Weight != "bold" {
		t.Fatalf("样式继承失败: %+v", font)
	}
	if title.Appearance().Fill != "#0F62FE" {
		t.Fatalf("命名颜色应被解析，实际 %s", title.Appearance().Fill)
	}
	if title.Width() != 80 || title.Left() != 10 || !approx(title.Top(), 5*MmToPx) {
		t.Fatalf("长度换算错误: width=%g left=%g top=%g", title.Width(), title.Left(), title.Top())
	}
	if got := title.Lines(); len(got) != 2 || got[0] != "Hello" || got[1] != "Ana" {
		t.Fatalf("unexpected title lines: %q", got)
	}

	body, _ := scene.Get("body")
	if body.Text() != "Café au lait" {
		t.Fatalf("文本应做 NFC 规范化，实际 %q", body.Text())
	}
	if body.Width() != 40 || !body.SplitByGrapheme() || body.Align() != AlignCenter {
		t.Fatalf("unexpected body geometry: width=%g grapheme=%v align=%s", body.Width(), body.SplitByGrapheme(), body.Align())
	}
	if a := body.Appearance(); a.Opacity != 0.5 || a.Visible {
		t.Fatalf("unexpected appearance: %+v", a)
	}
	if body.Font().Size != 20 {
		t.Fatalf("style 属性应生效，实际字号 %g", body.Font().Size)
	}

	caption, _ := scene.Get("caption")
	if caption.Kind() != KindText || caption.Width() != 20 {
		t.Fatalf("unexpected caption: kind=%s width=%g", caption.Kind(), caption.Width())
	}
	if caption.Font().Family != "Serif" || !approx(caption.Font().LineHeight, 30.0/DefaultFontSize) {
		t.Fatalf("unexpected caption font: %+v", caption.Font())
	}
}

func TestBuildRedeclaredIDUpdatesBox(t *testing.T) {
	scene := buildScene(t, `scene S {
  textbox a { text: "first" width: 200 }
  textbox a { fill: #FF0000 }
}`, nil)
	if scene.Len() != 1 {
		t.Fatalf("重复 id 应更新同一文本盒，实际 %d 个", scene.Len())
	}
	a, _ := scene.Get("a")
	if a.Text() != "first" || a.Appearance().Fill != "#FF0000" {
		t.Fatalf("unexpected box after update: %q %s", a.Text(), a.Appearance().Fill)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"unknown command", `scene S { circle c { r: 2 } }`, "未知指令"},
		{"style cycle", `scene S { style A extends B { fill: red } style B extends A { fill: blue } }`, "循环"},
		{"missing parent", `scene S { style A extends Nope { fill: red } }`, "未定义"},
		{"undefined style", `scene S { textbox t Missing { text: "x" } }`, "未定义的 style"},
		{"bad font size", `scene S { textbox t { font-size: big } }`, "font-size"},
		{"bad bool", `scene S { textbox t { visible: maybe } }`, "visible"},
		{"bad size", `scene S { size 100 }`, "size"},
	}
	for _, c := range cases {
		doc, err := dsl.ParseString(c.src)
		if err != nil {
			t.Fatalf("%s: 解析失败: %v", c.name, err)
		}
		_, err = Build(doc, BuildOptions{})
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: 期望包含 %q 的错误，实际 %v", c.name, c.want, err)
		}
	}
	if _, err := Build(nil, BuildOptions{}); err == nil {
		t.Fatalf("nil 文档应报错")
	}
}
