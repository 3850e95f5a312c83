package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/ByLCY/textwrap/layout"
)

func fontOf(size float64, weight, style string) layout.FontConfig {
	f := layout.DefaultFont()
	f.Size = size
	f.Weight = weight
	f.Style = style
	return f
}

func TestFaceFor(t *testing.T) {
	cases := []struct {
		name string
		font layout.FontConfig
		want tinyfont.Fonter
	}{
		{"tiny", fontOf(8, "normal", "normal"), &proggy.TinySZ8pt7b},
		{"9pt", fontOf(12, "normal", "normal"), &freemono.Regular9pt7b},
		{"12pt bold", fontOf(16, "bold", "normal"), &freemono.Bold12pt7b},
		{"18pt italic", fontOf(24, "normal", "italic"), &freemono.Oblique18pt7b},
		{"24pt bold italic", fontOf(40, "700", "oblique"), &freemono.BoldOblique24pt7b},
	}
	for _, tc := range cases {
		if got := FaceFor(tc.font); got != tc.want {
			t.Fatalf("%s: unexpected face %v", tc.name, got)
		}
	}
}

func TestMeasureMatchesTinyfont(t *testing.T) {
	r := NewRenderer(Options{})
	font := fontOf(16, "normal", "normal")
	_, want := tinyfont.LineWidth(&freemono.Regular12pt7b, "hello")
	if got := r.Measure("hello", font); got != float64(want) {
		t.Fatalf("Measure = %g, want %d", got, want)
	}
	if r.Measure("", font) != 0 {
		t.Fatalf("空串宽度应为 0")
	}
	// 等宽字体：宽度与字符数成正比。
	one := r.Measure("m", font)
	if got := r.Measure("mmmm", font); got < 3*one {
		t.Fatalf("monospace width too small: %g vs %g", got, one)
	}
	r.Measure("hello", font)
	if r.cached() != 3 {
		t.Fatalf("重复测量应命中缓存，缓存条目 %d", r.cached())
	}
}

func TestTextboxWrapsWithBitmapMetrics(t *testing.T) {
	r := NewRenderer(Options{})
	limit := 150.0
	tb := layout.NewTextbox("the quick brown fox jumps over the lazy dog", layout.Props{
		Width:    &limit,
		FontSize: layout.Ptr(16.0),
	}, r)
	if tb.LineCount() < 2 {
		t.Fatalf("expected wrapping, got %q", tb.Lines())
	}
	for i, line := range tb.Lines() {
		if w := tb.MeasureLine(line); w > limit {
			t.Fatalf("line %d %q exceeds width: %g", i, line, w)
		}
	}
}

func sceneWith(props ...layout.Props) *layout.Scene {
	s := layout.NewScene(200, 80, NewRenderer(Options{}))
	for i, p := range props {
		s.CreateOrUpdate(string(rune('a'+i)), layout.KindTextbox, p)
	}
	return s
}

func decode(t *testing.T, data []byte) *image.RGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		// png 可能解码成 NRGBA；统一转成 RGBA 便于比较
		b := img.Bounds()
		rgba = image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return rgba
}

func countInk(img *image.RGBA, bg color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				n++
			}
		}
	}
	return n
}

func TestRenderPaintsGlyphs(t *testing.T) {
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	scene := sceneWith(layout.Props{
		Text:     layout.Ptr("Hello"),
		Left:     layout.Ptr(4.0),
		Top:      layout.Ptr(4.0),
		Width:    layout.Ptr(180.0),
		FontSize: layout.Ptr(12.0),
		Fill:     layout.Ptr("red"),
	})
	out, err := NewRenderer(Options{Background: "white"}).Render(scene)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img := decode(t, out)
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 80 {
		t.Fatalf("unexpected size %v", b)
	}
	if countInk(img, white) == 0 {
		t.Fatalf("expected glyph pixels on white background")
	}
	if img.RGBAAt(0, 0) != white {
		t.Fatalf("background not painted: %v", img.RGBAAt(0, 0))
	}
}

func TestRenderSkipsHiddenBoxes(t *testing.T) {
	scene := sceneWith(layout.Props{Text: layout.Ptr("hidden"), Visible: layout.Ptr(false)})
	out, err := NewRenderer(Options{}).Render(scene)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := countInk(decode(t, out), color.RGBA{}); n != 0 {
		t.Fatalf("隐藏的文本盒不应绘制，实际 %d 个像素", n)
	}
}

func TestRenderCharSpacingWidensInk(t *testing.T) {
	base := layout.Props{Text: layout.Ptr("iiii"), Width: layout.Ptr(190.0), FontSize: layout.Ptr(12.0)}
	spaced := base
	spaced.CharSpacing = layout.Ptr(10.0)

	extent := func(p layout.Props) int {
		out, err := NewRenderer(Options{}).Render(sceneWith(p))
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		img := decode(t, out)
		maxX := -1
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if img.RGBAAt(x, y).A != 0 && x > maxX {
					maxX = x
				}
			}
		}
		return maxX
	}
	if a, b := extent(base), extent(spaced); b <= a {
		t.Fatalf("字间距应使墨迹更宽: %d vs %d", a, b)
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil scene")
	}
	huge := layout.NewScene(40000, 10, r)
	if _, err := r.Render(huge); err == nil {
		t.Fatalf("expected error for oversized canvas")
	}
}

func TestImageDisplayBlends(t *testing.T) {
	d := newImageDisplay(2, 1)
	d.fill(color.RGBA{0, 0, 0xff, 0xff})
	d.SetPixel(0, 0, color.RGBA{0xff, 0, 0, 0x80})
	d.SetPixel(5, 5, color.RGBA{0xff, 0, 0, 0xff}) // 越界忽略
	got := d.img.RGBAAt(0, 0)
	if got.R < 0x7f || got.R > 0x81 || got.B < 0x7e || got.B > 0x80 || got.A != 0xff {
		t.Fatalf("unexpected blend result %v", got)
	}
	if w, h := d.Size(); w != 2 || h != 1 {
		t.Fatalf("Size = %d,%d", w, h)
	}
}

func TestRenderSkipsLinesOutsideInt16Range(t *testing.T) {
	// 65546 转成 int16 会回绕到 10，落回画布内。
	for _, p := range []layout.Props{
		{Text: layout.Ptr("far right"), Left: layout.Ptr(65546.0), FontSize: layout.Ptr(12.0)},
		{Text: layout.Ptr("far below"), Top: layout.Ptr(65536.0 + 20), FontSize: layout.Ptr(12.0)},
		{Text: layout.Ptr("far above"), Top: layout.Ptr(-65536.0 + 20), FontSize: layout.Ptr(12.0)},
	} {
		out, err := NewRenderer(Options{}).Render(sceneWith(p))
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if n := countInk(decode(t, out), color.RGBA{}); n != 0 {
			t.Fatalf("%q: 画布外的行不应绘制，实际 %d 个像素", *p.Text, n)
		}
	}
}

func TestLineOrigin(t *testing.T) {
	if x, y, ok := lineOrigin(10.4, 20.6, 50, 12, 200, 80); !ok || x != 10 || y != 21 {
		t.Fatalf("画布内的行应返回取整坐标: %d,%d,%v", x, y, ok)
	}
	for _, c := range [][2]float64{{-100, 20}, {300, 20}, {10, 1e6}, {10, -1e6}, {math.NaN(), 20}} {
		if _, _, ok := lineOrigin(c[0], c[1], 50, 12, 200, 80); ok {
			t.Fatalf("(%g, %g) 应被跳过", c[0], c[1])
		}
	}
	if _, _, ok := lineOrigin(-30, 20, 50, 12, 200, 80); !ok {
		t.Fatalf("部分可见的行应绘制")
	}
}
