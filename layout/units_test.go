package layout

import (
	"math"
	"testing"
)

// TestPtPxRoundTrip 验证 pt↔px、mm↔px 换算的往返精度（允许极小的浮点误差）。
func TestPtPxRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, px := range samples {
		if back := px * PxToPt * PtToPx; math.Abs(back-px) > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%g back=%g", px, back)
		}
		if back := px * PxToMm * MmToPx; math.Abs(back-px) > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%g back=%g", px, back)
		}
	}
}

// TestLengthToPX 覆盖常见单位到 px 的换算。
func TestLengthToPX(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"12px", 12},
		{"72pt", 96},
		{"1in", 96},
		{"25.4mm", 96},
		{"2.54cm", 96},
		{"1.5em", 30},
		{" -4PX ", -4},
	}
	for _, c := range cases {
		l, ok := ParseLength(c.in)
		if !ok {
			t.Fatalf("%q 应可解析", c.in)
		}
		if got := l.ToPX(20); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%q 转 px 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"", "px", "abc", "12qq"} {
		if _, ok := ParseLength(bad); ok {
			t.Fatalf("%q 不应被解析", bad)
		}
	}
	if s := UnitToString(UnitEM); s != "em" {
		t.Fatalf("UnitToString(UnitEM) = %q", s)
	}
}

// TestLineHeightResolve 验证行高解析：倍数直接使用，绝对值折算为字号的倍数。
func TestLineHeightResolve(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.2", 1.2},
		{"1.5x", 1.5},
		{"30px", 1.5},
		{"15pt", 1.0},
		{"2em", 2},
	}
	for _, c := range cases {
		lh, ok := ParseLineHeight(c.in)
		if !ok {
			t.Fatalf("%q 应可解析", c.in)
		}
		if got := lh.Resolve(20); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%q 行高期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"0", "-1x", "tall"} {
		if _, ok := ParseLineHeight(bad); ok {
			t.Fatalf("%q 不应被解析", bad)
		}
	}
	abs := LineHeightSpec{Kind: LineHeightAbsolute, Len: Length{Value: 18, Unit: UnitPX}}
	if got := abs.Resolve(0); got != DefaultLineHeight {
		t.Fatalf("字号非正时应回退缺省行高，实际 %g", got)
	}
}

func TestParseAlign(t *testing.T) {
	cases := map[string]Align{
		"center":  AlignCenter,
		"RIGHT":   AlignRight,
		"justify": AlignJustify,
		"weird":   AlignLeft,
	}
	for in, want := range cases {
		if got := ParseAlign(in); got != want {
			t.Fatalf("ParseAlign(%q) = %s, want %s", in, got, want)
		}
	}
	if AlignCenter.Offset(80) != 40 || AlignRight.Offset(80) != 80 || AlignJustify.Offset(80) != 0 {
		t.Fatalf("unexpected align offsets")
	}
	if AlignRight.TextAnchor() != "end" || AlignCenter.TextAnchor() != "middle" || AlignLeft.TextAnchor() != "start" {
		t.Fatalf("unexpected text anchors")
	}
}
