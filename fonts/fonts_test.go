package fonts

import (
	"bytes"
	"testing"
)

func TestClassOf(t *testing.T) {
	cases := map[string]Class{
		"Arial":        Sans,
		"sans-serif":   Sans,
		"Georgia":      Serif,
		"serif":        Serif,
		"Latin Modern": Serif,
		"monospace":    Mono,
		"Courier New":  Mono,
	}
	for family, want := range cases {
		if got := ClassOf(family); got != want {
			t.Fatalf("ClassOf(%q) = %d, want %d", family, got, want)
		}
	}
}

func TestBuiltinSlots(t *testing.T) {
	regular := Builtin("Arial", false, false)
	bold := Builtin("Arial", true, false)
	if len(regular) == 0 || bytes.Equal(regular, bold) {
		t.Fatalf("粗体应对应不同的字体数据")
	}
	if !bytes.Equal(Builtin("Times", true, true), faces[Serif][3]) {
		t.Fatalf("Times 粗斜体应映射到 Latin Modern bold italic")
	}
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"embed:latin-modern", "embed:latin-modern-regular", "go-mono.ttf", "GO-BOLD"} {
		data, err := Load(name)
		if err != nil || len(data) == 0 {
			t.Fatalf("Load(%q) failed: %v", name, err)
		}
	}
	if _, err := Load("embed:Inter/static/Inter-Regular.ttf"); err == nil {
		t.Fatalf("未知名称应报错")
	}
	if n := len(Names()); n != 12 {
		t.Fatalf("expected 12 built-in names, got %d", n)
	}
}
