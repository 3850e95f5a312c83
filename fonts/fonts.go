// Package fonts 提供内置字体数据：Go 字体族（无衬线、等宽）与 Latin Modern（衬线）。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Class 是内置字体的大类。
type Class int

const (
	Sans Class = iota
	Serif
	Mono
)

// faces 按 [regular, bold, italic, bold-italic] 排列。
var faces = map[Class][4][]byte{
	Sans:  {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	Serif: {lmroman10regular.TTF, lmroman10bold.TTF, lmroman10italic.TTF, lmroman10bolditalic.TTF},
	Mono:  {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
}

// named 是 embed:<name> 可用的名字。
var named = map[string]struct {
	class Class
	slot  int
}{
	"go":                       {Sans, 0},
	"go-bold":                  {Sans, 1},
	"go-italic":                {Sans, 2},
	"go-bold-italic":           {Sans, 3},
	"go-mono":                  {Mono, 0},
	"go-mono-bold":             {Mono, 1},
	"go-mono-italic":           {Mono, 2},
	"go-mono-bold-italic":      {Mono, 3},
	"latin-modern":             {Serif, 0},
	"latin-modern-bold":        {Serif, 1},
	"latin-modern-italic":      {Serif, 2},
	"latin-modern-bold-italic": {Serif, 3},
}

// ClassOf 把 CSS 风格的字体族名映射到内置大类，未知族名按无衬线处理。
func ClassOf(family string) Class {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"), strings.Contains(f, "consol"):
		return Mono
	case f == "serif", strings.Contains(f, "times"), strings.Contains(f, "georgia"),
		strings.Contains(f, "latin modern"), strings.Contains(f, "roman"):
		return Serif
	default:
		return Sans
	}
}

// Builtin 返回与 family、粗细、斜体最接近的内置字体数据。
func Builtin(family string, bold, italic bool) []byte {
	slot := 0
	if bold {
		slot |= 1
	}
	if italic {
		slot |= 2
	}
	return faces[ClassOf(family)][slot]
}

// Load 按名字返回内置字体，name 可写为 "embed:latin-modern-bold" 或 "latin-modern-bold"，
// 常规字重可带 "-regular" 后缀。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	key = strings.TrimSuffix(strings.TrimSuffix(key, ".ttf"), "-regular")
	entry, ok := named[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知名称（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return faces[entry.class][entry.slot], nil
}

// Names 返回全部内置字体名，已排序。
func Names() []string {
	out := make([]string, 0, len(named))
	for n := range named {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
