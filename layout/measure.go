package layout

import "unicode/utf8"

// Measurer 返回字符串在给定字体配置下渲染后的像素宽度（>= 0）。
// 实现必须在一次换行过程中保持确定性，否则换行结果不可复现。
type Measurer interface {
	Measure(text string, font FontConfig) float64
}

// FontRegistrar 由依赖字体文件的测量后端实现。Build 在创建文本盒之前
// 把场景声明的字体资源逐个交给它，baseDir 用于解析相对路径。
type FontRegistrar interface {
	RegisterFont(font FontResource, baseDir string) error
}

// MeasureFunc 让普通函数满足 Measurer 接口。
type MeasureFunc func(text string, font FontConfig) float64

// Measure implements Measurer.
func (f MeasureFunc) Measure(text string, font FontConfig) float64 { return f(text, font) }

// FixedMeasurer gives every rune the same advance. It needs no font data and is
// what the tests use to make widths predictable.
// Advance <= 0 means 0.6em of the configured size.
type FixedMeasurer struct {
	Advance float64
}

// Measure implements Measurer.
func (m FixedMeasurer) Measure(text string, font FontConfig) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = font.Size * 0.6
	}
	return float64(utf8.RuneCountInString(text)) * adv
}

// measureKey 是测量缓存的结构化键：文本加上所有影响宽度的字体字段。
type measureKey struct {
	text        string
	family      string
	size        float64
	weight      string
	style       string
	charSpacing float64
}

func newMeasureKey(text string, font FontConfig) measureKey {
	return measureKey{
		text:        text,
		family:      font.Family,
		size:        font.Size,
		weight:      font.Weight,
		style:       font.Style,
		charSpacing: font.CharSpacing,
	}
}

// measureCache 归单个 TextBox 所有，不做并发保护。
type measureCache struct {
	entries map[measureKey]float64
}

func newMeasureCache() *measureCache {
	return &measureCache{entries: map[measureKey]float64{}}
}

func (c *measureCache) get(k measureKey) (float64, bool) {
	w, ok := c.entries[k]
	return w, ok
}

func (c *measureCache) put(k measureKey, w float64) { c.entries[k] = w }

func (c *measureCache) len() int { return len(c.entries) }

// clear 整体失效；只在字体字段变化时调用。
func (c *measureCache) clear() {
	if len(c.entries) == 0 {
		return
	}
	c.entries = map[measureKey]float64{}
}
