package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WrapText 将 text 按显式换行拆成段落，再对每个段落做贪心折行。
//
// 空文本返回空切片；空段落（连续换行或末尾换行）产出恰好一个空行。
// measure 必须已绑定当前字体配置。splitByGrapheme 为 true 时按字符（rune）折行。
func WrapText(text string, maxWidth float64, splitByGrapheme bool, measure func(string) float64) []string {
	if text == "" {
		return []string{}
	}
	paragraphs := SplitParagraphs(text)
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapParagraph(p, maxWidth, splitByGrapheme, measure)...)
	}
	return lines
}

// SplitParagraphs 按 "\n" 与 "\r\n" 切分，保留空段落。
func SplitParagraphs(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// wrapParagraph 对一个非空段落执行贪心折行。
func wrapParagraph(paragraph string, maxWidth float64, splitByGrapheme bool, measure func(string) float64) []string {
	if measure(paragraph) <= maxWidth {
		return []string{paragraph}
	}

	var units []string
	if splitByGrapheme {
		units = splitRunes(paragraph)
	} else {
		units = tokenizeParagraph(paragraph)
	}

	var lines []string
	var current string

	// 只在整行落盘时裁剪首尾空白；裁剪后为空的行照样输出。
	flush := func() {
		lines = append(lines, strings.TrimSpace(current))
		current = ""
	}

	for _, unit := range units {
		if current != "" {
			if measure(current+unit) <= maxWidth {
				current += unit
				continue
			}
			flush()
		}

		// 当前缓冲为空：单元能放下就作为新行的起点。
		if measure(unit) <= maxWidth {
			current = unit
			continue
		}

		// 单元本身就超宽。
		switch {
		case splitByGrapheme || utf8.RuneCountInString(unit) == 1:
			lines = append(lines, unit)
		default:
			var tail string
			lines, tail = packRunes(lines, unit, maxWidth, measure)
			current = tail
		}
	}
	if current != "" {
		flush()
	}

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// packRunes 逐字符装箱一个超宽单词：已装满的子行直接追加到 lines（不裁剪），
// 最后一段未满的子行作为下一轮主缓冲的种子返回。
func packRunes(lines []string, word string, maxWidth float64, measure func(string) float64) ([]string, string) {
	var builder strings.Builder
	for _, r := range word {
		if builder.Len() == 0 {
			builder.WriteRune(r)
			continue
		}
		candidate := builder.String() + string(r)
		if measure(candidate) <= maxWidth {
			builder.WriteRune(r)
			continue
		}
		lines = append(lines, builder.String())
		builder.Reset()
		builder.WriteRune(r)
	}
	return lines, builder.String()
}

// tokenizeParagraph 将段落切成单词与空白串交替的单元，空白串作为独立单元保留。
func tokenizeParagraph(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitRunes(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
