package markup

import (
	"strconv"
	"strings"
)

// attr 是有序的属性对；输出顺序即声明顺序。
type attr struct {
	key, value string
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escape(s string) string { return escaper.Replace(s) }

func attrs(list []attr) string {
	var b strings.Builder
	for _, a := range list {
		b.WriteByte(' ')
		b.WriteString(a.key)
		b.WriteString(`="`)
		b.WriteString(escape(a.value))
		b.WriteByte('"')
	}
	return b.String()
}

// element 输出 <tag attrs>content</tag>；content 必须已转义。
func element(tag string, list []attr, content string) string {
	return "<" + tag + attrs(list) + ">" + content + "</" + tag + ">"
}

// num 以最短的十进制形式输出数字，不带指数。
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
