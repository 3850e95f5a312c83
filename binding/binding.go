package binding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${expr} 替换为表达式在 data 上的求值结果。
//
// data 为 JSON 对象时其键直接作为变量（${user.name}、${len(items)}），
// 其他类型通过变量 data 访问（${data[0]}）。
// 表达式为空、求值失败或结果为 nil 时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	env := environment(data)
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		code := strings.TrimSpace(groups[1])
		if code == "" {
			return match
		}
		val, err := expr.Eval(code, env)
		if err != nil || val == nil {
			return match
		}
		return fmt.Sprint(val)
	})
}

func environment(data any) map[string]any {
	if m, ok := data.(map[string]any); ok {
		env := make(map[string]any, len(m)+1)
		for k, v := range m {
			env[k] = v
		}
		if _, ok := env["data"]; !ok {
			env["data"] = data
		}
		return env
	}
	return map[string]any{"data": data}
}
