/*
Package layout 负责文本盒的排版：测量、贪心换行、尺寸计算，以及由场景 DSL
构建出可供渲染器与 SVG 导出使用的 Scene。

核心是 WrapText：给定文本、像素宽度约束与测量函数，产出确定的行序列。
除“单个不可再分的单元比宽度还宽”这一情形外，任何行都不会超出宽度。

TextBox 与 Scene 都不是并发安全的，同一实例的修改需要调用方自行串行化。
*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textwrap'
func tracer() tracing.Trace {
	return tracing.Select("textwrap")
}
