package layout

// BuildOptions 配置由 DSL 构建场景时所需的依赖，例如测量后端。
type BuildOptions struct {
	Measurer Measurer
	// Data 绑定到文本中的 ${...} 表达式，为 nil 时不做插值。
	Data any
	// BaseDir 用于解析相对路径的字体文件，透传给 Scene.BaseDir。
	BaseDir string
}
