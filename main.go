package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/textwrap/dsl"
	"github.com/ByLCY/textwrap/layout"
	"github.com/ByLCY/textwrap/markup"
	"github.com/ByLCY/textwrap/renderer"
	"github.com/ByLCY/textwrap/renderer/bitmap"
	canvasrenderer "github.com/ByLCY/textwrap/renderer/canvas"
	"github.com/ByLCY/textwrap/renderer/term"
)

// config 汇总命令行参数。
type config struct {
	input   string
	output  string
	debug   string
	backend string
	width   int
	data    any
}

func main() {
	input := flag.String("in", "examples/demo.scene", "场景 DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "输出路径：.svg / .pdf / .png / .txt，- 表示在终端预览")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	backend := flag.String("backend", "canvas", "测量与绘制后端：canvas | bitmap | term")
	width := flag.Int("width", 0, "终端预览宽度（列），缺省取终端宽度")
	flag.Parse()

	cfg := config{
		input:   *input,
		output:  *output,
		debug:   *debug,
		backend: *backend,
		width:   *width,
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}
	if cfg.width <= 0 {
		cfg.width = term.TerminalWidth(int(os.Stdout.Fd()))
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	if cfg.output != "-" {
		fmt.Printf("已生成：%s\n", cfg.output)
	}
}

// backend 把测量后端与匹配的绘制器配成一对。
type backend struct {
	measurer layout.Measurer
	painter  renderer.Renderer
}

func newBackend(cfg config, baseDir string) (backend, error) {
	switch cfg.backend {
	case "", "canvas":
		r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir:    baseDir,
			Format:     canvasrenderer.FormatFromPath(cfg.output),
			Background: "white",
		})
		return backend{measurer: r, painter: r}, nil
	case "bitmap":
		r := bitmap.NewRenderer(bitmap.Options{Background: "white"})
		return backend{measurer: r, painter: r}, nil
	case "term":
		return backend{measurer: term.Measurer{}, painter: term.NewRenderer(term.Options{Width: cfg.width})}, nil
	default:
		return backend{}, fmt.Errorf("未知后端 %s", cfg.backend)
	}
}

// run 串联解析、布局与输出。
func run(cfg config, stdout io.Writer) error {
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	baseDir := filepath.Dir(cfg.input)
	b, err := newBackend(cfg, baseDir)
	if err != nil {
		return err
	}
	scene, err := layout.Build(doc, layout.BuildOptions{
		Measurer: b.measurer,
		Data:     cfg.data,
		BaseDir:  baseDir,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if cfg.backend == "term" {
		// 场景尺寸要到构建后才知道，这里再把画布宽度映射到终端列数。
		scene.SetMeasurer(term.MeasurerFor(scene, cfg.width))
	}

	if cfg.debug != "" {
		if err := writeDebug(scene, cfg.debug); err != nil {
			return err
		}
	}

	out, err := render(cfg, scene, b)
	if err != nil {
		return err
	}
	if cfg.output == "-" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", cfg.output, err)
	}
	return nil
}

// render 按输出扩展名选择序列化方式：.svg 走 markup，.txt 与 - 走终端预览，其余交给后端绘制器。
func render(cfg config, scene *layout.Scene, b backend) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(cfg.output))
	switch {
	case ext == ".svg":
		return []byte(markup.ExportScene(scene, markup.DefaultOptions())), nil
	case ext == ".txt" || cfg.output == "-":
		return term.NewRenderer(term.Options{Width: cfg.width, Ruler: true, Color: cfg.output == "-"}).Render(scene)
	}
	if cfg.backend == "term" {
		return nil, fmt.Errorf("term 后端只能输出 .txt、.svg 或终端预览")
	}
	out, err := b.painter.Render(scene)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	return out, nil
}

func writeDebug(scene *layout.Scene, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(scene, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
