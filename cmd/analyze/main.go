package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/logger"
	"resume-insight-go/internal/processor"
)

// 一次性分析工具：给定PDF或纯文本，输出抽取结果与建议报告的JSON
func main() {
	var (
		configPath string
		pdfPath    string
		textPath   string
		timeout    time.Duration
	)
	pflag.StringVar(&configPath, "config", "", "配置文件路径，留空时使用内置词表")
	pflag.StringVar(&pdfPath, "pdf", "", "待分析的PDF文件路径")
	pflag.StringVar(&textPath, "text", "", "待分析的纯文本文件路径，传 - 时从stdin读取")
	pflag.DurationVar(&timeout, "timeout", 60*time.Second, "分析超时时间")
	pflag.Parse()

	if pdfPath == "" && textPath == "" {
		fmt.Fprintln(os.Stderr, "用法: analyze --pdf resume.pdf 或 analyze --text resume.txt")
		os.Exit(2)
	}

	logger.Init(logger.Config{Level: "warn", Format: "pretty"})

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// 配置缺失时退回默认词表，命令行工具不依赖外部服务
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rp, err := processor.NewProcessorFromConfig(ctx, cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化分析器失败: %v\n", err)
		os.Exit(1)
	}

	result, err := analyze(ctx, rp, pdfPath, textPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "分析失败: %v\n", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "输出结果失败: %v\n", err)
		os.Exit(1)
	}
}

func analyze(ctx context.Context, rp *processor.ResumeProcessor, pdfPath, textPath string) (interface{}, error) {
	if pdfPath != "" {
		return rp.AnalyzeFile(ctx, pdfPath)
	}

	var (
		data []byte
		err  error
	)
	if textPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(textPath)
	}
	if err != nil {
		return nil, fmt.Errorf("读取文本失败: %w", err)
	}

	return rp.AnalyzeText(ctx, strings.ToValidUTF8(string(data), ""))
}
