package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// ErrNoTextContent 文档可读但不包含任何可提取文本
// 这是一个哨兵结果而不是提取失败，调用方据此区分空文档和坏文档
var ErrNoTextContent = errors.New("document contains no extractable text")

const defaultExtractTimeout = 30 * time.Second

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取文本
// 按页解析后用换行符拼接成完整文本；没有文本的页按空字符串处理
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	logger  zerolog.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithExtractorLogger 注入结构化日志记录器
func WithExtractorLogger(logger zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// WithExtractTimeout 配置单次解析的超时时间
func WithExtractTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器
// ToPages开启按页分割，由提取器负责逐页拼接
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("创建Eino PDF解析器失败: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser:  p,
		logger:  zerolog.Nop(),
		timeout: defaultExtractTimeout,
	}
	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractFromFile 从PDF文件提取完整文本和元数据
// 打开或读取失败作为提取错误（带原始原因）返回，不做重试
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	file, err := os.Open(filePath)
	if err != nil {
		e.logger.Error().Err(err).Str("path", filePath).Msg("打开PDF文件失败")
		return "", nil, fmt.Errorf("打开PDF文件 %s 失败: %w", filePath, err)
	}
	defer file.Close()

	return e.ExtractTextFromReader(ctx, file, filePath)
}

// ExtractTextFromBytes 从字节数组提取文本和元数据
func (e *EinoPDFTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri)
}

// ExtractTextFromReader 从 io.Reader 提取文本和元数据
// 返回ErrNoTextContent表示文档可读但没有可提取文本；其他错误均为提取失败
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(map[string]interface{}{"source_uri": uri}),
	)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("uri", uri).
			Dur("duration", time.Since(startTime)).
			Msg("PDF解析失败")
		return "", nil, fmt.Errorf("解析PDF失败 (uri=%s): %w", uri, err)
	}

	// 逐页拼接。解析器对无文本的页返回空内容，保持原样参与拼接
	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, doc.Content)
	}
	fullText := strings.Join(pages, "\n")

	metadata := make(map[string]interface{})
	if len(docs) > 0 && docs[0].MetaData != nil {
		for k, v := range docs[0].MetaData {
			metadata[k] = v
		}
	}
	metadata["page_count"] = len(docs)
	metadata["text_length"] = len(fullText)
	metadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	if strings.TrimSpace(fullText) == "" {
		e.logger.Info().
			Str("uri", uri).
			Int("pages", len(docs)).
			Msg("PDF中没有可提取的文本")
		return "", metadata, ErrNoTextContent
	}

	e.logger.Debug().
		Str("uri", uri).
		Int("pages", len(docs)).
		Int("chars", len(fullText)).
		Dur("duration", time.Since(startTime)).
		Msg("PDF文本提取完成")
	return fullText, metadata, nil
}
