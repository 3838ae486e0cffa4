package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/constants"
	"resume-insight-go/internal/logger"
	"resume-insight-go/internal/parser"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/tracing"
	"resume-insight-go/internal/types"
	"resume-insight-go/internal/utils"
)

var tracer = otel.Tracer("resume-insight-go/internal/processor")

// ResumeProcessor 简历分析流水线
// 消费端与同步接口共用同一套抽取+评分组件
type ResumeProcessor struct {
	components      Components
	analyzerVersion string
	logger          zerolog.Logger
}

// NewResumeProcessor 从组件集合创建处理器
func NewResumeProcessor(components Components, analyzerVersion string, opts ...Option) *ResumeProcessor {
	if analyzerVersion == "" {
		analyzerVersion = constants.DefaultAnalyzerVersion
	}
	rp := &ResumeProcessor{
		components:      components,
		analyzerVersion: analyzerVersion,
		logger:          logger.Logger,
	}
	for _, opt := range opts {
		opt(rp)
	}
	return rp
}

// NewProcessorFromConfig 根据配置与存储管理器装配完整的处理器
func NewProcessorFromConfig(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*ResumeProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	extractor, err := parser.NewEinoPDFTextExtractor(ctx, parser.WithExtractorLogger(logger.Logger))
	if err != nil {
		return nil, fmt.Errorf("创建PDF提取器失败: %w", err)
	}

	fieldParser, err := parser.NewFieldExtractor(parser.VocabularyFromConfig(&cfg.Analyzer))
	if err != nil {
		return nil, fmt.Errorf("创建字段抽取器失败: %w", err)
	}

	components := Components{
		PDFExtractor: extractor,
		FieldParser:  fieldParser,
		Evaluator:    parser.NewSuggestionGenerator(),
	}

	if storageManager != nil {
		if storageManager.MinIO != nil {
			components.ObjectStore = storageManager.MinIO
		}
		if storageManager.MySQL != nil {
			components.Submissions = storageManager.MySQL
		}
		if storageManager.Redis != nil {
			components.Dedup = storageManager.Redis
			components.Cache = storageManager.Redis
		}
	}

	return NewResumeProcessor(components, cfg.Analyzer.Version), nil
}

// checkConsumerComponents 校验消费流水线需要的组件是否齐备
func (rp *ResumeProcessor) checkConsumerComponents() error {
	if rp.components.PDFExtractor == nil {
		return ErrExtractorNotInit
	}
	if rp.components.ObjectStore == nil || rp.components.Submissions == nil {
		return ErrStorageNotInit
	}
	return nil
}

// ProcessUploadedResume 处理一条简历上传事件
// 永久性结果（提取失败、无文本、内容重复）更新状态后返回nil，消息被确认；
// 暂时性故障（下载、入库失败）返回错误，消息重新入队
func (rp *ResumeProcessor) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage) error {
	ctx, span := tracer.Start(ctx, "ProcessUploadedResume",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("submission_uuid", message.SubmissionUUID),
		attribute.String("source_channel", message.SourceChannel),
	)

	ctx = logger.WithSubmissionUUID(ctx, message.SubmissionUUID)
	log := logger.FromContext(ctx)

	log.Debug().Str("object_key", message.OriginalFilePathOSS).Msg("开始处理上传的简历")

	if err := rp.checkConsumerComponents(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return err
	}

	// 1. 从MinIO下载原始文件
	fileBytes, err := rp.components.ObjectStore.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		log.Error().Err(err).Msg("从MinIO下载简历失败")
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return NewDownloadError(message.SubmissionUUID, err.Error())
	}
	span.SetAttributes(attribute.Int("file_size_bytes", len(fileBytes)))

	// 2. 提取文本
	ctx, extractSpan := tracer.Start(ctx, "ExtractResumeText")
	text, meta, err := rp.components.PDFExtractor.ExtractTextFromBytes(ctx, fileBytes, message.OriginalFilePathOSS)
	extractSpan.End()

	if err != nil {
		if errors.Is(err, parser.ErrNoTextContent) {
			// 文档可读但没有任何文本，属于正常终态
			log.Info().Msg("简历中没有可提取的文本内容")
			span.SetAttributes(attribute.Bool("no_text_content", true))
			return rp.markTerminal(ctx, message.SubmissionUUID, constants.StatusNoTextContent)
		}
		log.Error().Err(err).Msg("提取简历文本失败")
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return rp.markTerminal(ctx, message.SubmissionUUID, constants.StatusExtractionFailed)
	}
	span.AddEvent("text_extraction_completed")
	span.SetAttributes(
		attribute.Int("text_length", len(text)),
		attribute.String("text_preview", tracing.SafeResumeContent(text)),
	)
	if pageCount, ok := meta["page_count"]; ok {
		if n, ok := pageCount.(int); ok {
			span.SetAttributes(attribute.Int("page_count", n))
		}
	}

	// 3. 文本MD5去重
	textMD5 := utils.CalculateMD5([]byte(text))
	if rp.components.Dedup != nil {
		exists, dedupErr := rp.components.Dedup.CheckAndAddParsedTextMD5(ctx, textMD5)
		if dedupErr != nil {
			// 去重失效只影响重复检测，不阻断处理
			log.Warn().Err(dedupErr).Msg("Redis检查文本MD5失败，跳过文本去重")
		} else if exists {
			log.Info().Str("md5", textMD5).Msg("检测到重复的文本内容，跳过分析")
			span.SetAttributes(
				attribute.Bool("duplicate_content", true),
				attribute.String("md5", textMD5),
			)
			return rp.markTerminal(ctx, message.SubmissionUUID, constants.StatusDuplicateText)
		}
	}

	// 4. 上传解析文本到MinIO
	span.AddEvent("uploading_parsed_text")
	textObjectKey, err := rp.components.ObjectStore.UploadParsedText(ctx, message.SubmissionUUID, text)
	if err != nil {
		log.Error().Err(err).Msg("上传解析文本到MinIO失败")
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return NewStoreError(message.SubmissionUUID, err.Error())
	}

	// 5. 字段抽取 + 建议评分
	ctx, analyzeSpan := tracer.Start(ctx, "AnalyzeResumeText")
	parsed := rp.components.FieldParser.Parse(text)
	report := rp.components.Evaluator.Evaluate(parsed.Fields())
	analyzeSpan.SetAttributes(
		attribute.Int("skills_count", len(parsed.Skills)),
		attribute.Int("resume_score", report.ResumeScore),
	)
	analyzeSpan.End()

	// 6. 落库
	dbReport := &models.AnalysisReport{
		SubmissionUUID:   message.SubmissionUUID,
		ParsedResumeJSON: utils.ConvertToJSON(parsed),
		SuggestionsJSON:  utils.ConvertToJSON(report),
		ResumeScore:      report.ResumeScore,
		AnalyzerVersion:  rp.analyzerVersion,
	}
	if err := rp.components.Submissions.SaveReport(ctx, dbReport); err != nil {
		log.Error().Err(err).Msg("保存分析报告失败")
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return NewPersistError(message.SubmissionUUID, err.Error())
	}

	if err := rp.components.Submissions.UpdateSubmissionFields(ctx, message.SubmissionUUID, map[string]interface{}{
		"parsed_text_path_oss": textObjectKey,
		"parsed_text_md5":      textMD5,
		"processing_status":    constants.StatusAnalyzed,
		"analyzer_version":     rp.analyzerVersion,
	}); err != nil {
		log.Error().Err(err).Msg("更新投递记录失败")
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return NewUpdateError(message.SubmissionUUID, err.Error())
	}

	// 7. 写报告缓存，失败只记日志
	if rp.components.Cache != nil {
		result := &types.AnalysisResult{
			SubmissionUUID: message.SubmissionUUID,
			Status:         constants.StatusAnalyzed,
			Parsed:         parsed,
			Report:         report,
		}
		if err := rp.components.Cache.CacheReport(ctx, message.SubmissionUUID, result); err != nil {
			log.Warn().Err(err).Msg("写入报告缓存失败")
		}
	}

	span.SetStatus(codes.Ok, "处理成功")
	log.Info().Int("resume_score", report.ResumeScore).Msg("简历分析完成")
	return nil
}

// markTerminal 将投递记录置为终态
// 状态写失败属于暂时性故障，返回错误让消息重新入队
func (rp *ResumeProcessor) markTerminal(ctx context.Context, submissionUUID, status string) error {
	if err := rp.components.Submissions.UpdateSubmissionStatus(ctx, submissionUUID, status); err != nil {
		return NewUpdateError(submissionUUID, err.Error())
	}
	return nil
}

// AnalyzeText 同步分析一段纯文本，不落库、不去重
func (rp *ResumeProcessor) AnalyzeText(ctx context.Context, text string) (*types.AnalysisResult, error) {
	_, span := tracer.Start(ctx, "AnalyzeText")
	defer span.End()

	if rp.components.FieldParser == nil || rp.components.Evaluator == nil {
		return nil, fmt.Errorf("分析组件未初始化")
	}

	analysisID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("生成分析ID失败: %w", err)
	}
	span.SetAttributes(attribute.String("analysis_id", analysisID.String()))

	if strings.TrimSpace(text) == "" {
		return &types.AnalysisResult{
			AnalysisID: analysisID.String(),
			Status:     constants.StatusNoTextContent,
		}, nil
	}

	parsed := rp.components.FieldParser.Parse(text)
	report := rp.components.Evaluator.Evaluate(parsed.Fields())

	span.SetAttributes(attribute.Int("resume_score", report.ResumeScore))
	return &types.AnalysisResult{
		AnalysisID: analysisID.String(),
		Status:     constants.StatusAnalyzed,
		Parsed:     parsed,
		Report:     report,
	}, nil
}

// AnalyzeFile 同步分析本地PDF文件，供命令行工具使用
func (rp *ResumeProcessor) AnalyzeFile(ctx context.Context, filePath string) (*types.AnalysisResult, error) {
	if rp.components.PDFExtractor == nil {
		return nil, ErrExtractorNotInit
	}

	text, _, err := rp.components.PDFExtractor.ExtractFromFile(ctx, filePath)
	if err != nil {
		if errors.Is(err, parser.ErrNoTextContent) {
			return &types.AnalysisResult{Status: constants.StatusNoTextContent}, nil
		}
		return nil, fmt.Errorf("提取文件 %s 文本失败: %w", filePath, err)
	}

	return rp.AnalyzeText(ctx, text)
}
