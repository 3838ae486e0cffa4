package processor

import (
	"context"
	"io"

	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/types"
)

//
// PDF解析相关接口
//

// PDFExtractor PDF文本提取接口
type PDFExtractor interface {
	// ExtractFromFile 从PDF文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractTextFromReader 从io.Reader提取文本和元数据
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
}

//
// 字段抽取与评分相关接口
//

// ResumeFieldParser 简历字段抽取接口
type ResumeFieldParser interface {
	// Parse 从纯文本中抽取联系方式、技能、教育和经历
	Parse(text string) *types.ParsedResume
}

// SuggestionEvaluator 建议生成与评分接口
type SuggestionEvaluator interface {
	// Evaluate 根据抽取结果生成分类建议和0-100评分
	Evaluate(fields types.ResumeFields) *types.SuggestionReport
}

//
// 存储侧窄接口，便于测试时替换
//

// ParsedTextStore 解析文本与原始文件的对象存储操作
type ParsedTextStore interface {
	// GetResumeFile 下载原始简历文件
	GetResumeFile(ctx context.Context, objectKey string) ([]byte, error)

	// UploadParsedText 上传解析后的文本，返回对象键
	UploadParsedText(ctx context.Context, submissionUUID string, text string) (string, error)
}

// SubmissionStore 投递记录与报告的持久化操作
type SubmissionStore interface {
	// UpdateSubmissionStatus 更新处理状态
	UpdateSubmissionStatus(ctx context.Context, submissionUUID, status string) error

	// UpdateSubmissionFields 批量更新指定字段
	UpdateSubmissionFields(ctx context.Context, submissionUUID string, fields map[string]interface{}) error

	// SaveReport 保存分析报告
	SaveReport(ctx context.Context, report *models.AnalysisReport) error
}

// TextDedupChecker 解析文本MD5去重
type TextDedupChecker interface {
	// CheckAndAddParsedTextMD5 返回true表示文本此前已出现过
	CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error)
}

// ReportCache 分析结果缓存
type ReportCache interface {
	// CacheReport 缓存分析结果
	CacheReport(ctx context.Context, submissionUUID string, result *types.AnalysisResult) error
}

// Components 聚合处理流水线的全部组件依赖，便于集中管理和测试替换
type Components struct {
	PDFExtractor PDFExtractor        // PDF文本提取
	FieldParser  ResumeFieldParser   // 字段抽取
	Evaluator    SuggestionEvaluator // 建议生成与评分

	ObjectStore ParsedTextStore  // 对象存储
	Submissions SubmissionStore  // 关系型存储
	Dedup       TextDedupChecker // 文本去重
	Cache       ReportCache      // 报告缓存
}
