package processor

import (
	"github.com/rs/zerolog"
)

// Option 处理器可选配置
type Option func(*ResumeProcessor)

// WithPDFExtractor 替换PDF文本提取组件
func WithPDFExtractor(extractor PDFExtractor) Option {
	return func(rp *ResumeProcessor) {
		rp.components.PDFExtractor = extractor
	}
}

// WithFieldParser 替换字段抽取组件
func WithFieldParser(parser ResumeFieldParser) Option {
	return func(rp *ResumeProcessor) {
		rp.components.FieldParser = parser
	}
}

// WithEvaluator 替换建议生成组件
func WithEvaluator(evaluator SuggestionEvaluator) Option {
	return func(rp *ResumeProcessor) {
		rp.components.Evaluator = evaluator
	}
}

// WithObjectStore 替换对象存储组件
func WithObjectStore(store ParsedTextStore) Option {
	return func(rp *ResumeProcessor) {
		rp.components.ObjectStore = store
	}
}

// WithSubmissionStore 替换投递记录存储组件
func WithSubmissionStore(store SubmissionStore) Option {
	return func(rp *ResumeProcessor) {
		rp.components.Submissions = store
	}
}

// WithDedupChecker 替换文本去重组件
func WithDedupChecker(checker TextDedupChecker) Option {
	return func(rp *ResumeProcessor) {
		rp.components.Dedup = checker
	}
}

// WithReportCache 替换报告缓存组件
func WithReportCache(cache ReportCache) Option {
	return func(rp *ResumeProcessor) {
		rp.components.Cache = cache
	}
}

// WithProcessorLogger 替换日志记录器
func WithProcessorLogger(logger zerolog.Logger) Option {
	return func(rp *ResumeProcessor) {
		rp.logger = logger
	}
}
