package constants

// 分析器版本，写入报告记录，便于口径变更后区分历史数据
const DefaultAnalyzerVersion = "1.0"

// ResumeSubmission.ProcessingStatus 的取值
const (
	StatusPendingAnalysis  = "PENDING_ANALYSIS"   // 已入队，等待消费者处理
	StatusAnalyzed         = "ANALYZED"           // 抽取+评分完成，报告可查
	StatusNoTextContent    = "NO_TEXT_CONTENT"    // 文档可读但没有任何可提取文本（非错误）
	StatusExtractionFailed = "EXTRACTION_FAILED"  // 打开/读取/解析文档失败
	StatusDuplicateFile    = "DUPLICATE_FILE"     // 原始文件MD5命中去重集合
	StatusDuplicateText    = "DUPLICATE_TEXT"     // 解析文本MD5命中去重集合
)

// 上传接口直接返回的状态
const (
	UploadStatusSubmitted     = "SUBMITTED_FOR_ANALYSIS"
	UploadStatusDuplicateSkip = "DUPLICATE_FILE_SKIPPED"
)
