package constants

// Redis Key 前缀和格式常量
// 统一命名规范: insight:{module}:{entity}[:{unique_id}]
const (
	// AppPrefix 所有Redis Key的统一应用前缀
	AppPrefix = "insight"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// ReportModulePrefix 报告模块
	ReportModulePrefix = "report"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityCache 缓存实体
	EntityCache = "cache"

	// KeyRawFileMD5Set 原始文件MD5去重集合 (SET)
	// 格式: insight:file:dedup_set:raw
	KeyRawFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":raw"

	// KeyParsedTextMD5Set 解析文本MD5去重集合 (SET)
	// 格式: insight:file:dedup_set:text
	KeyParsedTextMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":text"

	// KeyReportCache 单次提交的分析报告缓存 (STRING, JSON)
	// 格式: insight:report:cache:{submissionUUID}
	KeyReportCache = AppPrefix + ":" + ReportModulePrefix + ":" + EntityCache + ":%s"
)
