package types

// ContactInfo 联系方式。只保留文档顺序中的首个匹配（first-occurrence 策略）
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ParsedResume 字段抽取结果
// 四个字段始终存在：contact 可以是空对象，三个列表可以为空，但不允许是 nil
type ParsedResume struct {
	Contact    ContactInfo `json:"contact"`
	Skills     []string    `json:"skills"`
	Education  []string    `json:"education"`
	Experience []string    `json:"experience"`
}

// Fields 转换为建议生成器的松散输入形态
func (p *ParsedResume) Fields() ResumeFields {
	return ResumeFields{
		Contact:    p.Contact,
		Skills:     p.Skills,
		Education:  p.Education,
		Experience: p.Experience,
	}
}

// ResumeFields 建议生成器的输入边界
// education/experience 允许以任意 JSON 形态到达（数字、字符串、数组或其他），
// 由生成器在入口处做显式归一化，而不是在内部隐式转换
type ResumeFields struct {
	Contact    ContactInfo `json:"contact"`
	Skills     []string    `json:"skills"`
	Education  any         `json:"education"`
	Experience any         `json:"experience"`
}

// 建议分类名。分类下没有任何建议时整个分类从结果中剔除
const (
	CategoryGeneral    = "General"
	CategorySkills     = "Skills"
	CategoryEducation  = "Education"
	CategoryExperience = "Experience"
	CategoryFormatting = "Formatting"
)

// SuggestionReport 建议与评分结果
// ResumeScore 始终落在 [0, 100] 区间内
type SuggestionReport struct {
	Suggestions map[string][]string `json:"suggestions"`
	ResumeScore int                 `json:"resume_score"`
}

// AnalysisResult 一次完整分析的对外视图（同步分析接口与报告查询接口共用）
type AnalysisResult struct {
	SubmissionUUID string            `json:"submission_uuid,omitempty"`
	AnalysisID     string            `json:"analysis_id,omitempty"`
	Status         string            `json:"status,omitempty"`
	Parsed         *ParsedResume     `json:"parsed,omitempty"`
	Report         *SuggestionReport `json:"report,omitempty"`
}
