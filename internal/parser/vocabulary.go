package parser

import "resume-insight-go/internal/config"

// Vocabulary 字段抽取使用的固定词表
// 进程启动时构建一次，之后只读；所有匹配均不区分大小写
type Vocabulary struct {
	// Skills 技能词表，逐词整词匹配
	Skills []string
	// EducationKeywords 教育关键词，子串匹配（不加词边界）
	EducationKeywords []string
	// JobTitleKeywords 职位关键词，整词匹配
	JobTitleKeywords []string
}

// 内置默认技能词表：编程语言、框架、云平台与方法论术语
var defaultSkills = []string{
	"python", "java", "javascript", "html", "css", "sql", "react",
	"angular", "vue", "node", "django", "flask", "spring", "docker",
	"kubernetes", "aws", "azure", "gcp", "machine learning", "ai",
	"data analysis", "project management", "agile", "scrum",
}

var defaultEducationKeywords = []string{
	"Bachelor", "Master", "PhD", "BSc", "MSc", "MBA",
	"Associate", "Degree", "University", "College",
}

var defaultJobTitleKeywords = []string{
	"Engineer", "Developer", "Manager", "Director", "Analyst",
	"Consultant", "Lead", "Senior", "Junior", "Intern", "Specialist",
}

// DefaultVocabulary 返回内置默认词表
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Skills:            defaultSkills,
		EducationKeywords: defaultEducationKeywords,
		JobTitleKeywords:  defaultJobTitleKeywords,
	}
}

// VocabularyFromConfig 根据配置构建词表，未配置的部分回落到内置默认表
func VocabularyFromConfig(cfg *config.AnalyzerConfig) *Vocabulary {
	vocab := DefaultVocabulary()
	if cfg == nil {
		return vocab
	}
	if len(cfg.SkillVocabulary) > 0 {
		vocab.Skills = cfg.SkillVocabulary
	}
	if len(cfg.EducationKeywords) > 0 {
		vocab.EducationKeywords = cfg.EducationKeywords
	}
	if len(cfg.JobTitleKeywords) > 0 {
		vocab.JobTitleKeywords = cfg.JobTitleKeywords
	}
	return vocab
}
