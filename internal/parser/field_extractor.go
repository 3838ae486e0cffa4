package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-insight-go/internal/types"
)

const (
	// 标准邮箱形态：local-part @ domain . 2位以上字母TLD，首个匹配生效
	emailPattern = `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`

	// 电话形态：可选国家码、可选括号区号，3-3-4数字组之间允许 . - 空格分隔
	// 捕获组1是号码主体，国家码前缀不计入结果
	phonePattern = `\b(?:\+?\d{1,3})?[-.\s]?(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})\b`

	// 月份缩写加4位年份，用于给经历条目追加日期区间
	dateRangePattern = `\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[\w\s,-]*\d{4}\b`

	// 教育条目窗口：匹配点向前50字符、向后100字符，截到首个换行
	educationWindowBefore = 50
	educationWindowAfter  = 100
	// 窗口截取后的最小有效长度
	educationMinLength = 10

	// 下一行长度低于该值时视为公司名并入经历条目
	companyLineMaxLength = 50
)

// FieldExtractor 基于固定规则表的简历字段抽取器
// 全函数式组件：Parse永不失败，字段缺失时产出空值；同一输入永远产出同一结果
type FieldExtractor struct {
	emailRe     *regexp.Regexp
	phoneRe     *regexp.Regexp
	skillRe     *regexp.Regexp
	educationRe *regexp.Regexp
	jobTitleRe  *regexp.Regexp
	dateRe      *regexp.Regexp
}

// NewFieldExtractor 根据词表构建抽取器，词表来自配置时可能编译失败
func NewFieldExtractor(vocab *Vocabulary) (*FieldExtractor, error) {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	skillRe, err := compileWordAlternation(vocab.Skills, true)
	if err != nil {
		return nil, fmt.Errorf("编译技能词表失败: %w", err)
	}
	// 教育关键词沿用子串语义，不加词边界
	educationRe, err := compileWordAlternation(vocab.EducationKeywords, false)
	if err != nil {
		return nil, fmt.Errorf("编译教育关键词失败: %w", err)
	}
	jobTitleRe, err := compileWordAlternation(vocab.JobTitleKeywords, true)
	if err != nil {
		return nil, fmt.Errorf("编译职位关键词失败: %w", err)
	}

	return &FieldExtractor{
		emailRe:     regexp.MustCompile(emailPattern),
		phoneRe:     regexp.MustCompile(phonePattern),
		skillRe:     skillRe,
		educationRe: educationRe,
		jobTitleRe:  jobTitleRe,
		dateRe:      regexp.MustCompile(dateRangePattern),
	}, nil
}

// compileWordAlternation 将词表编译为不区分大小写的选择分支
// wordBoundary 控制是否加 \b，避免 "java" 命中 "javascript" 这类子串
func compileWordAlternation(words []string, wordBoundary bool) (*regexp.Regexp, error) {
	if len(words) == 0 {
		// 空词表永不匹配
		return regexp.Compile(`\b\B`)
	}
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	pattern := `(?i)(` + strings.Join(escaped, "|") + `)`
	if wordBoundary {
		pattern = `(?i)\b(` + strings.Join(escaped, "|") + `)\b`
	}
	return regexp.Compile(pattern)
}

// Parse 对原始文本执行全部抽取规则，产出结构化的ParsedResume
func (f *FieldExtractor) Parse(text string) *types.ParsedResume {
	return &types.ParsedResume{
		Contact:    f.extractContact(text),
		Skills:     f.extractSkills(text),
		Education:  f.extractEducation(text),
		Experience: f.extractExperience(text),
	}
}

// extractContact 抽取邮箱和电话，各自只保留首个匹配
func (f *FieldExtractor) extractContact(text string) types.ContactInfo {
	contact := types.ContactInfo{}

	if email := f.emailRe.FindString(text); email != "" {
		contact.Email = email
	}
	if m := f.phoneRe.FindStringSubmatch(text); m != nil {
		contact.Phone = m[1]
	}

	return contact
}

// extractSkills 整词匹配技能词表，统一成标题大小写后去重
func (f *FieldExtractor) extractSkills(text string) []string {
	skills := make([]string, 0)
	seen := make(map[string]bool)

	for _, match := range f.skillRe.FindAllString(text, -1) {
		skill := titleCase(match)
		if !seen[skill] {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	return skills
}

// extractEducation 对每个教育关键词命中点取上下文窗口
// 窗口截到首个换行并去除首尾空白，过短的结果丢弃；相邻命中产生的近似重复
// 不做合并，仅做精确字符串去重
func (f *FieldExtractor) extractEducation(text string) []string {
	education := make([]string, 0)
	seen := make(map[string]bool)

	for _, loc := range f.educationRe.FindAllStringIndex(text, -1) {
		start := loc[0] - educationWindowBefore
		if start < 0 {
			start = 0
		}
		end := loc[1] + educationWindowAfter
		if end > len(text) {
			end = len(text)
		}

		window := text[start:end]
		if i := strings.IndexByte(window, '\n'); i >= 0 {
			window = window[:i]
		}
		line := strings.TrimSpace(window)
		if utf8.RuneCountInString(line) <= educationMinLength {
			continue
		}
		if !seen[line] {
			seen[line] = true
			education = append(education, line)
		}
	}

	return education
}

// extractExperience 逐行查找职位关键词并拼装经历条目：
// 命中行 + 可选的下一行公司名 + 可选的日期区间
func (f *FieldExtractor) extractExperience(text string) []string {
	experience := make([]string, 0)
	seen := make(map[string]bool)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !f.jobTitleRe.MatchString(line) {
			continue
		}

		jobInfo := strings.TrimSpace(line)

		// 下一行较短时认为是公司名
		if i+1 < len(lines) && len(lines[i+1]) < companyLineMaxLength {
			jobInfo += " at " + strings.TrimSpace(lines[i+1])
		}

		// 在已拼装的条目里找日期区间（如 "Jan 2020 - Dec 2022"）
		if dateRange := f.dateRe.FindString(jobInfo); dateRange != "" {
			jobInfo += " (" + dateRange + ")"
		}

		if !seen[jobInfo] {
			seen[jobInfo] = true
			experience = append(experience, jobInfo)
		}
	}

	return experience
}

// titleCase 按词首字母大写、其余小写的规则规范化
// 非字母字符视为词的分隔（"machine learning" -> "Machine Learning"）
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
