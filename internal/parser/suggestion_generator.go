package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"resume-insight-go/internal/types"
)

// 评分扣分值。总分从100开始逐项扣减，最后夹在[0,100]区间
const (
	penaltyMissingEmail    = 10
	penaltyMissingPhone    = 10
	penaltyFewExperience   = 8
	penaltyNoSkills        = 15
	penaltyNarrowSkills    = 7
	penaltyTooManySkills   = 5
	penaltyNoEducation     = 15
	penaltyMissingYear     = 5
	penaltyNoExperience    = 20
	penaltyThinExperience  = 10
	penaltyFormatting      = 5
	skillsNarrowThreshold  = 5
	skillsCrowdedThreshold = 15
)

// educationAdvice 学历递进建议。按顺序对最后一条教育条目做子串匹配，命中即停
type educationAdvice struct {
	Level  string
	Advice string
}

var educationLadder = []educationAdvice{
	{"High School", "Consider pursuing a diploma, bachelor's degree, or vocational training in your field."},
	{"Diploma", "Enhance your qualifications with a bachelor's degree or industry-recognized certifications."},
	{"Bachelor", "Strengthen your resume with a master's degree, certifications, or specialized courses."},
	{"Master", "You may consider a Ph.D. or professional certifications to advance your expertise."},
	{"Ph.D.", "Explore post-doctoral research, executive education, or industry leadership programs."},
}

// SuggestionGenerator 根据抽取结果产出改进建议和评分
// 全函数式组件：Evaluate永不失败，畸形输入在入口处归一化成空值
type SuggestionGenerator struct{}

// NewSuggestionGenerator 创建建议生成器
func NewSuggestionGenerator() *SuggestionGenerator {
	return &SuggestionGenerator{}
}

// NormalizeEntries 把任意JSON形态的字段归一化为字符串列表：
// 数字和字符串变成单元素列表，列表逐元素转成字符串，其余形态一律归空
func NormalizeEntries(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		if val == nil {
			return []string{}
		}
		return val
	case []any:
		entries := make([]string, 0, len(val))
		for _, e := range val {
			entries = append(entries, stringifyEntry(e))
		}
		return entries
	case string:
		return []string{val}
	case int:
		return []string{strconv.Itoa(val)}
	case int64:
		return []string{strconv.FormatInt(val, 10)}
	case float64:
		// encoding/json把所有数字解码成float64
		return []string{strconv.FormatFloat(val, 'f', -1, 64)}
	case json.Number:
		return []string{val.String()}
	default:
		return []string{}
	}
}

// stringifyEntry 列表元素的字符串化
func stringifyEntry(e any) string {
	switch val := e.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Evaluate 应用固定规则表生成分类建议和[0,100]的评分
func (g *SuggestionGenerator) Evaluate(fields types.ResumeFields) *types.SuggestionReport {
	suggestions := map[string][]string{
		types.CategoryGeneral:    {},
		types.CategorySkills:     {},
		types.CategoryEducation:  {},
		types.CategoryExperience: {},
		types.CategoryFormatting: {},
	}
	score := 100

	education := NormalizeEntries(fields.Education)
	experience := NormalizeEntries(fields.Experience)

	// 联系方式与经历数量
	if fields.Contact.Email == "" {
		suggestions[types.CategoryGeneral] = append(suggestions[types.CategoryGeneral],
			"📧 Add your email address for contact information.")
		score -= penaltyMissingEmail
	}
	if fields.Contact.Phone == "" {
		suggestions[types.CategoryGeneral] = append(suggestions[types.CategoryGeneral],
			"📞 Include your phone number for better reachability.")
		score -= penaltyMissingPhone
	}
	if len(experience) < 2 {
		suggestions[types.CategoryGeneral] = append(suggestions[types.CategoryGeneral],
			"💼 Consider adding internships, projects, or freelance work to strengthen your resume.")
		score -= penaltyFewExperience
	}

	// 技能数量
	numSkills := len(fields.Skills)
	switch {
	case numSkills == 0:
		suggestions[types.CategorySkills] = append(suggestions[types.CategorySkills],
			"🛠 Add a list of technical and soft skills relevant to your industry.")
		score -= penaltyNoSkills
	case numSkills < skillsNarrowThreshold:
		suggestions[types.CategorySkills] = append(suggestions[types.CategorySkills],
			"📚 Expand your skill set with in-demand technologies or industry-specific tools.")
		score -= penaltyNarrowSkills
	case numSkills > skillsCrowdedThreshold:
		suggestions[types.CategorySkills] = append(suggestions[types.CategorySkills],
			"🎯 Refine your skills section to highlight the most relevant and impactful ones.")
		score -= penaltyTooManySkills
	}

	// 教育。学历建议和缺少年份的检查都只看最后一条条目
	if len(education) == 0 {
		suggestions[types.CategoryEducation] = append(suggestions[types.CategoryEducation],
			"🎓 Add your educational background, including degrees, certifications, or relevant training.")
		score -= penaltyNoEducation
	} else {
		highest := education[len(education)-1]
		lowerHighest := strings.ToLower(highest)
		for _, entry := range educationLadder {
			if strings.Contains(lowerHighest, strings.ToLower(entry.Level)) {
				suggestions[types.CategoryEducation] = append(suggestions[types.CategoryEducation],
					"📖 "+entry.Advice)
				break
			}
		}
		if !containsDigit(highest) {
			suggestions[types.CategoryEducation] = append(suggestions[types.CategoryEducation],
				"📅 Consider including graduation/completion years for clarity.")
			score -= penaltyMissingYear
		}
	}

	// 经历
	if len(experience) == 0 {
		suggestions[types.CategoryExperience] = append(suggestions[types.CategoryExperience],
			"💼 Add work experience, internships, or significant projects with details about your contributions.")
		score -= penaltyNoExperience
	} else if len(experience) < 3 {
		suggestions[types.CategoryExperience] = append(suggestions[types.CategoryExperience],
			"📄 Include more details about your past projects, responsibilities, and key achievements.")
		score -= penaltyThinExperience
	}

	// 无条件追加的通用建议，排在各分类条件建议之后
	suggestions[types.CategoryFormatting] = append(suggestions[types.CategoryFormatting],
		"📝 Use consistent font, bullet points, and spacing for a clean resume.",
		"📏 Ensure your resume is well-structured and easy to read.",
		"🔹 Keep your resume concise (ideally one page for less than 5 years of experience).",
	)
	score -= penaltyFormatting

	suggestions[types.CategoryGeneral] = append(suggestions[types.CategoryGeneral],
		"🔹 Use action verbs to describe your experiences (e.g., 'Developed', 'Managed', 'Led').")

	suggestions[types.CategoryExperience] = append(suggestions[types.CategoryExperience],
		"📊 Quantify your achievements with numbers or percentages (e.g., 'Increased efficiency by 20%').",
		"📝 Focus on outcomes and impact rather than just listing job responsibilities.",
	)

	// 剔除空分类，夹住评分
	for category, list := range suggestions {
		if len(list) == 0 {
			delete(suggestions, category)
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &types.SuggestionReport{
		Suggestions: suggestions,
		ResumeScore: score,
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
