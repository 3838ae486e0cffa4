package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-insight-go/internal/types"
)

func TestEvaluateEmptyResume(t *testing.T) {
	generator := NewSuggestionGenerator()

	report := generator.Evaluate(types.ResumeFields{
		Education:  []string{},
		Experience: []string{},
	})

	// 100 - 10(邮箱) - 10(电话) - 8(经历<2) - 15(无技能) - 15(无教育) - 20(无经历) - 5(排版) = 17
	assert.Equal(t, 17, report.ResumeScore)
	assert.Contains(t, report.Suggestions, types.CategoryGeneral)
	assert.Contains(t, report.Suggestions, types.CategorySkills)
	assert.Contains(t, report.Suggestions, types.CategoryEducation)
	assert.Contains(t, report.Suggestions, types.CategoryExperience)
	assert.Contains(t, report.Suggestions, types.CategoryFormatting)
}

func TestEvaluateCompleteResume(t *testing.T) {
	generator := NewSuggestionGenerator()

	report := generator.Evaluate(types.ResumeFields{
		Contact: types.ContactInfo{Email: "jane@example.com", Phone: "555-123-4567"},
		Skills:  []string{"Python", "React", "Docker", "Aws", "Sql"},
		Education: []string{
			"Bachelor of Science in Computer Science, 2018",
			"Master of Science in Data Engineering, 2021",
		},
		Experience: []string{
			"Senior Developer at Acme (Jan 2020 - Dec 2022)",
			"Junior Developer at Initech (Jun 2018 - Dec 2019)",
			"Intern at Hooli (May 2017 - Aug 2017)",
		},
	})

	// 只剩无条件的排版扣分
	assert.Equal(t, 95, report.ResumeScore)
	// 建议表里的学历递进建议针对最后一条教育条目（Master）
	require.Contains(t, report.Suggestions, types.CategoryEducation)
	assert.Contains(t, report.Suggestions[types.CategoryEducation][0], "Ph.D.")
}

func TestEvaluateScoreAlwaysInRange(t *testing.T) {
	generator := NewSuggestionGenerator()

	inputs := []types.ResumeFields{
		{},
		{Skills: []string{"Python"}},
		{Education: 2024, Experience: "one role"},
		{Education: map[string]any{"weird": true}, Experience: []any{1, 2, 3}},
	}
	for _, fields := range inputs {
		report := generator.Evaluate(fields)
		assert.GreaterOrEqual(t, report.ResumeScore, 0)
		assert.LessOrEqual(t, report.ResumeScore, 100)
		for category, list := range report.Suggestions {
			assert.NotEmpty(t, list, "category %s must not be empty", category)
		}
	}
}

func TestEvaluateEducationAsBareNumber(t *testing.T) {
	generator := NewSuggestionGenerator()

	// 裸数字归一化为单元素列表 ["2024"]：有数字所以不扣缺年份的分，
	// 也不命中任何学历名称，不追加递进建议
	report := generator.Evaluate(types.ResumeFields{
		Education:  2024,
		Experience: []string{},
	})

	eduSuggestions := report.Suggestions[types.CategoryEducation]
	for _, s := range eduSuggestions {
		assert.NotContains(t, s, "graduation/completion years")
		assert.NotContains(t, s, "📖")
	}
	// 100 - 10 - 10 - 8 - 15 - 20 - 5 = 32（教育非空，不扣15）
	assert.Equal(t, 32, report.ResumeScore)
}

func TestEvaluateEducationMissingYear(t *testing.T) {
	generator := NewSuggestionGenerator()

	report := generator.Evaluate(types.ResumeFields{
		Contact:    types.ContactInfo{Email: "a@b.com", Phone: "555-123-4567"},
		Skills:     []string{"Python", "React", "Docker", "Aws", "Sql"},
		Education:  []string{"Bachelor of Arts"},
		Experience: []string{"Engineer at A", "Engineer at B", "Engineer at C"},
	})

	// 95基础 - 5(最后一条教育条目没有数字)
	assert.Equal(t, 90, report.ResumeScore)
	require.Contains(t, report.Suggestions, types.CategoryEducation)
	assert.Contains(t, report.Suggestions[types.CategoryEducation],
		"📅 Consider including graduation/completion years for clarity.")
}

func TestEvaluateEducationLadderFirstMatchWins(t *testing.T) {
	generator := NewSuggestionGenerator()

	// 条目同时包含High School和Bachelor时，按优先级先命中High School
	report := generator.Evaluate(types.ResumeFields{
		Education:  []string{"High School then Bachelor, 2015"},
		Experience: []string{},
	})

	require.Contains(t, report.Suggestions, types.CategoryEducation)
	assert.Contains(t, report.Suggestions[types.CategoryEducation][0], "vocational training")
}

func TestEvaluateEducationOnlyLastEntryInspected(t *testing.T) {
	generator := NewSuggestionGenerator()

	report := generator.Evaluate(types.ResumeFields{
		Education:  []string{"Master of Science, 2020", "certificate program"},
		Experience: []string{},
	})

	// 最后一条没有学历名称也没有数字：无递进建议，扣缺年份的分
	require.Contains(t, report.Suggestions, types.CategoryEducation)
	for _, s := range report.Suggestions[types.CategoryEducation] {
		assert.NotContains(t, s, "📖")
	}
	assert.Contains(t, report.Suggestions[types.CategoryEducation],
		"📅 Consider including graduation/completion years for clarity.")
}

func TestEvaluateSkillThresholds(t *testing.T) {
	generator := NewSuggestionGenerator()

	narrow := generator.Evaluate(types.ResumeFields{Skills: []string{"Python"}})
	assert.Contains(t, narrow.Suggestions[types.CategorySkills][0], "Expand your skill set")

	many := make([]string, 16)
	for i := range many {
		many[i] = "Skill"
	}
	crowded := generator.Evaluate(types.ResumeFields{Skills: many})
	assert.Contains(t, crowded.Suggestions[types.CategorySkills][0], "Refine your skills")

	balanced := generator.Evaluate(types.ResumeFields{Skills: []string{"A", "B", "C", "D", "E"}})
	// 5~15个技能不产生技能类建议，分类整体被剔除
	assert.NotContains(t, balanced.Suggestions, types.CategorySkills)
}

func TestEvaluateExperienceThin(t *testing.T) {
	generator := NewSuggestionGenerator()

	report := generator.Evaluate(types.ResumeFields{
		Contact:    types.ContactInfo{Email: "a@b.com", Phone: "555-123-4567"},
		Skills:     []string{"A", "B", "C", "D", "E"},
		Education:  []string{"Bachelor of Science, 2018"},
		Experience: []string{"Engineer at A", "Engineer at B"},
	})

	// 100 - 10(经历1~2条) - 5(排版) = 85，经历数量为2不触发General的-8
	assert.Equal(t, 85, report.ResumeScore)
}

func TestEvaluateIdempotent(t *testing.T) {
	generator := NewSuggestionGenerator()
	fields := types.ResumeFields{
		Contact:    types.ContactInfo{Email: "a@b.com"},
		Skills:     []string{"Python"},
		Education:  []string{"Bachelor, 2019"},
		Experience: []string{"Engineer at A"},
	}

	first := generator.Evaluate(fields)
	second := generator.Evaluate(fields)

	assert.Equal(t, first, second)
}

func TestNormalizeEntries(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeEntries(nil))
	assert.Equal(t, []string{"2024"}, NormalizeEntries(2024))
	assert.Equal(t, []string{"2024"}, NormalizeEntries(float64(2024)))
	assert.Equal(t, []string{"single"}, NormalizeEntries("single"))
	assert.Equal(t, []string{"a", "b"}, NormalizeEntries([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "1"}, NormalizeEntries([]any{"a", float64(1)}))
	assert.Equal(t, []string{}, NormalizeEntries(map[string]any{"k": "v"}))
	assert.Equal(t, []string{}, NormalizeEntries(true))
}
