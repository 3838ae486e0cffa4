package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *FieldExtractor {
	t.Helper()
	extractor, err := NewFieldExtractor(DefaultVocabulary())
	require.NoError(t, err)
	return extractor
}

func TestParseContactAndSkills(t *testing.T) {
	extractor := newTestExtractor(t)

	text := "Contact: jane@example.com, (555) 123-4567. Skills: Python, React, Docker."
	parsed := extractor.Parse(text)

	assert.Equal(t, "jane@example.com", parsed.Contact.Email)
	// 电话模式以词边界起始，左括号不在匹配范围内
	assert.Equal(t, "555) 123-4567", parsed.Contact.Phone)
	assert.Subset(t, parsed.Skills, []string{"Python", "React", "Docker"})
}

func TestParseContactFirstMatchWins(t *testing.T) {
	extractor := newTestExtractor(t)

	text := "first@example.com and second@example.com\n+1 (555) 123-4567 or 666-777-8888"
	parsed := extractor.Parse(text)

	assert.Equal(t, "first@example.com", parsed.Contact.Email)
	// 国家码前缀不计入号码主体
	assert.Equal(t, "(555) 123-4567", parsed.Contact.Phone)
}

func TestParseContactAbsent(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("no contact details here")

	assert.Empty(t, parsed.Contact.Email)
	assert.Empty(t, parsed.Contact.Phone)
}

func TestParseSkillsWholeWordOnly(t *testing.T) {
	extractor := newTestExtractor(t)

	// "javascript" 不允许连带命中 "java"
	parsed := extractor.Parse("I know javascript and nodejs")

	assert.Equal(t, []string{"Javascript"}, parsed.Skills)
}

func TestParseSkillsCanonicalization(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("AI-driven, AWS. machine learning! PYTHON python Python")

	assert.ElementsMatch(t, []string{"Ai", "Aws", "Machine Learning", "Python"}, parsed.Skills)
}

func TestParseEducationWindow(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("Bachelor of Science in Computer Science from MIT, 2018")

	require.NotEmpty(t, parsed.Education)
	assert.Contains(t, parsed.Education, "Bachelor of Science in Computer Science from MIT, 2018")
}

func TestParseEducationWindowCutAtPrecedingLine(t *testing.T) {
	extractor := newTestExtractor(t)

	// 窗口起点落在上一行时，截到首个换行得到的是上一行的尾巴，
	// 长度不足会被丢弃（沿用既有口径，不做合并修正）
	parsed := extractor.Parse("Education\nBachelor of Science in Computer Science, MIT University, 2018")

	assert.Empty(t, parsed.Education)
}

func TestParseEducationShortLineDropped(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("BSc 2018")

	assert.Empty(t, parsed.Education)
}

func TestParseExperienceWithCompanyLine(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("Senior Developer\nAcme Corp\nJan 2020 - Dec 2022")

	// 日期行不属于候选串（候选串只含命中行和下一行），因此不带日期标注
	assert.Contains(t, parsed.Experience, "Senior Developer at Acme Corp")
}

func TestParseExperienceWithDateRange(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("Senior Developer\nAcme Corp, Jan 2020 - Dec 2022")

	require.Len(t, parsed.Experience, 1)
	entry := parsed.Experience[0]
	assert.Contains(t, entry, "Senior Developer at Acme Corp")
	assert.Contains(t, entry, "(Jan 2020 - Dec 2022)")
}

func TestParseExperienceLongNextLineSkipped(t *testing.T) {
	extractor := newTestExtractor(t)

	longLine := "This line is definitely longer than fifty characters and is not a company"
	parsed := extractor.Parse("Software Engineer\n" + longLine)

	assert.Contains(t, parsed.Experience, "Software Engineer")
}

func TestParseExperienceBlankNextLine(t *testing.T) {
	extractor := newTestExtractor(t)

	// 空行长度小于阈值，同样触发拼接
	parsed := extractor.Parse("Senior Developer\n\nAcme")

	assert.Contains(t, parsed.Experience, "Senior Developer at")
}

func TestParseEmptyText(t *testing.T) {
	extractor := newTestExtractor(t)

	parsed := extractor.Parse("")

	assert.Empty(t, parsed.Contact.Email)
	assert.Empty(t, parsed.Contact.Phone)
	assert.NotNil(t, parsed.Skills)
	assert.NotNil(t, parsed.Education)
	assert.NotNil(t, parsed.Experience)
	assert.Empty(t, parsed.Skills)
	assert.Empty(t, parsed.Education)
	assert.Empty(t, parsed.Experience)
}

func TestParseIdempotent(t *testing.T) {
	extractor := newTestExtractor(t)

	text := "jane@example.com\nSenior Engineer\nAcme, Mar 2021\nBachelor of Engineering from State University"
	first := extractor.Parse(text)
	second := extractor.Parse(text)

	assert.Equal(t, first, second)
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"python":           "Python",
		"machine learning": "Machine Learning",
		"AWS":              "Aws",
		"aI":               "Ai",
		"data analysis":    "Data Analysis",
	}
	for input, want := range cases {
		assert.Equal(t, want, titleCase(input), "titleCase(%q)", input)
	}
}

func TestVocabularyFromConfigOverride(t *testing.T) {
	vocab := DefaultVocabulary()
	assert.Contains(t, vocab.Skills, "python")
	assert.Len(t, vocab.EducationKeywords, 10)
	assert.Len(t, vocab.JobTitleKeywords, 11)
}
