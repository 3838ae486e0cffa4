package processor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-insight-go/internal/constants"
	"resume-insight-go/internal/parser"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/types"
)

// MockPDFExtractor 模拟PDF提取器
type MockPDFExtractor struct {
	text     string
	metadata map[string]interface{}
	err      error
}

func (m *MockPDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	return m.text, m.metadata, m.err
}

func (m *MockPDFExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	return m.text, m.metadata, m.err
}

func (m *MockPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	return m.text, m.metadata, m.err
}

// MockObjectStore 模拟对象存储
type MockObjectStore struct {
	fileBytes    []byte
	downloadErr  error
	uploadErr    error
	uploadedText string
}

func (m *MockObjectStore) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	return m.fileBytes, m.downloadErr
}

func (m *MockObjectStore) UploadParsedText(ctx context.Context, submissionUUID string, text string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploadedText = text
	return "resume/" + submissionUUID + "/parsed_text.txt", nil
}

// MockSubmissionStore 模拟投递记录存储
type MockSubmissionStore struct {
	statuses    []string
	fields      map[string]interface{}
	savedReport *models.AnalysisReport
	updateErr   error
	saveErr     error
}

func (m *MockSubmissionStore) UpdateSubmissionStatus(ctx context.Context, submissionUUID, status string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *MockSubmissionStore) UpdateSubmissionFields(ctx context.Context, submissionUUID string, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.fields = fields
	return nil
}

func (m *MockSubmissionStore) SaveReport(ctx context.Context, report *models.AnalysisReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedReport = report
	return nil
}

// MockDedupChecker 模拟文本去重
type MockDedupChecker struct {
	exists bool
	err    error
}

func (m *MockDedupChecker) CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error) {
	return m.exists, m.err
}

// MockReportCache 模拟报告缓存
type MockReportCache struct {
	cached *types.AnalysisResult
}

func (m *MockReportCache) CacheReport(ctx context.Context, submissionUUID string, result *types.AnalysisResult) error {
	m.cached = result
	return nil
}

const sampleResumeText = "Contact: jane@example.com, (555) 123-4567.\n" +
	"Skills: Python, Go, SQL and Docker.\n" +
	"Bachelor of Science in Computer Science, 2019.\n" +
	"Senior Developer\nAcme Corp, Jan 2020 - Dec 2022\n"

func newTestComponents(t *testing.T) (Components, *MockObjectStore, *MockSubmissionStore, *MockDedupChecker, *MockReportCache) {
	t.Helper()

	fieldParser, err := parser.NewFieldExtractor(parser.DefaultVocabulary())
	require.NoError(t, err)

	objectStore := &MockObjectStore{fileBytes: []byte("%PDF-fake")}
	submissions := &MockSubmissionStore{}
	dedup := &MockDedupChecker{}
	cache := &MockReportCache{}

	components := Components{
		PDFExtractor: &MockPDFExtractor{text: sampleResumeText},
		FieldParser:  fieldParser,
		Evaluator:    parser.NewSuggestionGenerator(),
		ObjectStore:  objectStore,
		Submissions:  submissions,
		Dedup:        dedup,
		Cache:        cache,
	}
	return components, objectStore, submissions, dedup, cache
}

func testMessage() storage.ResumeUploadMessage {
	return storage.ResumeUploadMessage{
		SubmissionUUID:      "018f4e2a-0000-7000-8000-000000000001",
		OriginalFilename:    "resume.pdf",
		OriginalFilePathOSS: "resume/018f4e2a-0000-7000-8000-000000000001/original.pdf",
	}
}

func TestProcessUploadedResumeSuccess(t *testing.T) {
	components, objectStore, submissions, _, cache := newTestComponents(t)
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.NoError(t, err)

	assert.Equal(t, sampleResumeText, objectStore.uploadedText)

	require.NotNil(t, submissions.savedReport)
	assert.Equal(t, constants.DefaultAnalyzerVersion, submissions.savedReport.AnalyzerVersion)
	assert.True(t, submissions.savedReport.ResumeScore >= 0 && submissions.savedReport.ResumeScore <= 100)

	require.NotNil(t, submissions.fields)
	assert.Equal(t, constants.StatusAnalyzed, submissions.fields["processing_status"])
	assert.NotEmpty(t, submissions.fields["parsed_text_md5"])

	require.NotNil(t, cache.cached)
	assert.Equal(t, constants.StatusAnalyzed, cache.cached.Status)
	require.NotNil(t, cache.cached.Parsed)
	assert.Equal(t, "jane@example.com", cache.cached.Parsed.Contact.Email)
}

func TestProcessUploadedResumeNoTextContent(t *testing.T) {
	components, _, submissions, _, _ := newTestComponents(t)
	components.PDFExtractor = &MockPDFExtractor{err: parser.ErrNoTextContent}
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.NoError(t, err)

	assert.Equal(t, []string{constants.StatusNoTextContent}, submissions.statuses)
	assert.Nil(t, submissions.savedReport)
}

func TestProcessUploadedResumeExtractionFailed(t *testing.T) {
	components, _, submissions, _, _ := newTestComponents(t)
	components.PDFExtractor = &MockPDFExtractor{err: errors.New("corrupt pdf")}
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.NoError(t, err)

	assert.Equal(t, []string{constants.StatusExtractionFailed}, submissions.statuses)
}

func TestProcessUploadedResumeDuplicateText(t *testing.T) {
	components, objectStore, submissions, dedup, _ := newTestComponents(t)
	dedup.exists = true
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.NoError(t, err)

	assert.Equal(t, []string{constants.StatusDuplicateText}, submissions.statuses)
	assert.Empty(t, objectStore.uploadedText)
	assert.Nil(t, submissions.savedReport)
}

func TestProcessUploadedResumeDedupFailureContinues(t *testing.T) {
	components, _, submissions, dedup, _ := newTestComponents(t)
	dedup.err = errors.New("redis down")
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.NoError(t, err)

	// 去重不可用时仍然完成分析
	require.NotNil(t, submissions.savedReport)
	assert.Equal(t, constants.StatusAnalyzed, submissions.fields["processing_status"])
}

func TestProcessUploadedResumeDownloadFailure(t *testing.T) {
	components, objectStore, _, _, _ := newTestComponents(t)
	objectStore.downloadErr = errors.New("connection refused")
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResumeDownloadFailed)
}

func TestProcessUploadedResumePersistFailure(t *testing.T) {
	components, _, submissions, _, _ := newTestComponents(t)
	submissions.saveErr = errors.New("deadlock")
	rp := NewResumeProcessor(components, "")

	err := rp.ProcessUploadedResume(context.Background(), testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistReportFailed)
}

func TestAnalyzeText(t *testing.T) {
	components, _, _, _, _ := newTestComponents(t)
	rp := NewResumeProcessor(components, "2.0")

	result, err := rp.AnalyzeText(context.Background(), sampleResumeText)
	require.NoError(t, err)

	assert.NotEmpty(t, result.AnalysisID)
	assert.Equal(t, constants.StatusAnalyzed, result.Status)
	require.NotNil(t, result.Parsed)
	assert.Equal(t, "jane@example.com", result.Parsed.Contact.Email)
	assert.Contains(t, result.Parsed.Skills, "Python")
	require.NotNil(t, result.Report)
	assert.True(t, result.Report.ResumeScore >= 0 && result.Report.ResumeScore <= 100)
}

func TestAnalyzeTextEmpty(t *testing.T) {
	components, _, _, _, _ := newTestComponents(t)
	rp := NewResumeProcessor(components, "")

	result, err := rp.AnalyzeText(context.Background(), "   \n\t  ")
	require.NoError(t, err)

	assert.Equal(t, constants.StatusNoTextContent, result.Status)
	assert.Nil(t, result.Parsed)
	assert.Nil(t, result.Report)
}

func TestAnalyzeFileNoText(t *testing.T) {
	components, _, _, _, _ := newTestComponents(t)
	components.PDFExtractor = &MockPDFExtractor{err: parser.ErrNoTextContent}
	rp := NewResumeProcessor(components, "")

	result, err := rp.AnalyzeFile(context.Background(), "scanned.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusNoTextContent, result.Status)
}
