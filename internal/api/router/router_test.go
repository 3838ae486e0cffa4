package router

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-insight-go/internal/api/handler"
	"resume-insight-go/internal/config"
	"resume-insight-go/internal/constants"
	"resume-insight-go/internal/parser"
	"resume-insight-go/internal/processor"
	"resume-insight-go/internal/types"
)

func newTestEngine(t *testing.T, apiKey string) *server.Hertz {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.APIKey = apiKey

	fieldParser, err := parser.NewFieldExtractor(parser.DefaultVocabulary())
	require.NoError(t, err)

	rp := processor.NewResumeProcessor(processor.Components{
		FieldParser: fieldParser,
		Evaluator:   parser.NewSuggestionGenerator(),
	}, "")

	h := server.Default(server.WithHostPorts("127.0.0.1:0"))
	RegisterRoutes(h, cfg, handler.NewResumeHandler(cfg, nil, rp))
	return h
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestEngine(t, "")

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	resp := w.Result()

	assert.Equal(t, 200, resp.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Body()))
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestEngine(t, "")

	body := `{"text":"Contact: jane@example.com, (555) 123-4567.\nSkills: Python, Go and SQL.\nBachelor of Science, 2019.\nSenior Developer\nAcme Corp\n"}`
	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/analyze",
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()

	require.Equal(t, 200, resp.StatusCode())

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(resp.Body(), &result))

	assert.Equal(t, constants.StatusAnalyzed, result.Status)
	assert.NotEmpty(t, result.AnalysisID)
	require.NotNil(t, result.Parsed)
	assert.Equal(t, "jane@example.com", result.Parsed.Contact.Email)
	require.NotNil(t, result.Report)
	assert.True(t, result.Report.ResumeScore >= 0 && result.Report.ResumeScore <= 100)
}

func TestAnalyzeEndpointEmptyText(t *testing.T) {
	h := newTestEngine(t, "")

	body := `{"text":"   "}`
	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/analyze",
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()

	require.Equal(t, 200, resp.StatusCode())

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(resp.Body(), &result))
	assert.Equal(t, constants.StatusNoTextContent, result.Status)
	assert.Nil(t, result.Parsed)
}

func TestAPIKeyRequired(t *testing.T) {
	h := newTestEngine(t, "secret-key")

	body := `{"text":"hello"}`
	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/analyze",
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, 401, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/analyze",
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
		ut.Header{Key: "Authorization", Value: "Bearer secret-key"})
	assert.Equal(t, 200, w.Result().StatusCode())

	// 健康检查不受API Key保护
	w = ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
}
