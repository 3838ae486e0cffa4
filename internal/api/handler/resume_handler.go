package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/constants"
	"resume-insight-go/internal/logger"
	"resume-insight-go/internal/processor"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/types"
	"resume-insight-go/internal/utils"
)

// ErrReportNotFound 投递记录不存在
var ErrReportNotFound = storage.ErrReportNotFound

// ResumeHandler 简历接口处理器，负责上传、查询与同步分析
type ResumeHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	processorModule *processor.ResumeProcessor
}

// NewResumeHandler 创建简历接口处理器
func NewResumeHandler(
	cfg *config.Config,
	storage *storage.Storage,
	processorModule *processor.ResumeProcessor,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:             cfg,
		storage:         storage,
		processorModule: processorModule,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// HandleResumeUpload 处理简历上传请求
// 文件MD5去重 -> MinIO存原始文件 -> 落投递记录 -> 发布上传事件
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, sourceChannel string) (*ResumeUploadResponse, error) {

	// reader只能读一次，先整体读出来算MD5
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	// 原子地检查并登记文件MD5
	exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("查询Redis文件MD5去重集合失败")
		return nil, fmt.Errorf("检查文件重复性失败: %w", err)
	}
	if exists {
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			Status: constants.UploadStatusDuplicateSkip,
		}, nil
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	// 上传原始文件到MinIO
	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext,
		bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	// 落投递记录，消费者之后按UUID更新状态
	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: time.Now(),
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		ProcessingStatus:    constants.StatusPendingAnalysis,
	}
	if err := h.storage.MySQL.SaveSubmission(ctx, submission); err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("保存投递记录失败: %w", err)
	}

	// 发布上传事件
	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: submission.SubmissionTimestamp,
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
	}
	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true, // 持久化
	)
	if err != nil {
		// 消息没发出去，这次提交不会被处理；回滚去重登记，允许重新上传
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         constants.UploadStatusSubmitted,
	}, nil
}

// rollbackFileMD5 上传流程失败后撤销文件MD5登记
func (h *ResumeHandler) rollbackFileMD5(ctx context.Context, fileMD5Hex string) {
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("回滚文件MD5登记失败")
	}
}

// StartResumeUploadConsumer 启动简历上传消费者
func (h *ResumeHandler) StartResumeUploadConsumer(ctx context.Context) error {
	if err := h.storage.RabbitMQ.SetupResumeTopology(); err != nil {
		return fmt.Errorf("声明RabbitMQ拓扑失败: %w", err)
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.RawResumeQueue).
		Int("prefetch", h.cfg.RabbitMQ.PrefetchCount).
		Msg("简历上传消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, h.cfg.RabbitMQ.PrefetchCount, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			// 消息体损坏，重新入队也无法恢复
			logger.Error().Err(err).Msg("解析上传事件消息失败")
			return true
		}

		if err := h.processorModule.ProcessUploadedResume(ctx, message); err != nil {
			logger.Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理简历上传事件失败")
			return false
		}
		return true
	})

	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}
	return nil
}

// GetReport 查询单次提交的分析报告
// 优先读Redis缓存，未命中回源MySQL并回填缓存
func (h *ResumeHandler) GetReport(ctx context.Context, submissionUUID string) (*types.AnalysisResult, error) {
	if h.storage.Redis != nil {
		cached, err := h.storage.Redis.GetCachedReport(ctx, submissionUUID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("读取报告缓存失败")
		}
	}

	submission, err := h.storage.MySQL.GetSubmission(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	result := &types.AnalysisResult{
		SubmissionUUID: submissionUUID,
		Status:         submission.ProcessingStatus,
	}

	// 非终态ANALYZED时只返回状态
	if submission.ProcessingStatus != constants.StatusAnalyzed {
		return result, nil
	}

	report, err := h.storage.MySQL.GetReport(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	var parsed types.ParsedResume
	if err := json.Unmarshal(report.ParsedResumeJSON, &parsed); err != nil {
		return nil, fmt.Errorf("反序列化抽取结果失败: %w", err)
	}
	var suggestions types.SuggestionReport
	if err := json.Unmarshal(report.SuggestionsJSON, &suggestions); err != nil {
		return nil, fmt.Errorf("反序列化建议报告失败: %w", err)
	}

	result.Parsed = &parsed
	result.Report = &suggestions

	if h.storage.Redis != nil {
		if err := h.storage.Redis.CacheReport(ctx, submissionUUID, result); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("回填报告缓存失败")
		}
	}

	return result, nil
}

// AnalyzeText 同步分析一段纯文本
func (h *ResumeHandler) AnalyzeText(ctx context.Context, text string) (*types.AnalysisResult, error) {
	return h.processorModule.AnalyzeText(ctx, text)
}
