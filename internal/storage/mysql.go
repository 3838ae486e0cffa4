package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/storage/models"
)

// ErrReportNotFound 报告不存在
var ErrReportNotFound = errors.New("分析报告不存在")

// MySQL 提供简历投递记录与分析报告的持久化
type MySQL struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewMySQL 创建MySQL连接并执行自动迁移
func NewMySQL(cfg *config.MySQLConfig, logger zerolog.Logger) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		// 单条记录写入为主，跳过默认事务以减少开销
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	db, err := gorm.Open(mysql.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层sql.DB失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}
	if cfg.ConnMaxIdleTimeMinutes > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)
	}

	if err := db.Use(&gormTracingPlugin{}); err != nil {
		return nil, fmt.Errorf("注册GORM追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, logger: logger}
	if err := m.autoMigrateSchema(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("MySQL连接初始化成功")
	return m, nil
}

// gormLogLevel 把配置中的数字级别转换为GORM日志级别
func gormLogLevel(level int) gormlogger.LogLevel {
	switch level {
	case 1:
		return gormlogger.Silent
	case 2:
		return gormlogger.Error
	case 3:
		return gormlogger.Warn
	case 4:
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// autoMigrateSchema 自动迁移数据库表结构
func (m *MySQL) autoMigrateSchema() error {
	if err := m.db.AutoMigrate(
		&models.ResumeSubmission{},
		&models.AnalysisReport{},
	); err != nil {
		return fmt.Errorf("数据库表结构迁移失败: %w", err)
	}
	return nil
}

// DB 返回底层GORM实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSubmission 保存简历投递记录
func (m *MySQL) SaveSubmission(ctx context.Context, submission *models.ResumeSubmission) error {
	if err := m.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("保存投递记录 %s 失败: %w", submission.SubmissionUUID, err)
	}
	return nil
}

// GetSubmission 按UUID查询投递记录
func (m *MySQL) GetSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error) {
	var submission models.ResumeSubmission
	err := m.db.WithContext(ctx).
		Where("submission_uuid = ?", submissionUUID).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("查询投递记录 %s 失败: %w", submissionUUID, err)
	}
	return &submission, nil
}

// UpdateSubmissionStatus 更新投递记录的处理状态
func (m *MySQL) UpdateSubmissionStatus(ctx context.Context, submissionUUID, status string) error {
	result := m.db.WithContext(ctx).
		Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Update("processing_status", status)
	if result.Error != nil {
		return fmt.Errorf("更新投递记录 %s 状态为 %s 失败: %w", submissionUUID, status, result.Error)
	}
	if result.RowsAffected == 0 {
		m.logger.Warn().
			Str("submission_uuid", submissionUUID).
			Str("status", status).
			Msg("状态更新未命中任何记录")
	}
	return nil
}

// UpdateSubmissionFields 批量更新投递记录的指定字段
func (m *MySQL) UpdateSubmissionFields(ctx context.Context, submissionUUID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := m.db.WithContext(ctx).
		Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("更新投递记录 %s 字段失败: %w", submissionUUID, err)
	}
	return nil
}

// SaveReport 保存分析报告，重复写入时更新已有记录
func (m *MySQL) SaveReport(ctx context.Context, report *models.AnalysisReport) error {
	err := m.db.WithContext(ctx).Save(report).Error
	if err != nil {
		return fmt.Errorf("保存分析报告 %s 失败: %w", report.SubmissionUUID, err)
	}
	return nil
}

// GetReport 按投递UUID查询分析报告
func (m *MySQL) GetReport(ctx context.Context, submissionUUID string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	err := m.db.WithContext(ctx).
		Where("submission_uuid = ?", submissionUUID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("查询分析报告 %s 失败: %w", submissionUUID, err)
	}
	return &report, nil
}

// gormTracingPlugin GORM的OpenTelemetry追踪插件
type gormTracingPlugin struct{}

const gormSpanKey = "otel:span"

func (p *gormTracingPlugin) Name() string {
	return "OpenTelemetryTracingPlugin"
}

func (p *gormTracingPlugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("otel:before_create", beforeCallback("gorm.create")); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("otel:after_create", afterCallback); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("otel:before_query", beforeCallback("gorm.query")); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("otel:after_query", afterCallback); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("otel:before_update", beforeCallback("gorm.update")); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("otel:after_update", afterCallback); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("otel:before_delete", beforeCallback("gorm.delete")); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("otel:after_delete", afterCallback); err != nil {
		return err
	}
	return nil
}

func beforeCallback(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		tracer := otel.Tracer("resume-insight-go/internal/storage")
		ctx, span := tracer.Start(db.Statement.Context, operation,
			trace.WithSpanKind(trace.SpanKindClient))
		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)
	}
}

func afterCallback(db *gorm.DB) {
	value, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := value.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if db.Statement != nil {
		span.SetAttributes(
			attribute.String("db.system", "mysql"),
			attribute.String("db.table", db.Statement.Table),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
