package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeSubmission 简历提交记录
// 一次上传对应一行，处理状态随流水线推进更新
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string    `gorm:"type:varchar(100)"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	ParsedTextMD5       string    `gorm:"type:char(32);index:idx_rs_parsed_text_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_ANALYSIS';index:idx_rs_processing_status"`
	AnalyzerVersion     string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// AnalysisReport 字段抽取结果与改进建议
// 抽取结果和建议都以JSON原样落库，读取侧直接反序列化返回
type AnalysisReport struct {
	SubmissionUUID   string         `gorm:"type:char(36);primaryKey"`
	ParsedResumeJSON datatypes.JSON `gorm:"type:json"`
	SuggestionsJSON  datatypes.JSON `gorm:"type:json"`
	ResumeScore      int            `gorm:"type:int;not null;index:idx_ar_resume_score"`
	AnalyzerVersion  string         `gorm:"type:varchar(50)"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Submission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}
