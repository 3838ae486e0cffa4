package storage

import "time"

// ResumeUploadMessage 简历上传事件
// 由上传接口发布，消费者据此拉取原始文件并执行抽取+评分
type ResumeUploadMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
	SourceChannel       string    `json:"source_channel,omitempty"`
	OriginalFilename    string    `json:"original_filename"`
	OriginalFilePathOSS string    `json:"original_file_path_oss"`
	RawFileMD5          string    `json:"raw_file_md5,omitempty"`
}
