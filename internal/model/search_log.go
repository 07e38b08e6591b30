package model

import "time"

// SearchLog 查询机构检索日志表 — 对应 search_logs
type SearchLog struct {
	SearchLogID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"search_log_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	EdutrustID     string    `gorm:"type:varchar(30);not null"                      json:"edutrust_id"`
	LearnerName    string    `gorm:"type:varchar(200)"                              json:"learner_name,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (SearchLog) TableName() string { return "search_logs" }
