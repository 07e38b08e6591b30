package model

import "time"

// Organization 查询机构表 — 对应 organizations
// 指用人单位、高校招生办等需要核验学业记录的第三方
type Organization struct {
	OrganizationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	AccountID      string    `gorm:"type:uuid;not null"                             json:"account_id"`
	Name           string    `gorm:"type:varchar(200);not null"                     json:"name"`
	OrgIDCode      string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"org_id_code"`
	ContactEmail   string    `gorm:"type:varchar(255)"                              json:"contact_email,omitempty"`
	Plan           string    `gorm:"type:varchar(50)"                               json:"plan,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Account *Account `gorm:"foreignKey:AccountID;references:AccountID" json:"account,omitempty"`
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }
