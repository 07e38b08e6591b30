package model

import "time"

// 角色常量：平台仅三种角色，闭集
const (
	RoleInstitution  = "institution"  // 学校（维护学习者与事件）
	RoleOrganization = "organization" // 查询机构（检索与下载报告）
	RoleAdmin        = "admin"        // 平台管理员
)

// Account 账号表 — 对应 accounts
type Account struct {
	AccountID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"account_id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	FullName     string    `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Role         string    `gorm:"type:varchar(20);not null"                      json:"role"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Account) TableName() string { return "accounts" }
