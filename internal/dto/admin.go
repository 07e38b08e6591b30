package dto

// ── 平台管理 DTO ──

// AdminListRequest 平台管理通用分页参数
type AdminListRequest struct {
	Page     int `form:"page,default=1"       binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// InstitutionResponse 学校概要响应
type InstitutionResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MoESRegNumber string `json:"moes_reg_number"`
	District      string `json:"district,omitempty"`
	Level         string `json:"level,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// OrganizationResponse 查询机构概要响应
type OrganizationResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OrgIDCode    string `json:"org_id_code"`
	ContactEmail string `json:"contact_email,omitempty"`
	Plan         string `json:"plan,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// PlatformStatsResponse 平台总览统计
type PlatformStatsResponse struct {
	TotalInstitutions  int64 `json:"total_institutions"`
	TotalOrganizations int64 `json:"total_organizations"`
	TotalLearners      int64 `json:"total_learners"`
	ActiveLearners     int64 `json:"active_learners"`
	CompletedLearners  int64 `json:"completed_learners"`
	TotalEvents        int64 `json:"total_events"`
	CompletionRate     int   `json:"completion_rate"` // 百分比取整
}
