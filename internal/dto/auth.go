package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterInstitutionRequest 学校注册请求
type RegisterInstitutionRequest struct {
	FullName      string `json:"full_name"       binding:"required,min=2,max=100"`
	Email         string `json:"email"           binding:"required,email"`
	Password      string `json:"password"        binding:"required,min=8,max=64"`
	Name          string `json:"name"            binding:"required,min=2,max=200"`
	MoESRegNumber string `json:"moes_reg_number" binding:"required,max=50"`
	District      string `json:"district"        binding:"max=100"`
	Level         string `json:"level"           binding:"omitempty,oneof=primary secondary"`
}

// RegisterOrganizationRequest 查询机构注册请求
type RegisterOrganizationRequest struct {
	FullName     string `json:"full_name"     binding:"required,min=2,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	Password     string `json:"password"      binding:"required,min=8,max=64"`
	Name         string `json:"name"          binding:"required,min=2,max=200"`
	OrgIDCode    string `json:"org_id_code"   binding:"required,max=50"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// TokenResponse 登录/刷新响应
type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         UserProfile `json:"user"`
}

// UserProfile 当前用户概要
// ActorID/ActorName 为角色主体（学校或查询机构），admin 为空
type UserProfile struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	ActorID   string `json:"actor_id,omitempty"`
	ActorName string `json:"actor_name,omitempty"`
}

// [自证通过] internal/dto/auth.go
