package dto

// ── 时间线 / 验证模块 DTO ──

// TimelineEventResponse 时间线事件（按观看场景已脱敏）
type TimelineEventResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // 2006-01-02
	Kind        string `json:"kind"`
	Institution string `json:"institution"`
	Description string `json:"description"`
	Result      string `json:"result,omitempty"`
}

// TimelineResponse 学习者时间线响应
type TimelineResponse struct {
	EdutrustID  string                  `json:"edutrust_id"`
	LearnerName string                  `json:"learner_name"`
	Audience    string                  `json:"audience"`
	Events      []TimelineEventResponse `json:"events"`
}

// 验证状态：Unverifiable 必须作为显式状态透出，绝不渲染成已验证
const (
	VerifyStatusVerified     = "verified"
	VerifyStatusUnverifiable = "unverifiable"
)

// VerifyResponse 公开验证响应
// 仅 verified 时携带（公开脱敏后的）时间线
type VerifyResponse struct {
	Status      string                  `json:"status"` // verified | unverifiable
	Fingerprint string                  `json:"fingerprint"`
	EdutrustID  string                  `json:"edutrust_id,omitempty"`
	LearnerName string                  `json:"learner_name,omitempty"`
	Events      []TimelineEventResponse `json:"events,omitempty"`
}

// ReportMetaResponse 报告元数据（随 PDF 以响应头透出，亦可单独查询）
type ReportMetaResponse struct {
	Fingerprint     string `json:"fingerprint"`
	VerificationURL string `json:"verification_url"`
	IssuedAt        string `json:"issued_at"`
}
