package dto

// ── 查询机构门户 DTO ──

// OrgSearchRequest 学习者检索请求
type OrgSearchRequest struct {
	EdutrustID string `form:"edutrust_id" binding:"required,max=30"`
}

// OrgSearchResponse 检索结果：学习者概要 + 机构视图时间线
type OrgSearchResponse struct {
	Learner LearnerResponse         `json:"learner"`
	Events  []TimelineEventResponse `json:"events"`
	Quota   *SearchQuotaResponse    `json:"quota,omitempty"`
}

// SearchQuotaResponse 月度检索配额使用情况
type SearchQuotaResponse struct {
	Used  int64 `json:"used"`
	Limit int   `json:"limit"`
}

// SearchLogResponse 最近检索记录
type SearchLogResponse struct {
	EdutrustID  string `json:"edutrust_id"`
	LearnerName string `json:"learner_name,omitempty"`
	SearchedAt  string `json:"searched_at"`
}
