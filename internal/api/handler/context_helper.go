package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mugasir/edu-trust-ledger/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetActorID 从 Gin 上下文中安全提取 actor_id（学校/查询机构主体 ID）。
// admin 无主体，取到空串视为未认证之外的合法状态，由调用方决定是否拒绝。
func MustGetActorID(c *gin.Context) (string, bool) {
	v, exists := c.Get("actor_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Forbidden(c, 10003, "当前账号未绑定主体")
		return "", false
	}
	return s, true
}

// tokenMeta 提取当前 access token 的 JTI 与过期时间（登出用）
func tokenMeta(c *gin.Context) (jti string, expiresAt time.Time) {
	jti = c.GetString("token_jti")
	if v, exists := c.Get("token_expires_at"); exists {
		if t, ok := v.(time.Time); ok {
			expiresAt = t
		}
	}
	return jti, expiresAt
}
