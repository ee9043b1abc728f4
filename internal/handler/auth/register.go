/*
 * 接口层:注册接口
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户注册接口,注册成功直接返回登录令牌
 * @func: Register 用户注册(验证码校验)
 */
package auth

import (
	"errors"
	"net/http"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// RegisterHandler 注册接口处理器
type RegisterHandler struct {
	userService *auth.UserService
}

// NewRegisterHandler 创建注册处理器实例
func NewRegisterHandler(userService *auth.UserService) *RegisterHandler {
	return &RegisterHandler{
		userService: userService,
	}
}

// Register 用户注册接口
// 手机号或用户名已被占用时返回独立的重复注册状态码
func (h *RegisterHandler) Register(c *gin.Context) {
	clientIP := c.ClientIP()
	requestID := c.GetHeader("X-Request-ID")

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		logger.LogError(err, requestID, 0, clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "register",
			"phone":     req.Phone,
			"timestamp": logger.NowFormatted(),
		})
		// 重复注册使用独立状态码,前端据此提示直接登录
		if errors.Is(err, model.ErrUserAlreadyExists) {
			c.JSON(http.StatusOK, model.Fail("456", err.Error()))
			return
		}
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	logger.LogBusinessOperation("register", resp.User.ID, resp.User.Username, clientIP, requestID, "success", "注册成功", map[string]interface{}{
		"phone":     req.Phone,
		"timestamp": logger.NowFormatted(),
	})
	c.JSON(http.StatusOK, model.Success(resp, "注册成功"))
}
