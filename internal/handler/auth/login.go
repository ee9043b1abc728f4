/*
 * 接口层:登录接口
 * @author: sun977
 * @date: 2025.10.09
 * @description: 密码登录、验证码登录与验证码发送接口
 * @func:
 * 1.Login 密码登录(支持管理员模式)
 * 2.LoginWithCode 验证码登录
 * 3.SendVerifyCode 发送短信验证码
 */
package auth

import (
	"net/http"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// LoginHandler 登录接口处理器
type LoginHandler struct {
	userService *auth.UserService
}

// NewLoginHandler 创建登录处理器实例
func NewLoginHandler(userService *auth.UserService) *LoginHandler {
	return &LoginHandler{
		userService: userService,
	}
}

// Login 密码登录接口
// 账号字段先按手机号查找,找不到再按用户名查找
func (h *LoginHandler) Login(c *gin.Context) {
	clientIP := c.ClientIP()
	requestID := c.GetHeader("X-Request-ID")

	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}
	if req.Account == "" || req.Password == "" {
		c.JSON(http.StatusOK, model.Fail("400", "账号和密码不能为空"))
		return
	}

	resp, err := h.userService.LoginWithPassword(c.Request.Context(), &req)
	if err != nil {
		logger.LogError(err, requestID, 0, clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "login",
			"account":   req.Account,
			"timestamp": logger.NowFormatted(),
		})
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	logger.LogBusinessOperation("login", resp.User.ID, resp.User.Username, clientIP, requestID, "success", "登录成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})
	c.JSON(http.StatusOK, model.Success(resp, "登录成功"))
}

// LoginWithCode 验证码登录接口
// 验证码一次性消费,成功与否都会作废
func (h *LoginHandler) LoginWithCode(c *gin.Context) {
	clientIP := c.ClientIP()
	requestID := c.GetHeader("X-Request-ID")

	var req model.VerifyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}
	if req.Phone == "" || req.VerifyCode == "" {
		c.JSON(http.StatusOK, model.Fail("400", "手机号和验证码不能为空"))
		return
	}

	resp, err := h.userService.LoginWithCode(c.Request.Context(), &req)
	if err != nil {
		logger.LogError(err, requestID, 0, clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "login_with_code",
			"phone":     req.Phone,
			"timestamp": logger.NowFormatted(),
		})
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	logger.LogBusinessOperation("login_with_code", resp.User.ID, resp.User.Username, clientIP, requestID, "success", "验证码登录成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})
	c.JSON(http.StatusOK, model.Success(resp, "登录成功"))
}

// SendVerifyCode 发送短信验证码接口
func (h *LoginHandler) SendVerifyCode(c *gin.Context) {
	clientIP := c.ClientIP()
	requestID := c.GetHeader("X-Request-ID")

	var req model.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}
	if req.Phone == "" {
		c.JSON(http.StatusOK, model.Fail("400", "手机号不能为空"))
		return
	}

	if err := h.userService.SendVerifyCode(c.Request.Context(), req.Phone); err != nil {
		logger.LogError(err, requestID, 0, clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "send_verify_code",
			"phone":     req.Phone,
			"timestamp": logger.NowFormatted(),
		})
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "验证码已发送"))
}
