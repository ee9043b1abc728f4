/*
 * 接口层:用户自助接口
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户信息查询、密码修改与账号注销接口
 * @func:
 * 1.GetUserInfo 根据令牌查询用户信息(缓存优先)
 * 2.GetUserRolePermission 查询用户角色权限聚合视图
 * 3.UpdatePassword 修改密码
 * 4.DeleteUser 注销账号(管理员账号拒绝注销)
 */
package auth

import (
	"net/http"

	"staffhub/internal/model"
	pkgauth "staffhub/internal/pkg/auth"
	"staffhub/internal/pkg/logger"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户自助接口处理器
type UserHandler struct {
	userService *auth.UserService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userService *auth.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// tokenFromRequest 提取访问令牌
// 优先取Authorization头的Bearer令牌,其次取token查询参数
func tokenFromRequest(c *gin.Context) string {
	if token := pkgauth.ExtractTokenFromHeader(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return c.Query("token")
}

// GetUserInfo 查询当前用户信息接口
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	token := tokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusOK, model.Fail("401", "缺少访问令牌"))
		return
	}

	info, err := h.userService.GetUserInfoByToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(info, "查询成功"))
}

// GetUserRolePermission 查询当前用户角色权限聚合视图接口
// 只返回启用角色及其启用权限
func (h *UserHandler) GetUserRolePermission(c *gin.Context) {
	token := tokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusOK, model.Fail("401", "缺少访问令牌"))
		return
	}

	view, err := h.userService.GetUserRolePermission(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(view, "查询成功"))
}

// UpdatePassword 修改密码接口
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	clientIP := c.ClientIP()
	requestID := c.GetHeader("X-Request-ID")

	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), &req); err != nil {
		logger.LogError(err, requestID, 0, clientIP, c.Request.URL.Path, "POST", map[string]interface{}{
			"operation": "update_password",
			"phone":     req.Phone,
			"timestamp": logger.NowFormatted(),
		})
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "密码修改成功"))
}

// DeleteUser 注销账号接口
// 持有管理员角色的账号拒绝注销,返回deleted=false
func (h *UserHandler) DeleteUser(c *gin.Context) {
	token := tokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusOK, model.Fail("401", "缺少访问令牌"))
		return
	}

	deleted, err := h.userService.DeleteUser(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, model.Success(gin.H{"deleted": false}, "管理员账号不允许注销"))
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"deleted": true}, "账号注销成功"))
}
