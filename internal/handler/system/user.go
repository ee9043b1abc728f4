/*
 * 接口层:用户管理接口(管理员)
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户列表、登录权限与用户角色关联管理接口
 * @func:
 * 1.GetAllUsers 用户列表查询
 * 2.UpdateLoginPermission 修改用户登录权限
 * 3.AssignRoles 为用户分配角色(全量校验)
 * 4.RemoveRoles 为用户移除角色(宽容语义)
 */
package system

import (
	"net/http"

	"staffhub/internal/model"
	pkgauth "staffhub/internal/pkg/auth"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// UserManageHandler 用户管理处理器
type UserManageHandler struct {
	userService *auth.UserService
}

// NewUserManageHandler 创建用户管理处理器实例
func NewUserManageHandler(userService *auth.UserService) *UserManageHandler {
	return &UserManageHandler{
		userService: userService,
	}
}

// callerIdentity 提取操作者身份
// 令牌来自Authorization头或token查询参数,旧版兼容模式用admin_phonenum查询参数
func callerIdentity(c *gin.Context) (token, adminPhone string) {
	token = pkgauth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
	if token == "" {
		token = c.Query("token")
	}
	adminPhone = c.Query("admin_phonenum")
	return token, adminPhone
}

// GetAllUsers 用户列表查询接口(管理员操作)
func (h *UserManageHandler) GetAllUsers(c *gin.Context) {
	token, adminPhone := callerIdentity(c)

	users, err := h.userService.GetAllUsers(c.Request.Context(), token, adminPhone)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(users, "查询成功"))
}

// UpdateLoginPermission 修改用户登录权限接口(管理员操作)
// 管理员账号自身的登录权限不允许修改
func (h *UserManageHandler) UpdateLoginPermission(c *gin.Context) {
	var req model.UpdateLoginPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.userService.UpdateLoginPermission(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "登录权限修改成功"))
}

// AssignRoles 为用户分配角色接口(管理员操作)
// 任何一个角色ID无效都会拒绝整个请求,响应data携带全部无效ID
func (h *UserManageHandler) AssignRoles(c *gin.Context) {
	var req model.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.userService.AssignRoles(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "角色分配成功"))
}

// RemoveRoles 为用户移除角色接口(管理员操作)
func (h *UserManageHandler) RemoveRoles(c *gin.Context) {
	var req model.RemoveRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.userService.RemoveRoles(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "角色移除成功"))
}
