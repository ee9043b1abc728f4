/*
 * 接口层:权限管理接口(管理员)
 * @author: sun977
 * @date: 2025.10.09
 * @description: 权限创建、状态变更与查询接口
 * @func:
 * 1.CreatePermission/DisablePermission/EnablePermission 权限生命周期
 * 2.GetAllPermissions 权限列表查询
 */
package system

import (
	"net/http"

	"staffhub/internal/model"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// PermissionHandler 权限管理处理器
type PermissionHandler struct {
	permissionService *auth.PermissionService
}

// NewPermissionHandler 创建权限管理处理器实例
func NewPermissionHandler(permissionService *auth.PermissionService) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
	}
}

// CreatePermission 创建权限接口(管理员操作)
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req model.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	permission, err := h.permissionService.CreatePermission(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"permission_id": permission.ID}, "权限创建成功"))
}

// DisablePermission 禁用权限接口(管理员操作)
func (h *PermissionHandler) DisablePermission(c *gin.Context) {
	var req model.PermissionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.permissionService.DisablePermission(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "权限禁用成功"))
}

// EnablePermission 启用权限接口(管理员操作)
func (h *PermissionHandler) EnablePermission(c *gin.Context) {
	var req model.PermissionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.permissionService.EnablePermission(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "权限启用成功"))
}

// GetAllPermissions 权限列表查询接口(管理员操作)
func (h *PermissionHandler) GetAllPermissions(c *gin.Context) {
	token, adminPhone := callerIdentity(c)

	permissions, err := h.permissionService.GetAllPermissions(c.Request.Context(), token, adminPhone)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(permissions, "查询成功"))
}
