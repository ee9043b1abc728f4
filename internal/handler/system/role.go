/*
 * 接口层:角色管理接口(管理员)
 * @author: sun977
 * @date: 2025.10.09
 * @description: 角色创建、状态变更与角色权限关联管理接口
 * @func:
 * 1.CreateRole/DisableRole/EnableRole 角色生命周期
 * 2.AssignPermissions/RemovePermissions 角色权限关联
 * 3.GetRolePermissions/GetAllRoles 角色查询
 */
package system

import (
	"net/http"
	"strconv"

	"staffhub/internal/model"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// RoleHandler 角色管理处理器
type RoleHandler struct {
	roleService *auth.RoleService
}

// NewRoleHandler 创建角色管理处理器实例
func NewRoleHandler(roleService *auth.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// CreateRole 创建角色接口(管理员操作)
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req model.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"role_id": role.ID}, "角色创建成功"))
}

// DisableRole 禁用角色接口(管理员操作)
func (h *RoleHandler) DisableRole(c *gin.Context) {
	var req model.RoleActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.roleService.DisableRole(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "角色禁用成功"))
}

// EnableRole 启用角色接口(管理员操作)
func (h *RoleHandler) EnableRole(c *gin.Context) {
	var req model.RoleActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.roleService.EnableRole(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "角色启用成功"))
}

// AssignPermissions 为角色分配权限接口(管理员操作)
// 任何一个权限ID无效都会拒绝整个请求,响应data携带全部无效ID
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	var req model.AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.roleService.AssignPermissions(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "权限分配成功"))
}

// RemovePermissions 为角色移除权限接口(管理员操作)
func (h *RoleHandler) RemovePermissions(c *gin.Context) {
	var req model.RemovePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.roleService.RemovePermissions(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "权限移除成功"))
}

// GetRolePermissions 查询角色持有的启用权限接口
func (h *RoleHandler) GetRolePermissions(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "无效的角色ID"))
		return
	}

	permissions, err := h.roleService.GetRolePermissions(c.Request.Context(), uint(roleID))
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(permissions, "查询成功"))
}

// GetAllRoles 角色列表查询接口(管理员操作)
func (h *RoleHandler) GetAllRoles(c *gin.Context) {
	token, adminPhone := callerIdentity(c)

	roles, err := h.roleService.GetAllRoles(c.Request.Context(), token, adminPhone)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(roles, "查询成功"))
}
