/*
 * 接口层:部门管理接口(管理员)
 * @author: sun977
 * @date: 2025.10.09
 * @description: 部门创建、删除与用户部门关联管理接口
 * @func:
 * 1.CreateDepartment/DeleteDepartment/EnableDepartment 部门生命周期
 * 2.AssignUserToDepartment/RemoveUserFromDepartment 用户部门关联
 * 3.GetUserDepartments/GetAllDepartments 部门查询
 */
package system

import (
	"net/http"

	"staffhub/internal/model"
	"staffhub/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// DepartmentHandler 部门管理处理器
type DepartmentHandler struct {
	departmentService *auth.DepartmentService
}

// NewDepartmentHandler 创建部门管理处理器实例
func NewDepartmentHandler(departmentService *auth.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// CreateDepartment 创建部门接口(管理员操作)
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	department, err := h.departmentService.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"department_id": department.ID}, "部门创建成功"))
}

// DeleteDepartment 删除部门接口(管理员操作)
// 部门非空时拒绝删除
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	var req model.DepartmentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.departmentService.DeleteDepartment(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "部门删除成功"))
}

// EnableDepartment 恢复部门接口(管理员操作)
func (h *DepartmentHandler) EnableDepartment(c *gin.Context) {
	var req model.DepartmentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.departmentService.EnableDepartment(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "部门恢复成功"))
}

// AssignUserToDepartment 为用户分配部门接口(管理员操作)
// 任何一个部门ID无效都会拒绝整个请求,响应data携带全部无效ID
func (h *DepartmentHandler) AssignUserToDepartment(c *gin.Context) {
	var req model.AssignUserToDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.departmentService.AssignUserToDepartment(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "部门分配成功"))
}

// RemoveUserFromDepartment 从部门移除用户接口(管理员操作)
func (h *DepartmentHandler) RemoveUserFromDepartment(c *gin.Context) {
	var req model.RemoveUserFromDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("400", "请求参数格式错误"))
		return
	}

	if err := h.departmentService.RemoveUserFromDepartment(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil, "部门移除成功"))
}

// GetUserDepartments 查询用户所属部门接口
func (h *DepartmentHandler) GetUserDepartments(c *gin.Context) {
	phone := c.Query("phonenum")
	if phone == "" {
		c.JSON(http.StatusOK, model.Fail("400", "手机号不能为空"))
		return
	}

	departments, err := h.departmentService.GetUserDepartments(c.Request.Context(), phone)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(departments, "查询成功"))
}

// GetAllDepartments 部门列表查询接口(管理员操作)
func (h *DepartmentHandler) GetAllDepartments(c *gin.Context) {
	token, adminPhone := callerIdentity(c)

	departments, err := h.departmentService.GetAllDepartments(c.Request.Context(), token, adminPhone)
	if err != nil {
		c.JSON(http.StatusOK, model.FailFromError(err))
		return
	}

	c.JSON(http.StatusOK, model.Success(departments, "查询成功"))
}
