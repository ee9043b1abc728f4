/**
 * 模型:角色模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: 角色数据模型，包含激活状态管理、权限关联和部门关联
 * @func: Role 结构体及相关方法
 */
package model

import (
	"time"
)

// Role 角色模型
// 角色名不加数据库唯一索引:被禁用的角色允许与新建的同名角色共存,
// "同名活跃角色唯一"的约束在业务层创建和启用时校验
type Role struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`                 // 角色唯一标识ID，主键自增
	Name        string     `json:"name" gorm:"index;not null;size:50" validate:"required"` // 角色名称，普通索引
	Description string     `json:"description" gorm:"size:255"`                        // 角色描述信息
	Active      RoleStatus `json:"active" gorm:"default:1;comment:角色状态:0-禁用,1-启用"`     // 激活标记，默认启用
	CreatedAt   time.Time  `json:"create_time"`                                        // 创建时间，自动管理
	UpdatedAt   time.Time  `json:"update_time"`                                        // 更新时间，自动管理

	// 关联关系
	Users       []*User       `json:"-" gorm:"many2many:user_roles;"`                 // 拥有此角色的用户，多对多关系
	Permissions []*Permission `json:"permissions" gorm:"many2many:role_permissions;"` // 角色权限，多对多关系
	Departments []*Department `json:"departments" gorm:"many2many:role_departments;"` // 角色部门，多对多关系
}

// RoleStatus 角色状态枚举
type RoleStatus int

const (
	RoleStatusDisabled RoleStatus = 0 // 禁用状态(逻辑删除)
	RoleStatusEnabled  RoleStatus = 1 // 启用状态
)

// RolePermission 角色权限关联表
type RolePermission struct {
	RoleID       uint      `json:"role_id" gorm:"primaryKey"`       // 角色ID，联合主键
	PermissionID uint      `json:"permission_id" gorm:"primaryKey"` // 权限ID，联合主键
	CreatedAt    time.Time `json:"created_at"`                      // 关联创建时间
}

// RoleDepartment 角色部门关联表
type RoleDepartment struct {
	RoleID       uint      `json:"role_id" gorm:"primaryKey"`       // 角色ID，联合主键
	DepartmentID uint      `json:"department_id" gorm:"primaryKey"` // 部门ID，联合主键
	CreatedAt    time.Time `json:"created_at"`                      // 关联创建时间
}

// TableName 指定角色表名
func (Role) TableName() string {
	return "roles"
}

// TableName 指定角色权限关联表名
func (RolePermission) TableName() string {
	return "role_permissions"
}

// TableName 指定角色部门关联表名
func (RoleDepartment) TableName() string {
	return "role_departments"
}

// IsActive 检查角色是否处于启用状态
func (r *Role) IsActive() bool {
	return r.Active == RoleStatusEnabled
}

// HasPermission 检查角色是否拥有指定名称的权限
func (r *Role) HasPermission(permissionName string) bool {
	for _, permission := range r.Permissions {
		if permission.Name == permissionName {
			return true
		}
	}
	return false
}
