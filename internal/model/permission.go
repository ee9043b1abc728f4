/**
 * 模型:权限模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: 权限数据模型，扁平命名授权项，含激活状态管理
 * @func: Permission 结构体及相关方法
 */
package model

import (
	"time"
)

// Permission 权限模型
// 与角色一致,同名活跃权限唯一的约束在业务层校验
type Permission struct {
	ID          uint             `json:"id" gorm:"primaryKey;autoIncrement"`                      // 权限唯一标识ID，主键自增
	Name        string           `json:"name" gorm:"index;not null;size:100" validate:"required"` // 权限名称，普通索引
	Description string           `json:"description" gorm:"size:255;comment:权限描述信息"`              // 权限描述信息
	Active      PermissionStatus `json:"active" gorm:"default:1;comment:权限状态:0-禁用,1-启用"`          // 激活标记，默认启用
	CreatedAt   time.Time        `json:"create_time"`                                             // 创建时间，自动管理
	UpdatedAt   time.Time        `json:"update_time"`                                             // 更新时间，自动管理

	// 关联关系
	Roles []*Role `json:"-" gorm:"many2many:role_permissions;"` // 拥有此权限的角色，多对多关系
}

// PermissionStatus 权限状态枚举
type PermissionStatus int

const (
	PermissionStatusDisabled PermissionStatus = 0 // 禁用状态(逻辑删除)
	PermissionStatusEnabled  PermissionStatus = 1 // 启用状态
)

// TableName 指定权限表名
func (Permission) TableName() string {
	return "permissions"
}

// IsActive 检查权限是否处于启用状态
func (p *Permission) IsActive() bool {
	return p.Active == PermissionStatusEnabled
}
