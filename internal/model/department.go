/**
 * 模型:部门模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: 部门数据模型，包含用户与角色反向关联
 * @func: Department 结构体及相关方法
 */
package model

import (
	"time"
)

// Department 部门模型
// 部门只允许逻辑删除(active置0),且删除前要求用户与角色关联集合均为空
type Department struct {
	ID          uint             `json:"id" gorm:"primaryKey;autoIncrement"`                     // 部门唯一标识ID，主键自增
	Name        string           `json:"name" gorm:"index;not null;size:50" validate:"required"` // 部门名称，普通索引
	Description string           `json:"description" gorm:"size:255"`                            // 部门描述信息
	Active      DepartmentStatus `json:"active" gorm:"default:1;comment:部门状态:0-禁用,1-启用"`         // 激活标记，默认启用
	CreatedAt   time.Time        `json:"create_time"`                                            // 创建时间，自动管理
	UpdatedAt   time.Time        `json:"update_time"`                                            // 更新时间，自动管理

	// 关联关系
	Users []*User `json:"-" gorm:"many2many:user_departments;"` // 部门中的用户，多对多关系
	Roles []*Role `json:"-" gorm:"many2many:role_departments;"` // 部门关联的角色，多对多关系
}

// DepartmentStatus 部门状态枚举
type DepartmentStatus int

const (
	DepartmentStatusDisabled DepartmentStatus = 0 // 禁用状态(逻辑删除)
	DepartmentStatusEnabled  DepartmentStatus = 1 // 启用状态
)

// TableName 指定部门表名
func (Department) TableName() string {
	return "departments"
}

// IsActive 检查部门是否处于启用状态
func (d *Department) IsActive() bool {
	return d.Active == DepartmentStatusEnabled
}

// IsEmpty 检查部门是否没有任何用户或角色关联
func (d *Department) IsEmpty() bool {
	return len(d.Users) == 0 && len(d.Roles) == 0
}
