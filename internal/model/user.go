/**
 * 模型:用户模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户数据模型，包含登录权限、角色关联和部门关联
 * @func: User 结构体及相关方法
 */
package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID              uint            `json:"uid" gorm:"primaryKey;autoIncrement"`                                         // 用户唯一标识ID，主键自增
	Username        string          `json:"uname" gorm:"uniqueIndex;not null;size:50" validate:"required,min=2,max=50"`  // 用户名，唯一索引
	Phone           string          `json:"phonenum" gorm:"uniqueIndex;not null;size:20" validate:"required"`            // 手机号码，唯一索引
	Password        string          `json:"-" gorm:"not null;size:255"`                                                  // 密码哈希，不在JSON中返回
	LoginPermission LoginPermission `json:"login_permission" gorm:"default:1;comment:登录权限:0-禁止登录,1-允许登录"`                // 登录权限，默认允许
	AdminPermission int             `json:"admin_permission" gorm:"default:0;comment:管理员标记(历史字段,权限判定以角色为准)"`             // 历史字段，仅展示用
	PrimaryDeptID   *uint           `json:"primary_department_id" gorm:"comment:主部门ID"`                                  // 主部门ID，可为空
	CreatedAt       time.Time       `json:"create_time"`                                                                 // 创建时间，自动管理
	UpdatedAt       time.Time       `json:"update_time"`                                                                 // 更新时间，自动管理

	// 关联关系
	Roles       []*Role       `json:"roles" gorm:"many2many:user_roles;"`             // 用户角色，多对多关系
	Departments []*Department `json:"departments" gorm:"many2many:user_departments;"` // 用户部门，多对多关系
	PrimaryDept *Department   `json:"primary_department" gorm:"foreignKey:PrimaryDeptID"`
}

// LoginPermission 登录权限枚举
type LoginPermission int

const (
	LoginForbidden LoginPermission = 0 // 禁止登录
	LoginAllowed   LoginPermission = 1 // 允许登录
)

// UserRole 用户角色关联表
type UserRole struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"` // 用户ID，联合主键
	RoleID    uint      `json:"role_id" gorm:"primaryKey"` // 角色ID，联合主键
	CreatedAt time.Time `json:"created_at"`                // 关联创建时间
}

// UserDepartment 用户部门关联表
type UserDepartment struct {
	UserID       uint      `json:"user_id" gorm:"primaryKey"`       // 用户ID，联合主键
	DepartmentID uint      `json:"department_id" gorm:"primaryKey"` // 部门ID，联合主键
	CreatedAt    time.Time `json:"created_at"`                      // 关联创建时间
}

// TableName 指定用户表名
func (User) TableName() string {
	return "users"
}

// TableName 指定用户角色关联表名
func (UserRole) TableName() string {
	return "user_roles"
}

// TableName 指定用户部门关联表名
func (UserDepartment) TableName() string {
	return "user_departments"
}

// CanLogin 检查用户是否允许登录
func (u *User) CanLogin() bool {
	return u.LoginPermission == LoginAllowed
}

// HasRole 检查用户是否拥有指定名称的角色
func (u *User) HasRole(roleName string) bool {
	for _, role := range u.Roles {
		if role.Name == roleName {
			return true
		}
	}
	return false
}

// RoleIDs 返回用户的角色ID集合
func (u *User) RoleIDs() []uint {
	ids := make([]uint, 0, len(u.Roles))
	for _, role := range u.Roles {
		ids = append(ids, role.ID)
	}
	return ids
}
