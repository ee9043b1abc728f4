/*
 * 服务层:存储接口定义
 * @author: sun977
 * @date: 2025.10.09
 * @description: 业务层依赖的存储抽象,由repository层的MySQL/Redis实现注入
 * @func: UserStore/RoleStore/PermissionStore/DepartmentStore/SnapshotCache/CodeSender 接口
 */
package auth

import (
	"context"
	"time"

	"staffhub/internal/model"
)

// UserStore 用户存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserWithDepartments(ctx context.Context, phone string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserFields(ctx context.Context, userID uint, fields map[string]interface{}) error
	ReplaceUserRoles(ctx context.Context, user *model.User, roles []*model.Role) error
	ReplaceUserDepartments(ctx context.Context, user *model.User, departments []*model.Department) error
	DeleteUser(ctx context.Context, user *model.User) error
}

// RoleStore 角色存储接口
type RoleStore interface {
	CreateRole(ctx context.Context, role *model.Role) error
	GetRoleByID(ctx context.Context, id uint) (*model.Role, error)
	GetRolesByIDs(ctx context.Context, ids []uint) ([]*model.Role, error)
	GetActiveRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
	UpdateRole(ctx context.Context, role *model.Role) error
	UpdateRoleFields(ctx context.Context, roleID uint, fields map[string]interface{}) error
	ReplaceRolePermissions(ctx context.Context, role *model.Role, permissions []*model.Permission) error
}

// PermissionStore 权限存储接口
type PermissionStore interface {
	CreatePermission(ctx context.Context, permission *model.Permission) error
	GetPermissionByID(ctx context.Context, id uint) (*model.Permission, error)
	GetPermissionsByIDs(ctx context.Context, ids []uint) ([]*model.Permission, error)
	GetActivePermissionsByIDs(ctx context.Context, ids []uint) ([]*model.Permission, error)
	GetActivePermissionByName(ctx context.Context, name string) (*model.Permission, error)
	ListPermissions(ctx context.Context) ([]*model.Permission, error)
	UpdatePermission(ctx context.Context, permission *model.Permission) error
	UpdatePermissionFields(ctx context.Context, permissionID uint, fields map[string]interface{}) error
}

// DepartmentStore 部门存储接口
type DepartmentStore interface {
	CreateDepartment(ctx context.Context, department *model.Department) error
	GetDepartmentByID(ctx context.Context, id uint) (*model.Department, error)
	GetDepartmentsByIDs(ctx context.Context, ids []uint) ([]*model.Department, error)
	GetActiveDepartmentByName(ctx context.Context, name string) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]*model.Department, error)
	UpdateDepartment(ctx context.Context, department *model.Department) error
	UpdateDepartmentFields(ctx context.Context, departmentID uint, fields map[string]interface{}) error
}

// SnapshotCache 用户快照与验证码缓存接口
// 缓存是纯加速层:任何读写失败都不应该阻断业务流程
type SnapshotCache interface {
	StoreSnapshot(ctx context.Context, userID uint, snapshot *model.UserSnapshot, expiration time.Duration) error
	GetSnapshot(ctx context.Context, userID uint) (*model.UserSnapshot, error)
	DeleteSnapshot(ctx context.Context, userID uint) error
	StoreVerifyCode(ctx context.Context, phone, code string, expiration time.Duration) error
	GetVerifyCode(ctx context.Context, phone string) (string, error)
	DeleteVerifyCode(ctx context.Context, phone string) error
}

// CodeSender 验证码发送接口
type CodeSender interface {
	SendVerifyCode(ctx context.Context, phone, code string) error
}
