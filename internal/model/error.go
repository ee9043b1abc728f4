/**
 * 模型:错误定义
 * @author: sun977
 * @date: 2025.10.09
 * @description: 业务错误分类与错误常量定义
 * @func: ErrorKind 枚举、Error 结构体和各类预定义错误
 */
package model

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类
// 所有业务错误都归入下列类别之一,在接口边界统一转换为 {code,data,msg} 响应
type ErrorKind int

const (
	KindSystem            ErrorKind = iota // 底层存储或缓存不可用(唯一允许调用方重试的类别)
	KindInvalidToken                       // 令牌无效或过期
	KindInvalidCredential                  // 账号或密码错误(不区分用户不存在与密码错误)
	KindAccountDisabled                    // 账号被禁止登录
	KindNotFound                           // 实体不存在或已被禁用
	KindForbidden                          // 权限校验失败
	KindConflict                           // 唯一性或引用完整性冲突
	KindInvalidState                       // 无效的状态迁移(如重复启用)
)

// Error 携带分类的业务错误
type Error struct {
	Kind    ErrorKind `json:"-"`       // 错误分类
	Message string    `json:"message"` // 外部可见的错误消息
	IDs     []uint    `json:"ids,omitempty"` // 冲突类错误携带的未解析ID列表
}

// Error 实现error接口
func (e *Error) Error() string {
	if len(e.IDs) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.IDs)
	}
	return e.Message
}

// NewError 创建业务错误
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewConflictIDs 创建携带未解析ID列表的冲突错误
// 全量校验失败时调用方需要知道所有无效ID,而不只是第一个
func NewConflictIDs(message string, ids []uint) *Error {
	return &Error{Kind: KindConflict, Message: message, IDs: ids}
}

// KindOf 提取错误分类,无法识别的错误一律视为系统错误
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindSystem
}

// 认证错误
var (
	ErrInvalidToken      = NewError(KindInvalidToken, "无效的token")
	ErrInvalidCredential = NewError(KindInvalidCredential, "账号或密码错误")
	ErrAccountDisabled   = NewError(KindAccountDisabled, "该账号已被禁止登录")
	ErrInvalidVerifyCode = NewError(KindInvalidCredential, "验证码错误或已过期")
)

// 实体不存在错误
var (
	ErrUserNotFound       = NewError(KindNotFound, "用户不存在")
	ErrRoleNotFound       = NewError(KindNotFound, "角色不存在")
	ErrRoleDisabled       = NewError(KindNotFound, "角色已被删除或禁用")
	ErrPermissionNotFound = NewError(KindNotFound, "权限不存在")
	ErrDepartmentNotFound = NewError(KindNotFound, "部门不存在")
	ErrDepartmentDisabled = NewError(KindNotFound, "部门已被删除或禁用")
)

// 权限错误
var (
	ErrNoRoles          = NewError(KindForbidden, "用户没有任何角色")
	ErrNoAdminPrivilege = NewError(KindForbidden, "无管理员权限")
)

// 冲突错误
var (
	ErrUserAlreadyExists     = NewError(KindConflict, "用户已存在")
	ErrRoleNameExists        = NewError(KindConflict, "已存在同名的活跃角色")
	ErrPermissionNameExists  = NewError(KindConflict, "已存在同名的活跃权限")
	ErrDepartmentNameExists  = NewError(KindConflict, "已存在同名的活跃部门")
	ErrDepartmentNotEmpty    = NewError(KindConflict, "部门中还存在用户或角色，无法删除")
	ErrNoRolesToRemove       = NewError(KindConflict, "没有找到任何要移除的有效角色")
	ErrNoPermissionsToRemove = NewError(KindConflict, "没有找到任何要移除的有效权限")
	ErrUserNotInDepartment   = NewError(KindConflict, "该用户不在部门中")
	ErrAdminLoginPermission  = NewError(KindConflict, "不能修改管理员的登录权限")
)

// 状态迁移错误
var (
	ErrAlreadyEnabled  = NewError(KindInvalidState, "已经处于启用状态")
	ErrAlreadyDisabled = NewError(KindInvalidState, "已经处于禁用状态")
)
