/**
 * 模型:请求模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: API请求数据模型，包含各种业务操作的请求结构体
 * @func: 各种Request结构体定义
 */
package model

// LoginRequest 密码登录请求结构
type LoginRequest struct {
	Account  string `json:"account" validate:"required"`  // 账号(手机号或用户名)，必填
	Password string `json:"password" validate:"required"` // 密码，必填
	IsAdmin  *bool  `json:"is_admin"`                     // 是否要求以管理员身份登录，可选
}

// VerifyLoginRequest 验证码登录请求结构
type VerifyLoginRequest struct {
	Phone      string `json:"phonenum" validate:"required"`    // 手机号码，必填
	VerifyCode string `json:"verify_code" validate:"required"` // 短信验证码，必填
}

// SendCodeRequest 发送验证码请求结构
type SendCodeRequest struct {
	Phone string `json:"phonenum" validate:"required"` // 手机号码，必填
}

// RegisterRequest 用户注册请求结构
type RegisterRequest struct {
	Phone         string `json:"phonenum" validate:"required"`       // 手机号码，必填
	Username      string `json:"uname" validate:"required,min=2"`    // 用户名，必填
	Password      string `json:"password" validate:"required,min=6"` // 密码，必填，最少6字符
	PasswordAgain string `json:"password_again"`                     // 重复密码，必须与密码一致
	VerifyCode    string `json:"verify_code" validate:"required"`    // 短信验证码，必填
}

// UpdatePasswordRequest 修改密码请求结构(验证码校验通过后调用)
type UpdatePasswordRequest struct {
	Phone       string `json:"phonenum" validate:"required"`           // 手机号码，必填
	NewPassword string `json:"new_password" validate:"required,min=6"` // 新密码，必填
}

// UpdateLoginPermissionRequest 修改登录权限请求结构
type UpdateLoginPermissionRequest struct {
	Token           string          `json:"token" validate:"required"`    // 操作者令牌，必填
	TargetPhone     string          `json:"phonenum" validate:"required"` // 目标用户手机号，必填
	LoginPermission LoginPermission `json:"login_permission"`             // 目标登录权限值
}

// AssignRolesRequest 为用户分配角色请求结构
// AdminPhone 为旧版兼容字段:携带操作者手机号直接定位调用者,与token二选一
type AssignRolesRequest struct {
	AdminPhone  string `json:"admin_phonenum"`               // 操作者手机号(旧版兼容模式)
	Token       string `json:"token"`                        // 操作者令牌
	TargetPhone string `json:"phonenum" validate:"required"` // 目标用户手机号，必填
	RoleIDs     []uint `json:"role_ids" validate:"required"` // 角色ID列表，必填
}

// RemoveRolesRequest 为用户移除角色请求结构
type RemoveRolesRequest struct {
	AdminPhone  string `json:"admin_phonenum"`               // 操作者手机号(旧版兼容模式)
	Token       string `json:"token"`                        // 操作者令牌
	TargetPhone string `json:"phonenum" validate:"required"` // 目标用户手机号，必填
	RoleIDs     []uint `json:"role_ids" validate:"required"` // 角色ID列表，必填
}

// CreateRoleRequest 创建角色请求结构
type CreateRoleRequest struct {
	AdminPhone    string `json:"admin_phonenum"`           // 操作者手机号(旧版兼容模式)
	Token         string `json:"token"`                    // 操作者令牌
	Name          string `json:"name" validate:"required"` // 角色名称，必填
	Description   string `json:"description"`              // 角色描述，可选
	PermissionIDs []uint `json:"permission_ids"`           // 初始权限ID列表，可选
}

// RoleActionRequest 针对单个角色的操作请求(禁用/启用)
type RoleActionRequest struct {
	AdminPhone string `json:"admin_phonenum"`              // 操作者手机号(旧版兼容模式)
	Token      string `json:"token"`                       // 操作者令牌
	RoleID     uint   `json:"role_id" validate:"required"` // 角色ID，必填
}

// AssignPermissionsRequest 为角色分配权限请求结构
type AssignPermissionsRequest struct {
	AdminPhone    string `json:"admin_phonenum"`                     // 操作者手机号(旧版兼容模式)
	Token         string `json:"token"`                              // 操作者令牌
	RoleID        uint   `json:"role_id" validate:"required"`        // 角色ID，必填
	PermissionIDs []uint `json:"permission_ids" validate:"required"` // 权限ID列表，必填
}

// RemovePermissionsRequest 为角色移除权限请求结构
type RemovePermissionsRequest struct {
	AdminPhone    string `json:"admin_phonenum"`                     // 操作者手机号(旧版兼容模式)
	Token         string `json:"token"`                              // 操作者令牌
	RoleID        uint   `json:"role_id" validate:"required"`        // 角色ID，必填
	PermissionIDs []uint `json:"permission_ids" validate:"required"` // 权限ID列表，必填
}

// CreatePermissionRequest 创建权限请求结构
type CreatePermissionRequest struct {
	AdminPhone  string `json:"admin_phonenum"`           // 操作者手机号(旧版兼容模式)
	Token       string `json:"token"`                    // 操作者令牌
	Name        string `json:"name" validate:"required"` // 权限名称，必填
	Description string `json:"description"`              // 权限描述，可选
}

// PermissionActionRequest 针对单个权限的操作请求(禁用/启用)
type PermissionActionRequest struct {
	AdminPhone   string `json:"admin_phonenum"`                    // 操作者手机号(旧版兼容模式)
	Token        string `json:"token"`                             // 操作者令牌
	PermissionID uint   `json:"permission_id" validate:"required"` // 权限ID，必填
}

// CreateDepartmentRequest 创建部门请求结构
type CreateDepartmentRequest struct {
	AdminPhone  string `json:"admin_phonenum"`           // 操作者手机号(旧版兼容模式)
	Token       string `json:"token"`                    // 操作者令牌
	Name        string `json:"name" validate:"required"` // 部门名称，必填
	Description string `json:"description"`              // 部门描述，可选
}

// DepartmentActionRequest 针对单个部门的操作请求(删除/启用)
type DepartmentActionRequest struct {
	AdminPhone   string `json:"admin_phonenum"`                    // 操作者手机号(旧版兼容模式)
	Token        string `json:"token"`                             // 操作者令牌
	DepartmentID uint   `json:"department_id" validate:"required"` // 部门ID，必填
}

// AssignUserToDepartmentRequest 为用户分配部门请求结构
type AssignUserToDepartmentRequest struct {
	AdminPhone    string `json:"admin_phonenum"`                     // 操作者手机号(旧版兼容模式)
	Token         string `json:"token"`                              // 操作者令牌
	TargetPhone   string `json:"phonenum" validate:"required"`       // 目标用户手机号，必填
	DepartmentIDs []uint `json:"department_ids" validate:"required"` // 部门ID列表，必填
	PrimaryDeptID *uint  `json:"primary_department_id"`              // 主部门ID，可选
}

// RemoveUserFromDepartmentRequest 从部门移除用户请求结构
type RemoveUserFromDepartmentRequest struct {
	AdminPhone   string `json:"admin_phonenum"`                    // 操作者手机号(旧版兼容模式)
	Token        string `json:"token"`                             // 操作者令牌
	DepartmentID uint   `json:"department_id" validate:"required"` // 部门ID，必填
	TargetPhone  string `json:"phonenum" validate:"required"`      // 目标用户手机号，必填
}
