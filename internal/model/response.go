/**
 * 模型:响应模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: API响应数据模型，统一的 {code,data,msg} 返回结构
 * @func: Result 及各种业务响应结构体定义
 */
package model

import "errors"

// Result 通用API响应结构
// code为"200"表示成功,其余值均为带可读消息的类型化失败
type Result struct {
	Code string      `json:"code"`           // 响应状态码
	Data interface{} `json:"data,omitempty"` // 响应数据，可选
	Msg  string      `json:"msg"`            // 响应消息
}

// Success 构建成功响应
func Success(data interface{}, msg string) *Result {
	return &Result{Code: "200", Data: data, Msg: msg}
}

// Fail 构建失败响应
func Fail(code, msg string) *Result {
	return &Result{Code: code, Msg: msg}
}

// CodeForKind 错误分类到响应状态码的映射
func CodeForKind(kind ErrorKind) string {
	switch kind {
	case KindInvalidToken:
		return "401"
	case KindInvalidCredential, KindAccountDisabled:
		return "123"
	case KindNotFound:
		return "404"
	case KindForbidden:
		return "403"
	case KindConflict:
		return "409"
	case KindInvalidState:
		return "400"
	default:
		return "500"
	}
}

// FailFromError 从业务错误构建失败响应
// 冲突类错误会把未解析的ID列表放入data
func FailFromError(err error) *Result {
	result := Fail(CodeForKind(KindOf(err)), err.Error())
	var e *Error
	if errors.As(err, &e) && len(e.IDs) > 0 {
		result.Data = e.IDs
	}
	return result
}

// LoginResponse 登录响应结构
type LoginResponse struct {
	Token string `json:"token"` // 访问令牌
	User  *User  `json:"user"`  // 用户信息
}

// RegisterResponse 注册响应结构
type RegisterResponse struct {
	Token string `json:"token"` // 访问令牌
	User  *User  `json:"user"`  // 用户信息(密码已清空)
}

// UserInfo 用户信息响应结构
type UserInfo struct {
	UID             uint            `json:"uid"`              // 用户ID
	Username        string          `json:"uname"`            // 用户名
	Phone           string          `json:"phonenum"`         // 手机号码
	LoginPermission LoginPermission `json:"login_permission"` // 登录权限
	AdminPermission int             `json:"admin_permission"` // 历史管理员标记
	CreateTime      string          `json:"create_time"`      // 创建时间
	UpdateTime      string          `json:"update_time"`      // 更新时间
	Roles           []*Role         `json:"roles"`            // 角色列表
}

// UserRolePermission 用户角色权限聚合响应结构
type UserRolePermission struct {
	UserInfo map[string]interface{}   `json:"user_info"` // 用户基本信息
	Roles    []map[string]interface{} `json:"roles"`     // 角色及其权限列表
}
