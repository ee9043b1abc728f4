/*
 * 服务层:身份与权限解析
 * @author: sun977
 * @date: 2025.10.09
 * @description: 身份解析与管理员判定业务逻辑
 * @func:
 * 1.凭证解析(账号密码)
 * 2.令牌解析
 * 3.操作者定位(令牌或旧版手机号模式)
 * 4.管理员判定
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staffhub/internal/model"
	"staffhub/internal/pkg/auth"
	"staffhub/internal/pkg/logger"
)

// ResolverService 身份与权限解析服务
// 所有鉴权决策都直接读取数据库中的用户与角色,不信任缓存快照
type ResolverService struct {
	userStore    UserStore          // 用户存储
	roleStore    RoleStore          // 角色存储
	tokenManager *auth.TokenManager // 令牌管理器
	passwordMgr  *auth.PasswordManager
}

// NewResolverService 创建身份解析服务实例
func NewResolverService(
	userStore UserStore,
	roleStore RoleStore,
	tokenManager *auth.TokenManager,
	passwordMgr *auth.PasswordManager,
) *ResolverService {
	return &ResolverService{
		userStore:    userStore,
		roleStore:    roleStore,
		tokenManager: tokenManager,
		passwordMgr:  passwordMgr,
	}
}

// ResolveByCredential 根据账号密码解析用户
// 账号先按手机号查找,未命中再按用户名查找;
// 用户不存在与密码错误返回同一个错误,不泄露账号是否注册
func (s *ResolverService) ResolveByCredential(ctx context.Context, account, password string) (*model.User, error) {
	if account == "" || password == "" {
		return nil, model.ErrInvalidCredential
	}

	// 先按手机号查找
	user, err := s.userStore.GetUserByPhone(ctx, account)
	if err != nil {
		return nil, err
	}

	// 未命中再按用户名查找
	if user == nil {
		user, err = s.userStore.GetUserByUsername(ctx, account)
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		return nil, model.ErrInvalidCredential
	}

	// 验证密码(常量时间比较)
	ok, err := s.passwordMgr.VerifyPassword(password, user.Password)
	if err != nil {
		logger.LogError(err, "", user.ID, "", "credential_resolve", "POST", map[string]interface{}{
			"operation": "verify_password",
			"timestamp": logger.NowFormatted(),
		})
		return nil, model.ErrInvalidCredential
	}
	if !ok {
		return nil, model.ErrInvalidCredential
	}

	return user, nil
}

// ResolveByToken 根据令牌解析用户
// 令牌校验失败关闭:任何解析失败都返回 ErrInvalidToken。
// 令牌本身无法吊销,被禁止登录的账号在这里被拦截
func (s *ResolverService) ResolveByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}

	userID, err := s.tokenManager.SubjectOf(token)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	user, err := s.userStore.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// 令牌有效但用户已被删除
		return nil, model.ErrInvalidToken
	}
	if !user.CanLogin() {
		return nil, model.ErrAccountDisabled
	}

	return user, nil
}

// ResolveCaller 定位操作者
// 优先使用令牌;令牌为空时回退到旧版手机号模式(直接按手机号定位操作者)
func (s *ResolverService) ResolveCaller(ctx context.Context, token, adminPhone string) (*model.User, error) {
	if token != "" {
		return s.ResolveByToken(ctx, token)
	}

	if adminPhone == "" {
		return nil, model.ErrInvalidToken
	}

	user, err := s.userStore.GetUserByPhone(ctx, adminPhone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	return user, nil
}

// IsAdministrator 判定用户是否为管理员
// 判定口径:持有至少一个处于启用状态、且名称命中管理员特征的角色。
// 名称特征为 与"admin"忽略大小写相等、包含"admin"子串、或包含"管理员"
func (s *ResolverService) IsAdministrator(user *model.User) bool {
	if user == nil {
		return false
	}
	for _, role := range user.Roles {
		if role == nil || !role.IsActive() {
			continue
		}
		if isAdminRoleName(role.Name) {
			return true
		}
	}
	return false
}

// RequireAdministrator 要求用户具有管理员身份
// 无任何角色与有角色但非管理员返回不同的错误消息
func (s *ResolverService) RequireAdministrator(user *model.User) error {
	if user == nil {
		return model.ErrUserNotFound
	}
	if len(user.Roles) == 0 {
		return model.ErrNoRoles
	}
	if !s.IsAdministrator(user) {
		return model.ErrNoAdminPrivilege
	}
	return nil
}

// HasPermission 判定用户是否持有指定名称的权限
// 只统计启用角色下的启用权限
func (s *ResolverService) HasPermission(user *model.User, permissionName string) bool {
	if user == nil || permissionName == "" {
		return false
	}
	for _, role := range user.Roles {
		if role == nil || !role.IsActive() {
			continue
		}
		for _, permission := range role.Permissions {
			if permission != nil && permission.IsActive() && permission.Name == permissionName {
				return true
			}
		}
	}
	return false
}

// RequirePermission 要求用户持有指定名称的权限
func (s *ResolverService) RequirePermission(user *model.User, permissionName string) error {
	if user == nil {
		return model.ErrUserNotFound
	}
	if len(user.Roles) == 0 {
		return model.ErrNoRoles
	}
	if !s.HasPermission(user, permissionName) {
		return model.NewError(model.KindForbidden, fmt.Sprintf("缺少权限: %s", permissionName))
	}
	return nil
}

// ResolveAdminCaller 定位操作者并要求管理员身份
func (s *ResolverService) ResolveAdminCaller(ctx context.Context, token, adminPhone string) (*model.User, error) {
	caller, err := s.ResolveCaller(ctx, token, adminPhone)
	if err != nil {
		return nil, err
	}
	if err := s.RequireAdministrator(caller); err != nil {
		return nil, err
	}
	return caller, nil
}

// GetUserRoleIDs 获取用户持有的启用角色ID列表
func (s *ResolverService) GetUserRoleIDs(ctx context.Context, phone string) ([]uint, error) {
	if phone == "" {
		return nil, errors.New("手机号不能为空")
	}

	user, err := s.userStore.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	roleIDs := make([]uint, 0, len(user.Roles))
	for _, role := range user.Roles {
		if role != nil && role.IsActive() {
			roleIDs = append(roleIDs, role.ID)
		}
	}
	return roleIDs, nil
}

// isAdminRoleName 检查角色名称是否命中管理员特征
func isAdminRoleName(name string) bool {
	return strings.EqualFold(name, "admin") ||
		strings.Contains(name, "admin") ||
		strings.Contains(name, "管理员")
}
