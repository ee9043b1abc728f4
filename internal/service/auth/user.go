/*
 * 服务层:用户业务逻辑
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户注册、登录、信息查询与角色变更业务逻辑
 * @func:
 * 1.注册/密码登录/验证码登录
 * 2.密码与登录权限变更
 * 3.用户角色全量校验分配与宽容移除
 * 4.快照刷新(先失效再写入)
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/pkg/auth"
	"staffhub/internal/pkg/logger"
)

// adminRoleName 字面量管理员角色名
// 删除保护与is_admin登录按这个字面量判断,不走宽泛的管理员名称特征
const adminRoleName = "admin"

// UserService 用户服务
// 负责用户相关的业务逻辑，包括注册、登录、角色分配等
type UserService struct {
	userStore    UserStore          // 用户存储
	roleStore    RoleStore          // 角色存储
	cache        SnapshotCache      // 快照与验证码缓存
	codeSender   CodeSender         // 验证码发送器
	resolver     *ResolverService   // 身份解析服务
	tokenManager *auth.TokenManager // 令牌管理器
	passwordMgr  *auth.PasswordManager
	snapshotTTL  time.Duration // 快照过期时间
	codeTTL      time.Duration // 验证码过期时间
	codeLen      int           // 验证码位数
}

// NewUserService 创建用户服务实例
func NewUserService(
	userStore UserStore,
	roleStore RoleStore,
	cache SnapshotCache,
	codeSender CodeSender,
	resolver *ResolverService,
	tokenManager *auth.TokenManager,
	passwordMgr *auth.PasswordManager,
	snapshotTTL, codeTTL time.Duration,
	codeLen int,
) *UserService {
	return &UserService{
		userStore:    userStore,
		roleStore:    roleStore,
		cache:        cache,
		codeSender:   codeSender,
		resolver:     resolver,
		tokenManager: tokenManager,
		passwordMgr:  passwordMgr,
		snapshotTTL:  snapshotTTL,
		codeTTL:      codeTTL,
		codeLen:      codeLen,
	}
}

// Register 用户注册
// 校验验证码与两次密码一致性,手机号和用户名都要求全局唯一
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	// 参数验证
	if req == nil {
		return nil, errors.New("注册请求不能为空")
	}
	if req.Phone == "" {
		return nil, errors.New("手机号不能为空")
	}
	if req.Username == "" {
		return nil, errors.New("用户名不能为空")
	}
	if req.Password == "" {
		return nil, errors.New("密码不能为空")
	}
	if req.Password != req.PasswordAgain {
		return nil, errors.New("两次输入的密码不一致")
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, fmt.Errorf("密码强度不足: %w", err)
	}

	// 校验验证码
	if err := s.consumeVerifyCode(ctx, req.Phone, req.VerifyCode); err != nil {
		return nil, err
	}

	// 手机号唯一性检查
	existing, err := s.userStore.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("检查手机号是否存在失败: %w", err)
	}
	if existing != nil {
		return nil, model.ErrUserAlreadyExists
	}

	// 用户名唯一性检查
	existing, err = s.userStore.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("检查用户名是否存在失败: %w", err)
	}
	if existing != nil {
		return nil, model.ErrUserAlreadyExists
	}

	// 哈希密码
	hashedPassword, err := s.passwordMgr.HashPassword(req.Password)
	if err != nil {
		logger.LogError(err, "", 0, "", "user_register", "POST", map[string]interface{}{
			"operation": "hash_password",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("密码处理失败: %w", err)
	}

	// 创建用户,默认允许登录
	user := &model.User{
		Username:        req.Username,
		Phone:           req.Phone,
		Password:        hashedPassword,
		LoginPermission: model.LoginAllowed,
	}
	if err := s.userStore.CreateUser(ctx, user); err != nil {
		logger.LogError(err, "", 0, "", "user_register", "POST", map[string]interface{}{
			"operation": "create_user",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	// 签发令牌
	token, err := s.tokenManager.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	// 刷新快照
	s.refreshSnapshot(ctx, user)

	// 记录注册成功日志
	logger.LogBusinessOperation("register", user.ID, user.Username, "", "", "success", "用户注册成功", map[string]interface{}{
		"phone":     user.Phone,
		"timestamp": logger.NowFormatted(),
	})

	return &model.RegisterResponse{
		Token: token,
		User:  user,
	}, nil
}

// LoginWithPassword 密码登录
// 凭证校验通过后才检查登录权限;is_admin要求以管理员身份登录
func (s *UserService) LoginWithPassword(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, errors.New("登录请求不能为空")
	}

	// 解析凭证
	user, err := s.resolver.ResolveByCredential(ctx, req.Account, req.Password)
	if err != nil {
		return nil, err
	}

	// 凭证正确但账号被禁止登录
	if !user.CanLogin() {
		logger.LogBusinessOperation("login", user.ID, user.Username, "", "", "failed", "账号已被禁止登录", map[string]interface{}{
			"timestamp": logger.NowFormatted(),
		})
		return nil, model.ErrAccountDisabled
	}

	// 要求以管理员身份登录:必须持有字面量admin角色
	if req.IsAdmin != nil && *req.IsAdmin {
		if !user.HasRole(adminRoleName) {
			return nil, model.ErrNoAdminPrivilege
		}
	}

	// 签发令牌
	token, err := s.tokenManager.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	// 刷新快照
	s.refreshSnapshot(ctx, user)

	logger.LogBusinessOperation("login", user.ID, user.Username, "", "", "success", "用户登录成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})

	return &model.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// LoginWithCode 验证码登录
func (s *UserService) LoginWithCode(ctx context.Context, req *model.VerifyLoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, errors.New("登录请求不能为空")
	}
	if req.Phone == "" {
		return nil, errors.New("手机号不能为空")
	}

	user, err := s.userStore.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if !user.CanLogin() {
		return nil, model.ErrAccountDisabled
	}

	// 校验验证码
	if err := s.consumeVerifyCode(ctx, req.Phone, req.VerifyCode); err != nil {
		return nil, err
	}

	// 签发令牌
	token, err := s.tokenManager.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	// 刷新快照
	s.refreshSnapshot(ctx, user)

	logger.LogBusinessOperation("login_with_code", user.ID, user.Username, "", "", "success", "验证码登录成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})

	return &model.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// SendVerifyCode 发送短信验证码
// 生成随机数字验证码写入缓存后交给发送器投递
func (s *UserService) SendVerifyCode(ctx context.Context, phone string) error {
	if phone == "" {
		return errors.New("手机号不能为空")
	}

	code, err := auth.GenerateVerifyCode(s.codeLen)
	if err != nil {
		return fmt.Errorf("生成验证码失败: %w", err)
	}

	if err := s.cache.StoreVerifyCode(ctx, phone, code, s.codeTTL); err != nil {
		return fmt.Errorf("存储验证码失败: %w", err)
	}

	if err := s.codeSender.SendVerifyCode(ctx, phone, code); err != nil {
		logger.LogError(err, "", 0, "", "verify_code_send", "POST", map[string]interface{}{
			"operation": "send_verify_code",
			"phone":     phone,
			"timestamp": logger.NowFormatted(),
		})
		return fmt.Errorf("发送验证码失败: %w", err)
	}

	return nil
}

// UpdatePassword 修改密码(验证码校验通过后调用)
func (s *UserService) UpdatePassword(ctx context.Context, req *model.UpdatePasswordRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}
	if req.Phone == "" {
		return errors.New("手机号不能为空")
	}
	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		return fmt.Errorf("密码强度不足: %w", err)
	}

	user, err := s.userStore.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		return err
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	hashedPassword, err := s.passwordMgr.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("密码处理失败: %w", err)
	}

	if err := s.userStore.UpdateUserFields(ctx, user.ID, map[string]interface{}{
		"password": hashedPassword,
	}); err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}

	// 密码变更后刷新快照
	user.Password = hashedPassword
	s.refreshSnapshot(ctx, user)

	logger.LogBusinessOperation("update_password", user.ID, user.Username, "", "", "success", "密码修改成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})

	return nil
}

// UpdateLoginPermission 修改用户登录权限
// 操作者必须是管理员;目标用户若本身是管理员则拒绝修改
func (s *UserService) UpdateLoginPermission(ctx context.Context, req *model.UpdateLoginPermissionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	// 定位并校验操作者
	if _, err := s.resolver.ResolveAdminCaller(ctx, req.Token, ""); err != nil {
		return err
	}

	// 定位目标用户
	target, err := s.userStore.GetUserByPhone(ctx, req.TargetPhone)
	if err != nil {
		return err
	}
	if target == nil {
		return model.ErrUserNotFound
	}

	// 管理员的登录权限不可被修改
	if s.resolver.IsAdministrator(target) {
		return model.ErrAdminLoginPermission
	}

	if err := s.userStore.UpdateUserFields(ctx, target.ID, map[string]interface{}{
		"login_permission": req.LoginPermission,
	}); err != nil {
		return fmt.Errorf("更新登录权限失败: %w", err)
	}

	target.LoginPermission = req.LoginPermission
	s.refreshSnapshot(ctx, target)

	logger.LogBusinessOperation("update_login_permission", target.ID, target.Username, "", "", "success", "登录权限修改成功", map[string]interface{}{
		"login_permission": req.LoginPermission,
		"timestamp":        logger.NowFormatted(),
	})

	return nil
}

// DeleteUser 删除当前令牌对应的用户
// 持有字面量admin角色(无论角色是否启用)的用户拒绝删除,返回false而不是错误
func (s *UserService) DeleteUser(ctx context.Context, token string) (bool, error) {
	user, err := s.resolver.ResolveByToken(ctx, token)
	if err != nil {
		return false, err
	}

	// admin角色账号不允许自助删除
	if user.HasRole(adminRoleName) {
		logger.LogBusinessOperation("delete_user", user.ID, user.Username, "", "", "failed", "管理员账号不允许删除", map[string]interface{}{
			"timestamp": logger.NowFormatted(),
		})
		return false, nil
	}

	if err := s.userStore.DeleteUser(ctx, user); err != nil {
		return false, fmt.Errorf("删除用户失败: %w", err)
	}

	// 删除用户后清理快照
	s.invalidateSnapshot(ctx, user.ID)

	logger.LogBusinessOperation("delete_user", user.ID, user.Username, "", "", "success", "用户删除成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})

	return true, nil
}

// GetUserInfoByToken 根据令牌获取用户信息
// 优先读取快照缓存,未命中时回源数据库并重建快照
func (s *UserService) GetUserInfoByToken(ctx context.Context, token string) (*model.UserInfo, error) {
	userID, err := s.tokenManager.SubjectOf(token)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	// 尝试快照缓存
	snapshot, err := s.cache.GetSnapshot(ctx, userID)
	if err != nil {
		// 缓存故障降级为回源,不阻断请求
		logger.LogError(err, "", userID, "", "user_info", "GET", map[string]interface{}{
			"operation": "get_snapshot",
			"timestamp": logger.NowFormatted(),
		})
	}
	if snapshot != nil {
		return snapshotToUserInfo(snapshot), nil
	}

	// 回源数据库
	user, err := s.userStore.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	s.refreshSnapshot(ctx, user)

	return userToUserInfo(user), nil
}

// GetUserRolePermission 获取用户及其角色权限聚合信息
func (s *UserService) GetUserRolePermission(ctx context.Context, token string) (*model.UserRolePermission, error) {
	user, err := s.resolver.ResolveByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	result := &model.UserRolePermission{
		UserInfo: map[string]interface{}{
			"uid":      user.ID,
			"uname":    user.Username,
			"phonenum": user.Phone,
		},
		Roles: make([]map[string]interface{}, 0, len(user.Roles)),
	}

	for _, role := range user.Roles {
		if role == nil || !role.IsActive() {
			continue
		}
		// 重新加载角色以获得权限关联
		full, err := s.roleStore.GetRoleByID(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		if full == nil {
			continue
		}

		permissions := make([]map[string]interface{}, 0, len(full.Permissions))
		for _, perm := range full.Permissions {
			if perm == nil || !perm.IsActive() {
				continue
			}
			permissions = append(permissions, map[string]interface{}{
				"id":   perm.ID,
				"name": perm.Name,
			})
		}

		result.Roles = append(result.Roles, map[string]interface{}{
			"id":          full.ID,
			"name":        full.Name,
			"permissions": permissions,
		})
	}

	return result, nil
}

// AssignRoles 为用户分配角色(全量校验)
// 任何一个角色ID不存在都拒绝整个请求,并携带全部无效ID;
// 只校验存在性,禁用角色可以分配(是否生效由解析时的活跃过滤决定)
func (s *UserService) AssignRoles(ctx context.Context, req *model.AssignRolesRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}
	if len(req.RoleIDs) == 0 {
		return errors.New("角色ID列表不能为空")
	}

	// 定位并校验操作者
	if _, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone); err != nil {
		return err
	}

	// 定位目标用户
	target, err := s.userStore.GetUserByPhone(ctx, req.TargetPhone)
	if err != nil {
		return err
	}
	if target == nil {
		return model.ErrUserNotFound
	}

	// 全量校验:收集所有不存在的角色ID
	roles, err := s.roleStore.GetRolesByIDs(ctx, req.RoleIDs)
	if err != nil {
		return err
	}
	found := make(map[uint]*model.Role, len(roles))
	for _, role := range roles {
		found[role.ID] = role
	}

	var invalidIDs []uint
	for _, id := range req.RoleIDs {
		if _, ok := found[id]; !ok {
			invalidIDs = append(invalidIDs, id)
		}
	}
	if len(invalidIDs) > 0 {
		return model.NewConflictIDs("部分角色不存在", invalidIDs)
	}

	// 合并现有角色与新角色
	merged := make([]*model.Role, 0, len(target.Roles)+len(roles))
	seen := make(map[uint]bool, len(target.Roles))
	for _, role := range target.Roles {
		merged = append(merged, role)
		seen[role.ID] = true
	}
	for _, id := range req.RoleIDs {
		if !seen[id] {
			merged = append(merged, found[id])
			seen[id] = true
		}
	}

	if err := s.userStore.ReplaceUserRoles(ctx, target, merged); err != nil {
		return fmt.Errorf("分配角色失败: %w", err)
	}

	// 权限变更后刷新快照
	target.Roles = merged
	s.refreshSnapshot(ctx, target)

	logger.LogBusinessOperation("assign_roles", target.ID, target.Username, "", "", "success", "角色分配成功", map[string]interface{}{
		"role_ids":  req.RoleIDs,
		"timestamp": logger.NowFormatted(),
	})

	return nil
}

// RemoveRoles 为用户移除角色(宽容语义)
// 无法在角色库中解析的ID被静默忽略,整个请求都解析不到角色才算失败;
// 可解析但用户并未持有的角色不构成错误
func (s *UserService) RemoveRoles(ctx context.Context, req *model.RemoveRolesRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}
	if len(req.RoleIDs) == 0 {
		return errors.New("角色ID列表不能为空")
	}

	// 定位并校验操作者
	if _, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone); err != nil {
		return err
	}

	// 定位目标用户
	target, err := s.userStore.GetUserByPhone(ctx, req.TargetPhone)
	if err != nil {
		return err
	}
	if target == nil {
		return model.ErrUserNotFound
	}

	// 按角色库过滤出可解析的ID
	resolvable, err := s.roleStore.GetRolesByIDs(ctx, req.RoleIDs)
	if err != nil {
		return err
	}
	if len(resolvable) == 0 {
		return model.ErrNoRolesToRemove
	}

	removeSet := make(map[uint]bool, len(resolvable))
	for _, role := range resolvable {
		removeSet[role.ID] = true
	}

	remaining := make([]*model.Role, 0, len(target.Roles))
	removed := 0
	for _, role := range target.Roles {
		if removeSet[role.ID] {
			removed++
			continue
		}
		remaining = append(remaining, role)
	}

	if removed > 0 {
		if err := s.userStore.ReplaceUserRoles(ctx, target, remaining); err != nil {
			return fmt.Errorf("移除角色失败: %w", err)
		}

		// 权限变更后刷新快照
		target.Roles = remaining
		s.refreshSnapshot(ctx, target)
	}

	logger.LogBusinessOperation("remove_roles", target.ID, target.Username, "", "", "success", "角色移除成功", map[string]interface{}{
		"role_ids":  req.RoleIDs,
		"removed":   removed,
		"timestamp": logger.NowFormatted(),
	})

	return nil
}

// GetAllUsers 获取全部用户列表(管理员操作)
func (s *UserService) GetAllUsers(ctx context.Context, token, adminPhone string) ([]*model.UserInfo, error) {
	if _, err := s.resolver.ResolveAdminCaller(ctx, token, adminPhone); err != nil {
		return nil, err
	}

	users, err := s.userStore.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]*model.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, userToUserInfo(user))
	}
	return infos, nil
}

// consumeVerifyCode 校验并消费验证码
func (s *UserService) consumeVerifyCode(ctx context.Context, phone, code string) error {
	if code == "" {
		return model.ErrInvalidVerifyCode
	}

	stored, err := s.cache.GetVerifyCode(ctx, phone)
	if err != nil {
		return fmt.Errorf("读取验证码失败: %w", err)
	}
	if stored == "" || stored != code {
		return model.ErrInvalidVerifyCode
	}

	// 校验通过后一次性消费
	if err := s.cache.DeleteVerifyCode(ctx, phone); err != nil {
		logger.LogError(err, "", 0, "", "verify_code", "POST", map[string]interface{}{
			"operation": "delete_verify_code",
			"phone":     phone,
			"timestamp": logger.NowFormatted(),
		})
	}

	return nil
}

// refreshSnapshot 刷新用户快照
// 刷新协议:先删除旧快照,再写入新快照,避免读到变更前的状态;
// 缓存只是加速层,任何失败都只记录日志不阻断业务
func (s *UserService) refreshSnapshot(ctx context.Context, user *model.User) {
	if err := s.cache.DeleteSnapshot(ctx, user.ID); err != nil {
		logger.LogError(err, "", user.ID, "", "snapshot_refresh", "PUT", map[string]interface{}{
			"operation": "delete_snapshot",
			"timestamp": logger.NowFormatted(),
		})
		return
	}

	snapshot := model.NewUserSnapshot(user)
	if err := s.cache.StoreSnapshot(ctx, user.ID, snapshot, s.snapshotTTL); err != nil {
		logger.LogError(err, "", user.ID, "", "snapshot_refresh", "PUT", map[string]interface{}{
			"operation": "store_snapshot",
			"timestamp": logger.NowFormatted(),
		})
	}
}

// invalidateSnapshot 删除用户快照
func (s *UserService) invalidateSnapshot(ctx context.Context, userID uint) {
	if err := s.cache.DeleteSnapshot(ctx, userID); err != nil {
		logger.LogError(err, "", userID, "", "snapshot_invalidate", "DELETE", map[string]interface{}{
			"operation": "delete_snapshot",
			"timestamp": logger.NowFormatted(),
		})
	}
}

// userToUserInfo 将用户实体转换为信息响应
func userToUserInfo(user *model.User) *model.UserInfo {
	return &model.UserInfo{
		UID:             user.ID,
		Username:        user.Username,
		Phone:           user.Phone,
		LoginPermission: user.LoginPermission,
		AdminPermission: user.AdminPermission,
		CreateTime:      logger.FormatTimestamp(user.CreatedAt),
		UpdateTime:      logger.FormatTimestamp(user.UpdatedAt),
		Roles:           user.Roles,
	}
}

// snapshotToUserInfo 将快照转换为信息响应
func snapshotToUserInfo(snapshot *model.UserSnapshot) *model.UserInfo {
	roles := make([]*model.Role, 0, len(snapshot.Roles))
	for _, r := range snapshot.Roles {
		roles = append(roles, &model.Role{
			ID:     r.ID,
			Name:   r.Name,
			Active: r.Active,
		})
	}
	return &model.UserInfo{
		UID:             snapshot.UserID,
		Username:        snapshot.Username,
		Phone:           snapshot.Phone,
		LoginPermission: snapshot.LoginPermission,
		AdminPermission: snapshot.AdminPermission,
		CreateTime:      logger.FormatTimestamp(snapshot.CreatedAt),
		UpdateTime:      logger.FormatTimestamp(snapshot.UpdatedAt),
		Roles:           roles,
	}
}
