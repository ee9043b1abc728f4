/*
 * 服务层:角色业务逻辑
 * @author: sun977
 * @date: 2025.10.09
 * @description: 角色创建、状态变更与权限关联业务逻辑
 * @func:
 * 1.创建角色(活跃名称唯一)
 * 2.禁用/启用角色
 * 3.角色权限全量校验分配与宽容移除
 * 4.角色权限查询
 */
package auth

import (
	"context"
	"errors"
	"fmt"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"
)

// RoleService 角色服务
type RoleService struct {
	roleStore       RoleStore        // 角色存储
	permissionStore PermissionStore  // 权限存储
	resolver        *ResolverService // 身份解析服务
}

// NewRoleService 创建角色服务实例
func NewRoleService(roleStore RoleStore, permissionStore PermissionStore, resolver *ResolverService) *RoleService {
	return &RoleService{
		roleStore:       roleStore,
		permissionStore: permissionStore,
		resolver:        resolver,
	}
}

// CreateRole 创建角色
// 同名检查只针对处于启用状态的角色:禁用的同名角色不阻止新建
func (s *RoleService) CreateRole(ctx context.Context, req *model.CreateRoleRequest) (*model.Role, error) {
	if req == nil {
		return nil, errors.New("请求不能为空")
	}
	if req.Name == "" {
		return nil, errors.New("角色名称不能为空")
	}

	// 定位并校验操作者
	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return nil, err
	}

	// 活跃名称唯一性检查
	existing, err := s.roleStore.GetActiveRoleByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrRoleNameExists
	}

	// 校验初始权限列表
	var permissions []*model.Permission
	if len(req.PermissionIDs) > 0 {
		permissions, err = s.validatePermissionIDs(ctx, req.PermissionIDs)
		if err != nil {
			return nil, err
		}
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
		Active:      model.RoleStatusEnabled,
	}
	if err := s.roleStore.CreateRole(ctx, role); err != nil {
		logger.LogError(err, "", caller.ID, "", "role_create", "POST", map[string]interface{}{
			"operation": "create_role",
			"name":      req.Name,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("创建角色失败: %w", err)
	}

	// 绑定初始权限
	if len(permissions) > 0 {
		if err := s.roleStore.ReplaceRolePermissions(ctx, role, permissions); err != nil {
			return nil, fmt.Errorf("绑定初始权限失败: %w", err)
		}
		role.Permissions = permissions
	}

	logger.LogBusinessOperation("create_role", caller.ID, caller.Username, "", "", "success", "角色创建成功", map[string]interface{}{
		"role_id":   role.ID,
		"name":      role.Name,
		"timestamp": logger.NowFormatted(),
	})

	return role, nil
}

// DisableRole 禁用角色
// 已处于禁用状态的角色拒绝重复禁用
func (s *RoleService) DisableRole(ctx context.Context, req *model.RoleActionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	role, err := s.roleStore.GetRoleByID(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if role == nil {
		return model.ErrRoleNotFound
	}
	if !role.IsActive() {
		return model.ErrAlreadyDisabled
	}

	if err := s.roleStore.UpdateRoleFields(ctx, role.ID, map[string]interface{}{
		"active": model.RoleStatusDisabled,
	}); err != nil {
		return fmt.Errorf("禁用角色失败: %w", err)
	}

	logger.LogBusinessOperation("disable_role", caller.ID, caller.Username, "", "", "success", "角色禁用成功", map[string]interface{}{
		"role_id":   role.ID,
		"name":      role.Name,
		"timestamp": logger.NowFormatted(),
	})

	return nil
}

// EnableRole 启用角色
// 启用前检查是否已有同名的活跃角色,避免恢复后出现重名
func (s *RoleService) EnableRole(ctx context.Context, req *model.RoleActionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	role, err := s.roleStore.GetRoleByID(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if role == nil {
		return model.ErrRoleNotFound
	}
	if role.IsActive() {
		return model.ErrAlreadyEnabled
	}

	// 活跃名称冲突检查
	existing, err := s.roleStore.GetActiveRoleByName(ctx, role.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return model.ErrRoleNameExists
	}

	if err := s.roleStore.UpdateRoleFields(ctx, role.ID, map[string]interface{}{
		"active": model.RoleStatusEnabled,
	}); err != nil {
		return fmt.Errorf("启用角色失败: %w", err)
	}

	logger.LogBusinessOperation("enable_role", caller.ID, caller.Username, "", "", "success", "角色启用成功", map[string]interface{}{
		"role_id":   role.ID,
		"name":      role.Name,
		"timestamp": logger.NowFormatted(),
	})

	return nil
}

// AssignPermissions 为角色分配权限(全量校验)
// 任何一个权限ID不存在或已禁用都拒绝整个请求,并携带全部无效ID
func (s *RoleService) AssignPermissions(ctx context.Context, req *model.AssignPermissionsRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}
	if len(req.PermissionIDs) == 0 {
		return errors.New("权限ID列表不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	role, err := s.roleStore.GetRoleByID(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if role == nil {
		return model.ErrRoleNotFound
	}
	if !role.IsActive() {
		return model.ErrRoleDisabled
	}

	// 全量校验权限ID
	permissions, err := s.validatePermissionIDs(ctx, req.PermissionIDs)
	if err != nil {
		return err
	}

	// 合并现有权限与新权限
	merged := make([]*model.Permission, 0, len(role.Permissions)+len(permissions))
	seen := make(map[uint]bool, len(role.Permissions))
	for _, perm := range role.Permissions {
		merged = append(merged, perm)
		seen[perm.ID] = true
	}
	for _, perm := range permissions {
		if !seen[perm.ID] {
			merged = append(merged, perm)
			seen[perm.ID] = true
		}
	}

	if err := s.roleStore.ReplaceRolePermissions(ctx, role, merged); err != nil {
		return fmt.Errorf("分配权限失败: %w", err)
	}

	logger.LogBusinessOperation("assign_permissions", caller.ID, caller.Username, "", "", "success", "权限分配成功", map[string]interface{}{
		"role_id":        role.ID,
		"permission_ids": req.PermissionIDs,
		"timestamp":      logger.NowFormatted(),
	})

	return nil
}

// RemovePermissions 为角色移除权限(宽容语义)
// 无法在权限库中解析的ID被静默忽略,整个请求都解析不到权限才算失败;
// 可解析但角色并未持有的权限不构成错误
func (s *RoleService) RemovePermissions(ctx context.Context, req *model.RemovePermissionsRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}
	if len(req.PermissionIDs) == 0 {
		return errors.New("权限ID列表不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	role, err := s.roleStore.GetRoleByID(ctx, req.RoleID)
	if err != nil {
		return err
	}
	if role == nil {
		return model.ErrRoleNotFound
	}
	if !role.IsActive() {
		return model.ErrRoleDisabled
	}

	// 按权限库过滤出可解析的ID
	resolvable, err := s.permissionStore.GetPermissionsByIDs(ctx, req.PermissionIDs)
	if err != nil {
		return err
	}
	if len(resolvable) == 0 {
		return model.ErrNoPermissionsToRemove
	}

	removeSet := make(map[uint]bool, len(resolvable))
	for _, perm := range resolvable {
		removeSet[perm.ID] = true
	}

	remaining := make([]*model.Permission, 0, len(role.Permissions))
	removed := 0
	for _, perm := range role.Permissions {
		if removeSet[perm.ID] {
			removed++
			continue
		}
		remaining = append(remaining, perm)
	}

	if removed > 0 {
		if err := s.roleStore.ReplaceRolePermissions(ctx, role, remaining); err != nil {
			return fmt.Errorf("移除权限失败: %w", err)
		}
	}

	logger.LogBusinessOperation("remove_permissions", caller.ID, caller.Username, "", "", "success", "权限移除成功", map[string]interface{}{
		"role_id":        role.ID,
		"permission_ids": req.PermissionIDs,
		"removed":        removed,
		"timestamp":      logger.NowFormatted(),
	})

	return nil
}

// GetRolePermissionIDs 获取角色持有的启用权限ID列表
// 角色不存在返回 ErrRoleNotFound,角色已禁用返回 ErrRoleDisabled
func (s *RoleService) GetRolePermissionIDs(ctx context.Context, roleID uint) ([]uint, error) {
	role, err := s.roleStore.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, model.ErrRoleNotFound
	}
	if !role.IsActive() {
		return nil, model.ErrRoleDisabled
	}

	ids := make([]uint, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		if perm != nil && perm.IsActive() {
			ids = append(ids, perm.ID)
		}
	}
	return ids, nil
}

// GetRolePermissions 获取角色持有的启用权限列表
func (s *RoleService) GetRolePermissions(ctx context.Context, roleID uint) ([]*model.Permission, error) {
	role, err := s.roleStore.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, model.ErrRoleNotFound
	}
	if !role.IsActive() {
		return nil, model.ErrRoleDisabled
	}

	permissions := make([]*model.Permission, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		if perm != nil && perm.IsActive() {
			permissions = append(permissions, perm)
		}
	}
	return permissions, nil
}

// GetAllRoles 获取全部角色列表(管理员操作)
func (s *RoleService) GetAllRoles(ctx context.Context, token, adminPhone string) ([]*model.Role, error) {
	if _, err := s.resolver.ResolveAdminCaller(ctx, token, adminPhone); err != nil {
		return nil, err
	}
	return s.roleStore.ListRoles(ctx)
}

// validatePermissionIDs 全量校验权限ID列表
// 返回全部有效权限;存在无效ID时返回携带完整无效ID列表的冲突错误
func (s *RoleService) validatePermissionIDs(ctx context.Context, ids []uint) ([]*model.Permission, error) {
	permissions, err := s.permissionStore.GetPermissionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint]*model.Permission, len(permissions))
	for _, perm := range permissions {
		found[perm.ID] = perm
	}

	var invalidIDs []uint
	valid := make([]*model.Permission, 0, len(ids))
	for _, id := range ids {
		perm, ok := found[id]
		if !ok || !perm.IsActive() {
			invalidIDs = append(invalidIDs, id)
			continue
		}
		valid = append(valid, perm)
	}
	if len(invalidIDs) > 0 {
		return nil, model.NewConflictIDs("部分权限不存在或已被禁用", invalidIDs)
	}

	return valid, nil
}
