/*
 * 服务层:权限业务逻辑
 * @author: sun977
 * @date: 2025.10.09
 * @description: 权限创建与状态变更业务逻辑
 * @func:
 * 1.创建权限(活跃名称唯一)
 * 2.禁用/启用权限
 * 3.权限列表查询
 */
package auth

import (
	"context"
	"errors"
	"fmt"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"
)

// PermissionService 权限服务
type PermissionService struct {
	permissionStore PermissionStore  // 权限存储
	resolver        *ResolverService // 身份解析服务
}

// NewPermissionService 创建权限服务实例
func NewPermissionService(permissionStore PermissionStore, resolver *ResolverService) *PermissionService {
	return &PermissionService{
		permissionStore: permissionStore,
		resolver:        resolver,
	}
}

// CreatePermission 创建权限
// 同名检查只针对处于启用状态的权限:禁用的同名权限不阻止新建
func (s *PermissionService) CreatePermission(ctx context.Context, req *model.CreatePermissionRequest) (*model.Permission, error) {
	if req == nil {
		return nil, errors.New("请求不能为空")
	}
	if req.Name == "" {
		return nil, errors.New("权限名称不能为空")
	}

	// 定位并校验操作者
	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return nil, err
	}

	// 活跃名称唯一性检查
	existing, err := s.permissionStore.GetActivePermissionByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrPermissionNameExists
	}

	permission := &model.Permission{
		Name:        req.Name,
		Description: req.Description,
		Active:      model.PermissionStatusEnabled,
	}
	if err := s.permissionStore.CreatePermission(ctx, permission); err != nil {
		logger.LogError(err, "", caller.ID, "", "permission_create", "POST", map[string]interface{}{
			"operation": "create_permission",
			"name":      req.Name,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("创建权限失败: %w", err)
	}

	logger.LogBusinessOperation("create_permission", caller.ID, caller.Username, "", "", "success", "权限创建成功", map[string]interface{}{
		"permission_id": permission.ID,
		"name":          permission.Name,
		"timestamp":     logger.NowFormatted(),
	})

	return permission, nil
}

// DisablePermission 禁用权限
// 已处于禁用状态的权限拒绝重复禁用
func (s *PermissionService) DisablePermission(ctx context.Context, req *model.PermissionActionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	permission, err := s.permissionStore.GetPermissionByID(ctx, req.PermissionID)
	if err != nil {
		return err
	}
	if permission == nil {
		return model.ErrPermissionNotFound
	}
	if !permission.IsActive() {
		return model.ErrAlreadyDisabled
	}

	if err := s.permissionStore.UpdatePermissionFields(ctx, permission.ID, map[string]interface{}{
		"active": model.PermissionStatusDisabled,
	}); err != nil {
		return fmt.Errorf("禁用权限失败: %w", err)
	}

	logger.LogBusinessOperation("disable_permission", caller.ID, caller.Username, "", "", "success", "权限禁用成功", map[string]interface{}{
		"permission_id": permission.ID,
		"name":          permission.Name,
		"timestamp":     logger.NowFormatted(),
	})

	return nil
}

// EnablePermission 启用权限
// 启用前检查是否已有同名的活跃权限
func (s *PermissionService) EnablePermission(ctx context.Context, req *model.PermissionActionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	permission, err := s.permissionStore.GetPermissionByID(ctx, req.PermissionID)
	if err != nil {
		return err
	}
	if permission == nil {
		return model.ErrPermissionNotFound
	}
	if permission.IsActive() {
		return model.ErrAlreadyEnabled
	}

	// 活跃名称冲突检查
	existing, err := s.permissionStore.GetActivePermissionByName(ctx, permission.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return model.ErrPermissionNameExists
	}

	if err := s.permissionStore.UpdatePermissionFields(ctx, permission.ID, map[string]interface{}{
		"active": model.PermissionStatusEnabled,
	}); err != nil {
		return fmt.Errorf("启用权限失败: %w", err)
	}

	logger.LogBusinessOperation("enable_permission", caller.ID, caller.Username, "", "", "success", "权限启用成功", map[string]interface{}{
		"permission_id": permission.ID,
		"name":          permission.Name,
		"timestamp":     logger.NowFormatted(),
	})

	return nil
}

// GetAllPermissions 获取全部权限列表(管理员操作)
func (s *PermissionService) GetAllPermissions(ctx context.Context, token, adminPhone string) ([]*model.Permission, error) {
	if _, err := s.resolver.ResolveAdminCaller(ctx, token, adminPhone); err != nil {
		return nil, err
	}
	return s.permissionStore.ListPermissions(ctx)
}
