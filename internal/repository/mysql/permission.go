/*
 * 权限仓库层:权限数据访问
 * @author: sun977
 * @date: 2025.10.09
 * @description: 单纯数据访问,不应该包含业务逻辑
 * @func:
 * 1.创建权限
 * 2.更新权限
 * 3.权限状态变更
 * 4.权限基础查询
 */
package mysql

import (
	"context"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"

	"gorm.io/gorm"
)

// PermissionRepository 权限仓库结构体
// 负责处理权限相关的数据访问，不包含业务逻辑
type PermissionRepository struct {
	db *gorm.DB // 数据库连接
}

// NewPermissionRepository 创建权限仓库实例
// 注入数据库连接，专注于数据访问操作
func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// CreatePermission 创建权限（纯数据访问）
// 直接将权限数据插入数据库，不包含业务逻辑验证
func (r *PermissionRepository) CreatePermission(ctx context.Context, permission *model.Permission) error {
	permission.CreatedAt = time.Now()
	permission.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(permission).Error
}

// GetPermissionByID 根据ID获取权限
func (r *PermissionRepository) GetPermissionByID(ctx context.Context, id uint) (*model.Permission, error) {
	var permission model.Permission
	err := r.db.WithContext(ctx).First(&permission, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "permission_get", "GET", map[string]interface{}{
			"operation": "get_permission_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &permission, nil
}

// GetPermissionsByIDs 根据ID列表批量获取权限
// 只返回命中的权限，缺失的ID由业务层对账
func (r *PermissionRepository) GetPermissionsByIDs(ctx context.Context, ids []uint) ([]*model.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var permissions []*model.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&permissions).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "permission_get", "GET", map[string]interface{}{
			"operation": "get_permissions_by_ids",
			"ids":       ids,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return permissions, nil
}

// GetActivePermissionsByIDs 根据ID列表批量获取处于启用状态的权限
func (r *PermissionRepository) GetActivePermissionsByIDs(ctx context.Context, ids []uint) ([]*model.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var permissions []*model.Permission
	err := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, model.PermissionStatusEnabled).
		Find(&permissions).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "permission_get", "GET", map[string]interface{}{
			"operation": "get_active_permissions_by_ids",
			"ids":       ids,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return permissions, nil
}

// GetActivePermissionByName 根据名称获取处于启用状态的权限
// 用于活跃名称唯一性检查，只看active=1的记录
func (r *PermissionRepository) GetActivePermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	var permission model.Permission
	err := r.db.WithContext(ctx).
		Where("name = ? AND active = ?", name, model.PermissionStatusEnabled).
		First(&permission).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "permission_get", "GET", map[string]interface{}{
			"operation": "get_active_permission_by_name",
			"name":      name,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &permission, nil
}

// ListPermissions 获取全部权限列表
func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	var permissions []*model.Permission
	err := r.db.WithContext(ctx).Order("id ASC").Find(&permissions).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "permission_list", "GET", map[string]interface{}{
			"operation": "list_permissions",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return permissions, nil
}

// UpdatePermission 更新权限信息
func (r *PermissionRepository) UpdatePermission(ctx context.Context, permission *model.Permission) error {
	permission.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(permission).Error
	if err != nil {
		// 记录更新失败日志
		logger.LogError(err, "", permission.ID, "", "permission_update", "PUT", map[string]interface{}{
			"operation": "update_permission",
			"name":      permission.Name,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// UpdatePermissionFields 使用 map 更新权限特定字段
func (r *PermissionRepository) UpdatePermissionFields(ctx context.Context, permissionID uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&model.Permission{}).
		Where("id = ?", permissionID).
		Updates(fields).Error
}
