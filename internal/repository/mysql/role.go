/*
 * 角色仓库层:角色数据访问
 * @author: sun977
 * @date: 2025.10.09
 * @description: 单纯数据访问,不应该包含业务逻辑
 * @func:
 * 1.创建角色
 * 2.更新角色
 * 3.角色状态变更
 * 4.角色权限关联维护
 */
package mysql

import (
	"context"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"

	"gorm.io/gorm"
)

// RoleRepository 角色仓库结构体
// 负责处理角色相关的数据访问，不包含业务逻辑
type RoleRepository struct {
	db *gorm.DB // 数据库连接
}

// NewRoleRepository 创建角色仓库实例
// 注入数据库连接，专注于数据访问操作
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		db: db,
	}
}

// CreateRole 创建角色（纯数据访问）
// 直接将角色数据插入数据库，不包含业务逻辑验证
func (r *RoleRepository) CreateRole(ctx context.Context, role *model.Role) error {
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(role).Error
}

// GetRoleByID 根据ID获取角色(预加载权限)
func (r *RoleRepository) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "role_get", "GET", map[string]interface{}{
			"operation": "get_role_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &role, nil
}

// GetRolesByIDs 根据ID列表批量获取角色
// 只返回命中的角色，缺失的ID由业务层对账
func (r *RoleRepository) GetRolesByIDs(ctx context.Context, ids []uint) ([]*model.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []*model.Role
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "role_get", "GET", map[string]interface{}{
			"operation": "get_roles_by_ids",
			"ids":       ids,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return roles, nil
}

// GetActiveRoleByName 根据名称获取处于启用状态的角色
// 用于活跃名称唯一性检查，只看active=1的记录
func (r *RoleRepository) GetActiveRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("name = ? AND active = ?", name, model.RoleStatusEnabled).
		First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "role_get", "GET", map[string]interface{}{
			"operation": "get_active_role_by_name",
			"name":      name,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &role, nil
}

// ListRoles 获取全部角色列表(预加载权限)
func (r *RoleRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("id ASC").Find(&roles).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "role_list", "GET", map[string]interface{}{
			"operation": "list_roles",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return roles, nil
}

// UpdateRole 更新角色信息
func (r *RoleRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	role.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(role).Error
	if err != nil {
		// 记录更新失败日志
		logger.LogError(err, "", role.ID, "", "role_update", "PUT", map[string]interface{}{
			"operation": "update_role",
			"name":      role.Name,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// UpdateRoleFields 使用 map 更新角色特定字段
// 主要用于状态变更等单字段原子更新
func (r *RoleRepository) UpdateRoleFields(ctx context.Context, roleID uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&model.Role{}).
		Where("id = ?", roleID).
		Updates(fields).Error
}

// ReplaceRolePermissions 全量替换角色的权限关联
func (r *RoleRepository) ReplaceRolePermissions(ctx context.Context, role *model.Role, permissions []*model.Permission) error {
	err := r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(permissions)
	if err != nil {
		logger.LogError(err, "", role.ID, "", "role_permissions_replace", "PUT", map[string]interface{}{
			"operation": "replace_role_permissions",
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return r.db.WithContext(ctx).Model(role).Update("updated_at", time.Now()).Error
}
