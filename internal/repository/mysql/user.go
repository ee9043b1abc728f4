/**
 * 用户仓库层:用户数据访问
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户数据访问
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"fmt"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"

	"gorm.io/gorm"
)

// UserRepository 用户仓库结构体
// 负责处理用户相关的数据访问，不包含业务逻辑
type UserRepository struct {
	db *gorm.DB // 数据库连接
}

// NewUserRepository 创建用户仓库实例
// 注入数据库连接，专注于数据访问操作
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser 创建用户（纯数据访问）
// 直接将用户数据插入数据库，不包含业务逻辑验证
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID 根据ID获取用户(预加载角色)
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &user, nil
}

// GetUserByPhone 根据手机号获取用户(预加载角色)
func (r *UserRepository) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", 0, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_phone",
			"phone":     phone,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户(预加载角色)
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", 0, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_username",
			"username":  username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &user, nil
}

// GetUserWithDepartments 根据手机号获取用户(预加载角色和部门)
func (r *UserRepository) GetUserWithDepartments(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Departments").
		Preload("PrimaryDept").
		Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_with_departments",
			"phone":     phone,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &user, nil
}

// ListUsers 获取全部用户列表(预加载角色)
func (r *UserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Preload("Roles").Order("id ASC").Find(&users).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "user_list", "GET", map[string]interface{}{
			"operation": "list_users",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return users, nil
}

// UpdateUser 更新用户信息
func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		// 记录更新失败日志
		logger.LogError(err, "", user.ID, "", "user_update", "PUT", map[string]interface{}{
			"operation": "update_user",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// UpdateUserFields 使用 map 更新用户特定字段
// 主要用于原子更新操作，如登录权限的单字段更新
func (r *UserRepository) UpdateUserFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}

// ReplaceUserRoles 全量替换用户的角色关联
func (r *UserRepository) ReplaceUserRoles(ctx context.Context, user *model.User, roles []*model.Role) error {
	err := r.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles)
	if err != nil {
		logger.LogError(err, "", user.ID, "", "user_roles_replace", "PUT", map[string]interface{}{
			"operation": "replace_user_roles",
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return r.db.WithContext(ctx).Model(user).Update("updated_at", time.Now()).Error
}

// ReplaceUserDepartments 全量替换用户的部门关联
func (r *UserRepository) ReplaceUserDepartments(ctx context.Context, user *model.User, departments []*model.Department) error {
	err := r.db.WithContext(ctx).Model(user).Association("Departments").Replace(departments)
	if err != nil {
		logger.LogError(err, "", user.ID, "", "user_departments_replace", "PUT", map[string]interface{}{
			"operation": "replace_user_departments",
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return r.db.WithContext(ctx).Model(user).Update("updated_at", time.Now()).Error
}

// DeleteUser 删除用户及其关联关系
// 在事务中先清理角色与部门关联，再删除用户记录
func (r *UserRepository) DeleteUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Association("Roles").Clear(); err != nil {
			return fmt.Errorf("failed to clear user roles: %w", err)
		}
		if err := tx.Model(user).Association("Departments").Clear(); err != nil {
			return fmt.Errorf("failed to clear user departments: %w", err)
		}
		if err := tx.Delete(user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
