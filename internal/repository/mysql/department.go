/*
 * 部门仓库层:部门数据访问
 * @author: sun977
 * @date: 2025.10.09
 * @description: 单纯数据访问,不应该包含业务逻辑
 * @func:
 * 1.创建部门
 * 2.更新部门
 * 3.部门状态变更
 * 4.部门关联查询
 */
package mysql

import (
	"context"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"

	"gorm.io/gorm"
)

// DepartmentRepository 部门仓库结构体
// 负责处理部门相关的数据访问，不包含业务逻辑
type DepartmentRepository struct {
	db *gorm.DB // 数据库连接
}

// NewDepartmentRepository 创建部门仓库实例
// 注入数据库连接，专注于数据访问操作
func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// CreateDepartment 创建部门（纯数据访问）
func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department *model.Department) error {
	department.CreatedAt = time.Now()
	department.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(department).Error
}

// GetDepartmentByID 根据ID获取部门(预加载用户和角色关联)
// 删除前的空部门检查依赖这里的预加载结果
func (r *DepartmentRepository) GetDepartmentByID(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Roles").
		First(&department, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "department_get", "GET", map[string]interface{}{
			"operation": "get_department_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &department, nil
}

// GetDepartmentsByIDs 根据ID列表批量获取部门
// 只返回命中的部门，缺失的ID由业务层对账
func (r *DepartmentRepository) GetDepartmentsByIDs(ctx context.Context, ids []uint) ([]*model.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var departments []*model.Department
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&departments).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "department_get", "GET", map[string]interface{}{
			"operation": "get_departments_by_ids",
			"ids":       ids,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return departments, nil
}

// GetActiveDepartmentByName 根据名称获取处于启用状态的部门
// 用于活跃名称唯一性检查，只看active=1的记录
func (r *DepartmentRepository) GetActiveDepartmentByName(ctx context.Context, name string) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Where("name = ? AND active = ?", name, model.DepartmentStatusEnabled).
		First(&department).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "department_get", "GET", map[string]interface{}{
			"operation": "get_active_department_by_name",
			"name":      name,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &department, nil
}

// ListDepartments 获取全部部门列表
func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	var departments []*model.Department
	err := r.db.WithContext(ctx).Order("id ASC").Find(&departments).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "department_list", "GET", map[string]interface{}{
			"operation": "list_departments",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return departments, nil
}

// UpdateDepartment 更新部门信息
func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, department *model.Department) error {
	department.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(department).Error
	if err != nil {
		// 记录更新失败日志
		logger.LogError(err, "", department.ID, "", "department_update", "PUT", map[string]interface{}{
			"operation": "update_department",
			"name":      department.Name,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// UpdateDepartmentFields 使用 map 更新部门特定字段
func (r *DepartmentRepository) UpdateDepartmentFields(ctx context.Context, departmentID uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&model.Department{}).
		Where("id = ?", departmentID).
		Updates(fields).Error
}
