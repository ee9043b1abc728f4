/*
 * 服务层:部门业务逻辑
 * @author: sun977
 * @date: 2025.10.09
 * @description: 部门创建、删除与用户部门关联业务逻辑
 * @func:
 * 1.创建部门(活跃名称唯一)
 * 2.删除部门(逻辑删除,要求部门为空)
 * 3.用户部门分配(主部门隐式加入)
 * 4.用户部门移除(移除主部门时清空主部门标记)
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/pkg/logger"
)

// DepartmentService 部门服务
type DepartmentService struct {
	departmentStore DepartmentStore  // 部门存储
	userStore       UserStore        // 用户存储
	cache           SnapshotCache    // 快照缓存
	resolver        *ResolverService // 身份解析服务
	snapshotTTL     time.Duration    // 快照过期时间
}

// NewDepartmentService 创建部门服务实例
func NewDepartmentService(
	departmentStore DepartmentStore,
	userStore UserStore,
	cache SnapshotCache,
	resolver *ResolverService,
	snapshotTTL time.Duration,
) *DepartmentService {
	return &DepartmentService{
		departmentStore: departmentStore,
		userStore:       userStore,
		cache:           cache,
		resolver:        resolver,
		snapshotTTL:     snapshotTTL,
	}
}

// CreateDepartment 创建部门
// 同名检查只针对处于启用状态的部门
func (s *DepartmentService) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	if req == nil {
		return nil, errors.New("请求不能为空")
	}
	if req.Name == "" {
		return nil, errors.New("部门名称不能为空")
	}

	// 定位并校验操作者
	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return nil, err
	}

	// 活跃名称唯一性检查
	existing, err := s.departmentStore.GetActiveDepartmentByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrDepartmentNameExists
	}

	department := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		Active:      model.DepartmentStatusEnabled,
	}
	if err := s.departmentStore.CreateDepartment(ctx, department); err != nil {
		logger.LogError(err, "", caller.ID, "", "department_create", "POST", map[string]interface{}{
			"operation": "create_department",
			"name":      req.Name,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("创建部门失败: %w", err)
	}

	logger.LogBusinessOperation("create_department", caller.ID, caller.Username, "", "", "success", "部门创建成功", map[string]interface{}{
		"department_id": department.ID,
		"name":          department.Name,
		"timestamp":     logger.NowFormatted(),
	})

	return department, nil
}

// DeleteDepartment 删除部门(逻辑删除)
// 部门中仍存在用户或角色关联时拒绝删除
func (s *DepartmentService) DeleteDepartment(ctx context.Context, req *model.DepartmentActionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	department, err := s.departmentStore.GetDepartmentByID(ctx, req.DepartmentID)
	if err != nil {
		return err
	}
	if department == nil {
		return model.ErrDepartmentNotFound
	}
	if !department.IsActive() {
		return model.ErrDepartmentDisabled
	}

	// 引用完整性:部门必须为空才能删除
	if !department.IsEmpty() {
		return model.ErrDepartmentNotEmpty
	}

	if err := s.departmentStore.UpdateDepartmentFields(ctx, department.ID, map[string]interface{}{
		"active": model.DepartmentStatusDisabled,
	}); err != nil {
		return fmt.Errorf("删除部门失败: %w", err)
	}

	logger.LogBusinessOperation("delete_department", caller.ID, caller.Username, "", "", "success", "部门删除成功", map[string]interface{}{
		"department_id": department.ID,
		"name":          department.Name,
		"timestamp":     logger.NowFormatted(),
	})

	return nil
}

// EnableDepartment 恢复部门
// 恢复前检查是否已有同名的活跃部门
func (s *DepartmentService) EnableDepartment(ctx context.Context, req *model.DepartmentActionRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	department, err := s.departmentStore.GetDepartmentByID(ctx, req.DepartmentID)
	if err != nil {
		return err
	}
	if department == nil {
		return model.ErrDepartmentNotFound
	}
	if department.IsActive() {
		return model.ErrAlreadyEnabled
	}

	// 活跃名称冲突检查
	existing, err := s.departmentStore.GetActiveDepartmentByName(ctx, department.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return model.ErrDepartmentNameExists
	}

	if err := s.departmentStore.UpdateDepartmentFields(ctx, department.ID, map[string]interface{}{
		"active": model.DepartmentStatusEnabled,
	}); err != nil {
		return fmt.Errorf("恢复部门失败: %w", err)
	}

	logger.LogBusinessOperation("enable_department", caller.ID, caller.Username, "", "", "success", "部门恢复成功", map[string]interface{}{
		"department_id": department.ID,
		"name":          department.Name,
		"timestamp":     logger.NowFormatted(),
	})

	return nil
}

// AssignUserToDepartment 为用户分配部门(全量校验)
// 指定主部门时,主部门即使不在部门ID列表中也会被隐式加入
func (s *DepartmentService) AssignUserToDepartment(ctx context.Context, req *model.AssignUserToDepartmentRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}
	if len(req.DepartmentIDs) == 0 && req.PrimaryDeptID == nil {
		return errors.New("部门ID列表不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	// 定位目标用户(带部门关联)
	target, err := s.userStore.GetUserWithDepartments(ctx, req.TargetPhone)
	if err != nil {
		return err
	}
	if target == nil {
		return model.ErrUserNotFound
	}

	// 主部门不在列表中时隐式加入
	requestIDs := req.DepartmentIDs
	if req.PrimaryDeptID != nil {
		inList := false
		for _, id := range requestIDs {
			if id == *req.PrimaryDeptID {
				inList = true
				break
			}
		}
		if !inList {
			requestIDs = append(requestIDs, *req.PrimaryDeptID)
		}
	}

	// 全量校验:收集所有不存在的部门ID
	// 只校验存在性,逻辑删除的部门依然可以关联
	departments, err := s.departmentStore.GetDepartmentsByIDs(ctx, requestIDs)
	if err != nil {
		return err
	}
	found := make(map[uint]*model.Department, len(departments))
	for _, dept := range departments {
		found[dept.ID] = dept
	}

	var invalidIDs []uint
	for _, id := range requestIDs {
		if _, ok := found[id]; !ok {
			invalidIDs = append(invalidIDs, id)
		}
	}
	if len(invalidIDs) > 0 {
		return model.NewConflictIDs("部分部门不存在", invalidIDs)
	}

	// 合并现有部门与新部门
	merged := make([]*model.Department, 0, len(target.Departments)+len(departments))
	seen := make(map[uint]bool, len(target.Departments))
	for _, dept := range target.Departments {
		merged = append(merged, dept)
		seen[dept.ID] = true
	}
	for _, id := range requestIDs {
		if !seen[id] {
			merged = append(merged, found[id])
			seen[id] = true
		}
	}

	if err := s.userStore.ReplaceUserDepartments(ctx, target, merged); err != nil {
		return fmt.Errorf("分配部门失败: %w", err)
	}

	// 更新主部门标记
	if req.PrimaryDeptID != nil {
		if err := s.userStore.UpdateUserFields(ctx, target.ID, map[string]interface{}{
			"primary_dept_id": *req.PrimaryDeptID,
		}); err != nil {
			return fmt.Errorf("更新主部门失败: %w", err)
		}
		target.PrimaryDeptID = req.PrimaryDeptID
	}

	// 用户状态变更后刷新快照
	target.Departments = merged
	s.refreshSnapshot(ctx, target)

	logger.LogBusinessOperation("assign_user_department", caller.ID, caller.Username, "", "", "success", "用户部门分配成功", map[string]interface{}{
		"target_user_id": target.ID,
		"department_ids": requestIDs,
		"timestamp":      logger.NowFormatted(),
	})

	return nil
}

// RemoveUserFromDepartment 从部门移除用户
// 用户不在该部门时返回冲突错误;移除的是主部门时同时清空主部门标记
func (s *DepartmentService) RemoveUserFromDepartment(ctx context.Context, req *model.RemoveUserFromDepartmentRequest) error {
	if req == nil {
		return errors.New("请求不能为空")
	}

	caller, err := s.resolver.ResolveAdminCaller(ctx, req.Token, req.AdminPhone)
	if err != nil {
		return err
	}

	department, err := s.departmentStore.GetDepartmentByID(ctx, req.DepartmentID)
	if err != nil {
		return err
	}
	if department == nil {
		return model.ErrDepartmentNotFound
	}

	// 定位目标用户(带部门关联)
	target, err := s.userStore.GetUserWithDepartments(ctx, req.TargetPhone)
	if err != nil {
		return err
	}
	if target == nil {
		return model.ErrUserNotFound
	}

	remaining := make([]*model.Department, 0, len(target.Departments))
	removed := false
	for _, dept := range target.Departments {
		if dept.ID == req.DepartmentID {
			removed = true
			continue
		}
		remaining = append(remaining, dept)
	}

	// 用户不在该部门,移除集为空
	if !removed {
		return model.ErrUserNotInDepartment
	}

	if err := s.userStore.ReplaceUserDepartments(ctx, target, remaining); err != nil {
		return fmt.Errorf("移除部门失败: %w", err)
	}

	// 移除的是主部门时清空主部门标记
	if target.PrimaryDeptID != nil && *target.PrimaryDeptID == req.DepartmentID {
		if err := s.userStore.UpdateUserFields(ctx, target.ID, map[string]interface{}{
			"primary_dept_id": nil,
		}); err != nil {
			return fmt.Errorf("清空主部门失败: %w", err)
		}
		target.PrimaryDeptID = nil
	}

	// 用户状态变更后刷新快照
	target.Departments = remaining
	s.refreshSnapshot(ctx, target)

	logger.LogBusinessOperation("remove_user_department", caller.ID, caller.Username, "", "", "success", "用户部门移除成功", map[string]interface{}{
		"target_user_id": target.ID,
		"department_id":  req.DepartmentID,
		"timestamp":      logger.NowFormatted(),
	})

	return nil
}

// GetUserDepartments 获取用户所属的启用部门列表
func (s *DepartmentService) GetUserDepartments(ctx context.Context, phone string) ([]*model.Department, error) {
	if phone == "" {
		return nil, errors.New("手机号不能为空")
	}

	user, err := s.userStore.GetUserWithDepartments(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	departments := make([]*model.Department, 0, len(user.Departments))
	for _, dept := range user.Departments {
		if dept != nil && dept.IsActive() {
			departments = append(departments, dept)
		}
	}
	return departments, nil
}

// GetAllDepartments 获取全部部门列表(管理员操作)
func (s *DepartmentService) GetAllDepartments(ctx context.Context, token, adminPhone string) ([]*model.Department, error) {
	if _, err := s.resolver.ResolveAdminCaller(ctx, token, adminPhone); err != nil {
		return nil, err
	}
	return s.departmentStore.ListDepartments(ctx)
}

// refreshSnapshot 刷新用户快照
// 与用户服务遵循同一刷新协议:先删除旧快照,再写入新快照;
// 缓存失败只记录日志不阻断业务
func (s *DepartmentService) refreshSnapshot(ctx context.Context, user *model.User) {
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
