/*
 * 服务层测试:内存存储实现
 * @author: sun977
 * @date: 2025.10.09
 * @description: 测试用的内存存储与缓存实现
 */
package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"staffhub/internal/model"
	pkgauth "staffhub/internal/pkg/auth"
)

// memoryUserStore 内存用户存储
type memoryUserStore struct {
	nextID uint
	users  map[uint]*model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[uint]*model.User)}
}

func (s *memoryUserStore) CreateUser(ctx context.Context, user *model.User) error {
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *memoryUserStore) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	return s.users[id], nil
}

func (s *memoryUserStore) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	for _, user := range s.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) GetUserWithDepartments(ctx context.Context, phone string) (*model.User, error) {
	return s.GetUserByPhone(ctx, phone)
}

func (s *memoryUserStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0, len(s.users))
	for id := uint(1); id <= s.nextID; id++ {
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *memoryUserStore) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *memoryUserStore) UpdateUserFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	for key, value := range fields {
		switch key {
		case "password":
			user.Password = value.(string)
		case "login_permission":
			user.LoginPermission = value.(model.LoginPermission)
		case "primary_dept_id":
			if value == nil {
				user.PrimaryDeptID = nil
			} else {
				id := value.(uint)
				user.PrimaryDeptID = &id
			}
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (s *memoryUserStore) ReplaceUserRoles(ctx context.Context, user *model.User, roles []*model.Role) error {
	user.Roles = roles
	user.UpdatedAt = time.Now()
	return nil
}

func (s *memoryUserStore) ReplaceUserDepartments(ctx context.Context, user *model.User, departments []*model.Department) error {
	user.Departments = departments
	user.UpdatedAt = time.Now()
	return nil
}

func (s *memoryUserStore) DeleteUser(ctx context.Context, user *model.User) error {
	delete(s.users, user.ID)
	return nil
}

// memoryRoleStore 内存角色存储
type memoryRoleStore struct {
	nextID uint
	roles  map[uint]*model.Role
}

func newMemoryRoleStore() *memoryRoleStore {
	return &memoryRoleStore{roles: make(map[uint]*model.Role)}
}

func (s *memoryRoleStore) CreateRole(ctx context.Context, role *model.Role) error {
	s.nextID++
	role.ID = s.nextID
	s.roles[role.ID] = role
	return nil
}

func (s *memoryRoleStore) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	return s.roles[id], nil
}

func (s *memoryRoleStore) GetRolesByIDs(ctx context.Context, ids []uint) ([]*model.Role, error) {
	roles := make([]*model.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := s.roles[id]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (s *memoryRoleStore) GetActiveRoleByName(ctx context.Context, name string) (*model.Role, error) {
	for _, role := range s.roles {
		if role.Name == name && role.IsActive() {
			return role, nil
		}
	}
	return nil, nil
}

func (s *memoryRoleStore) ListRoles(ctx context.Context) ([]*model.Role, error) {
	roles := make([]*model.Role, 0, len(s.roles))
	for id := uint(1); id <= s.nextID; id++ {
		if role, ok := s.roles[id]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (s *memoryRoleStore) UpdateRole(ctx context.Context, role *model.Role) error {
	s.roles[role.ID] = role
	return nil
}

func (s *memoryRoleStore) UpdateRoleFields(ctx context.Context, roleID uint, fields map[string]interface{}) error {
	role, ok := s.roles[roleID]
	if !ok {
		return fmt.Errorf("role %d not found", roleID)
	}
	if value, ok := fields["active"]; ok {
		role.Active = value.(model.RoleStatus)
	}
	return nil
}

func (s *memoryRoleStore) ReplaceRolePermissions(ctx context.Context, role *model.Role, permissions []*model.Permission) error {
	role.Permissions = permissions
	return nil
}

// memoryPermissionStore 内存权限存储
type memoryPermissionStore struct {
	nextID      uint
	permissions map[uint]*model.Permission
}

func newMemoryPermissionStore() *memoryPermissionStore {
	return &memoryPermissionStore{permissions: make(map[uint]*model.Permission)}
}

func (s *memoryPermissionStore) CreatePermission(ctx context.Context, permission *model.Permission) error {
	s.nextID++
	permission.ID = s.nextID
	s.permissions[permission.ID] = permission
	return nil
}

func (s *memoryPermissionStore) GetPermissionByID(ctx context.Context, id uint) (*model.Permission, error) {
	return s.permissions[id], nil
}

func (s *memoryPermissionStore) GetPermissionsByIDs(ctx context.Context, ids []uint) ([]*model.Permission, error) {
	permissions := make([]*model.Permission, 0, len(ids))
	for _, id := range ids {
		if permission, ok := s.permissions[id]; ok {
			permissions = append(permissions, permission)
		}
	}
	return permissions, nil
}

func (s *memoryPermissionStore) GetActivePermissionsByIDs(ctx context.Context, ids []uint) ([]*model.Permission, error) {
	permissions := make([]*model.Permission, 0, len(ids))
	for _, id := range ids {
		if permission, ok := s.permissions[id]; ok && permission.IsActive() {
			permissions = append(permissions, permission)
		}
	}
	return permissions, nil
}

func (s *memoryPermissionStore) GetActivePermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	for _, permission := range s.permissions {
		if permission.Name == name && permission.IsActive() {
			return permission, nil
		}
	}
	return nil, nil
}

func (s *memoryPermissionStore) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	permissions := make([]*model.Permission, 0, len(s.permissions))
	for id := uint(1); id <= s.nextID; id++ {
		if permission, ok := s.permissions[id]; ok {
			permissions = append(permissions, permission)
		}
	}
	return permissions, nil
}

func (s *memoryPermissionStore) UpdatePermission(ctx context.Context, permission *model.Permission) error {
	s.permissions[permission.ID] = permission
	return nil
}

func (s *memoryPermissionStore) UpdatePermissionFields(ctx context.Context, permissionID uint, fields map[string]interface{}) error {
	permission, ok := s.permissions[permissionID]
	if !ok {
		return fmt.Errorf("permission %d not found", permissionID)
	}
	if value, ok := fields["active"]; ok {
		permission.Active = value.(model.PermissionStatus)
	}
	return nil
}

// memoryDepartmentStore 内存部门存储
type memoryDepartmentStore struct {
	nextID      uint
	departments map[uint]*model.Department
}

func newMemoryDepartmentStore() *memoryDepartmentStore {
	return &memoryDepartmentStore{departments: make(map[uint]*model.Department)}
}

func (s *memoryDepartmentStore) CreateDepartment(ctx context.Context, department *model.Department) error {
	s.nextID++
	department.ID = s.nextID
	s.departments[department.ID] = department
	return nil
}

func (s *memoryDepartmentStore) GetDepartmentByID(ctx context.Context, id uint) (*model.Department, error) {
	return s.departments[id], nil
}

func (s *memoryDepartmentStore) GetDepartmentsByIDs(ctx context.Context, ids []uint) ([]*model.Department, error) {
	departments := make([]*model.Department, 0, len(ids))
	for _, id := range ids {
		if department, ok := s.departments[id]; ok {
			departments = append(departments, department)
		}
	}
	return departments, nil
}

func (s *memoryDepartmentStore) GetActiveDepartmentByName(ctx context.Context, name string) (*model.Department, error) {
	for _, department := range s.departments {
		if department.Name == name && department.IsActive() {
			return department, nil
		}
	}
	return nil, nil
}

func (s *memoryDepartmentStore) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	departments := make([]*model.Department, 0, len(s.departments))
	for id := uint(1); id <= s.nextID; id++ {
		if department, ok := s.departments[id]; ok {
			departments = append(departments, department)
		}
	}
	return departments, nil
}

func (s *memoryDepartmentStore) UpdateDepartment(ctx context.Context, department *model.Department) error {
	s.departments[department.ID] = department
	return nil
}

func (s *memoryDepartmentStore) UpdateDepartmentFields(ctx context.Context, departmentID uint, fields map[string]interface{}) error {
	department, ok := s.departments[departmentID]
	if !ok {
		return fmt.Errorf("department %d not found", departmentID)
	}
	if value, ok := fields["active"]; ok {
		department.Active = value.(model.DepartmentStatus)
	}
	return nil
}

// memoryCache 内存缓存
// ops记录快照操作顺序,用于校验先失效再写入的刷新协议
type memoryCache struct {
	snapshots  map[uint]*model.UserSnapshot
	codes      map[string]string
	ops        []string
	failDelete bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		snapshots: make(map[uint]*model.UserSnapshot),
		codes:     make(map[string]string),
	}
}

func (c *memoryCache) StoreSnapshot(ctx context.Context, userID uint, snapshot *model.UserSnapshot, expiration time.Duration) error {
	c.ops = append(c.ops, fmt.Sprintf("store:%d", userID))
	c.snapshots[userID] = snapshot
	return nil
}

func (c *memoryCache) GetSnapshot(ctx context.Context, userID uint) (*model.UserSnapshot, error) {
	return c.snapshots[userID], nil
}

func (c *memoryCache) DeleteSnapshot(ctx context.Context, userID uint) error {
	c.ops = append(c.ops, fmt.Sprintf("delete:%d", userID))
	if c.failDelete {
		return fmt.Errorf("cache unavailable")
	}
	delete(c.snapshots, userID)
	return nil
}

func (c *memoryCache) StoreVerifyCode(ctx context.Context, phone, code string, expiration time.Duration) error {
	c.codes[phone] = code
	return nil
}

func (c *memoryCache) GetVerifyCode(ctx context.Context, phone string) (string, error) {
	return c.codes[phone], nil
}

func (c *memoryCache) DeleteVerifyCode(ctx context.Context, phone string) error {
	delete(c.codes, phone)
	return nil
}

// recordingCodeSender 记录最近一次发送的验证码
type recordingCodeSender struct {
	phone string
	code  string
}

func (s *recordingCodeSender) SendVerifyCode(ctx context.Context, phone, code string) error {
	s.phone = phone
	s.code = code
	return nil
}

// testEnv 组装好全部服务的测试环境
type testEnv struct {
	users       *memoryUserStore
	roles       *memoryRoleStore
	permissions *memoryPermissionStore
	departments *memoryDepartmentStore
	cache       *memoryCache
	sender      *recordingCodeSender

	tokenManager *pkgauth.TokenManager
	passwordMgr  *pkgauth.PasswordManager

	resolver          *ResolverService
	userService       *UserService
	roleService       *RoleService
	permissionService *PermissionService
	departmentService *DepartmentService
}

func newTestEnv() *testEnv {
	users := newMemoryUserStore()
	roles := newMemoryRoleStore()
	permissions := newMemoryPermissionStore()
	departments := newMemoryDepartmentStore()
	cache := newMemoryCache()
	sender := &recordingCodeSender{}

	tokenManager := pkgauth.NewTokenManager("unit-test-secret-key-0123456789abcdef", "staffhub-test", time.Hour)
	// 低成本参数,避免argon2拖慢测试
	passwordMgr := pkgauth.NewPasswordManager(&pkgauth.PasswordConfig{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})

	resolver := NewResolverService(users, roles, tokenManager, passwordMgr)
	userService := NewUserService(
		users, roles, cache, sender, resolver,
		tokenManager, passwordMgr,
		time.Hour, 5*time.Minute, 6,
	)
	roleService := NewRoleService(roles, permissions, resolver)
	permissionService := NewPermissionService(permissions, resolver)
	departmentService := NewDepartmentService(departments, users, cache, resolver, time.Hour)

	return &testEnv{
		users:             users,
		roles:             roles,
		permissions:       permissions,
		departments:       departments,
		cache:             cache,
		sender:            sender,
		tokenManager:      tokenManager,
		passwordMgr:       passwordMgr,
		resolver:          resolver,
		userService:       userService,
		roleService:       roleService,
		permissionService: permissionService,
		departmentService: departmentService,
	}
}

// addUser 创建用户并关联角色
func (e *testEnv) addUser(t *testing.T, username, phone, password string, roles ...*model.Role) *model.User {
	t.Helper()
	hashed, err := e.passwordMgr.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Username:        username,
		Phone:           phone,
		Password:        hashed,
		LoginPermission: model.LoginAllowed,
		Roles:           roles,
	}
	if err := e.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// addRole 创建角色
func (e *testEnv) addRole(t *testing.T, name string, active model.RoleStatus, permissions ...*model.Permission) *model.Role {
	t.Helper()
	role := &model.Role{Name: name, Active: active, Permissions: permissions}
	if err := e.roles.CreateRole(context.Background(), role); err != nil {
		t.Fatalf("create role: %v", err)
	}
	return role
}

// addPermission 创建权限
func (e *testEnv) addPermission(t *testing.T, name string, active model.PermissionStatus) *model.Permission {
	t.Helper()
	permission := &model.Permission{Name: name, Active: active}
	if err := e.permissions.CreatePermission(context.Background(), permission); err != nil {
		t.Fatalf("create permission: %v", err)
	}
	return permission
}

// addDepartment 创建部门
func (e *testEnv) addDepartment(t *testing.T, name string, active model.DepartmentStatus) *model.Department {
	t.Helper()
	department := &model.Department{Name: name, Active: active}
	if err := e.departments.CreateDepartment(context.Background(), department); err != nil {
		t.Fatalf("create department: %v", err)
	}
	return department
}

// adminToken 创建管理员用户并返回其令牌
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	adminRole := e.addRole(t, "admin", model.RoleStatusEnabled)
	admin := e.addUser(t, "sysadmin", "13800000000", "admin123", adminRole)
	return e.tokenFor(t, admin)
}

// tokenFor 为用户签发令牌
func (e *testEnv) tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := e.tokenManager.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}
