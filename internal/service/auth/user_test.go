/*
 * 服务层测试:用户服务
 * @author: sun977
 * @date: 2025.10.09
 * @description: 注册、登录、注销、角色分配与快照刷新测试
 */
package auth

import (
	"context"
	"fmt"
	"testing"

	"staffhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 先发送验证码
	require.NoError(t, env.userService.SendVerifyCode(ctx, "13700001111"))
	code := env.sender.code
	require.Len(t, code, 6)

	resp, err := env.userService.Register(ctx, &model.RegisterRequest{
		Phone:         "13700001111",
		Username:      "newbie",
		Password:      "pass66",
		PasswordAgain: "pass66",
		VerifyCode:    code,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	// 令牌subject是新用户ID
	userID, err := env.tokenManager.SubjectOf(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	// 验证码被一次性消费
	stored, _ := env.cache.GetVerifyCode(ctx, "13700001111")
	assert.Empty(t, stored)

	// 注册后可以直接密码登录
	login, err := env.userService.LoginWithPassword(ctx, &model.LoginRequest{
		Account:  "13700001111",
		Password: "pass66",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	env := newTestEnv()

	_, err := env.userService.Register(context.Background(), &model.RegisterRequest{
		Phone:         "13700002222",
		Username:      "mismatch",
		Password:      "pass66",
		PasswordAgain: "pass77",
		VerifyCode:    "123456",
	})
	assert.Error(t, err)
}

func TestRegisterWrongVerifyCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	require.NoError(t, env.cache.StoreVerifyCode(ctx, "13700003333", "111111", 0))

	_, err := env.userService.Register(ctx, &model.RegisterRequest{
		Phone:         "13700003333",
		Username:      "badcode",
		Password:      "pass66",
		PasswordAgain: "pass66",
		VerifyCode:    "222222",
	})
	assert.ErrorIs(t, err, model.ErrInvalidVerifyCode)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser(t, "existing", "13700004444", "pass66")
	require.NoError(t, env.cache.StoreVerifyCode(ctx, "13700004444", "111111", 0))

	_, err := env.userService.Register(ctx, &model.RegisterRequest{
		Phone:         "13700004444",
		Username:      "someone-else",
		Password:      "pass66",
		PasswordAgain: "pass66",
		VerifyCode:    "111111",
	})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv()
	env.addUser(t, "victim", "13700005555", "pass66")

	resp, err := env.userService.LoginWithPassword(context.Background(), &model.LoginRequest{
		Account:  "13700005555",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredential)
	assert.Nil(t, resp)
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(t, "banned", "13700006666", "pass66")
	user.LoginPermission = model.LoginForbidden

	// 凭证正确但被禁止登录,返回的错误区别于凭证错误
	_, err := env.userService.LoginWithPassword(context.Background(), &model.LoginRequest{
		Account:  "13700006666",
		Password: "pass66",
	})
	assert.ErrorIs(t, err, model.ErrAccountDisabled)
}

func TestLoginAsAdminRequiresAdminRole(t *testing.T) {
	env := newTestEnv()
	role := env.addRole(t, "operator", model.RoleStatusEnabled)
	env.addUser(t, "plain", "13700007777", "pass66", role)

	isAdmin := true
	_, err := env.userService.LoginWithPassword(context.Background(), &model.LoginRequest{
		Account:  "13700007777",
		Password: "pass66",
		IsAdmin:  &isAdmin,
	})
	assert.ErrorIs(t, err, model.ErrNoAdminPrivilege)
}

func TestLoginAsAdminRequiresLiteralAdminRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	isAdmin := true

	// 名称特征命中管理员但不是字面量admin角色,不能以管理员身份登录
	heuristicRole := env.addRole(t, "系统管理员", model.RoleStatusEnabled)
	env.addUser(t, "named-admin", "13700007788", "pass66", heuristicRole)
	_, err := env.userService.LoginWithPassword(ctx, &model.LoginRequest{
		Account:  "13700007788",
		Password: "pass66",
		IsAdmin:  &isAdmin,
	})
	assert.ErrorIs(t, err, model.ErrNoAdminPrivilege)

	// 字面量admin角色可以
	adminRole := env.addRole(t, "admin", model.RoleStatusEnabled)
	env.addUser(t, "real-admin", "13700007799", "pass66", adminRole)
	resp, err := env.userService.LoginWithPassword(ctx, &model.LoginRequest{
		Account:  "13700007799",
		Password: "pass66",
		IsAdmin:  &isAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginWithCodeConsumesCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addUser(t, "coder", "13700008888", "pass66")
	require.NoError(t, env.cache.StoreVerifyCode(ctx, "13700008888", "654321", 0))

	resp, err := env.userService.LoginWithCode(ctx, &model.VerifyLoginRequest{
		Phone:      "13700008888",
		VerifyCode: "654321",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// 同一个验证码不能再次登录
	_, err = env.userService.LoginWithCode(ctx, &model.VerifyLoginRequest{
		Phone:      "13700008888",
		VerifyCode: "654321",
	})
	assert.ErrorIs(t, err, model.ErrInvalidVerifyCode)
}

func TestSnapshotRefreshDeletesBeforeStore(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(t, "cached", "13700009999", "pass66")

	_, err := env.userService.LoginWithPassword(context.Background(), &model.LoginRequest{
		Account:  "13700009999",
		Password: "pass66",
	})
	require.NoError(t, err)

	// 刷新协议:先删除旧快照,再写入新快照
	require.GreaterOrEqual(t, len(env.cache.ops), 2)
	assert.Equal(t, "delete:"+itoa(user.ID), env.cache.ops[0])
	assert.Equal(t, "store:"+itoa(user.ID), env.cache.ops[1])
}

func TestSnapshotRefreshSkipsStoreWhenDeleteFails(t *testing.T) {
	env := newTestEnv()
	env.addUser(t, "unlucky", "13710001111", "pass66")
	env.cache.failDelete = true

	// 缓存故障不阻断登录
	resp, err := env.userService.LoginWithPassword(context.Background(), &model.LoginRequest{
		Account:  "13710001111",
		Password: "pass66",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// 删除失败时不能写入新快照,否则可能留下过期状态
	for _, op := range env.cache.ops {
		assert.NotContains(t, op, "store:")
	}
}

func TestGetUserInfoByTokenPrefersSnapshot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser(t, "fresh", "13710002222", "pass66")
	token := env.tokenFor(t, user)

	// 首次查询未命中缓存,回源数据库并重建快照
	info, err := env.userService.GetUserInfoByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "fresh", info.Username)
	require.NotNil(t, env.cache.snapshots[user.ID])

	// 篡改快照以证明第二次读取来自缓存
	env.cache.snapshots[user.ID].Username = "stale-name"
	info, err = env.userService.GetUserInfoByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "stale-name", info.Username)
}

func TestDeleteUserRefusesAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	adminRole := env.addRole(t, "admin", model.RoleStatusEnabled)
	admin := env.addUser(t, "root", "13710003333", "pass66", adminRole)
	token := env.tokenFor(t, admin)

	deleted, err := env.userService.DeleteUser(ctx, token)
	require.NoError(t, err)
	assert.False(t, deleted)

	// 管理员账号仍然存在
	still, _ := env.users.GetUserByID(ctx, admin.ID)
	assert.NotNil(t, still)
}

func TestDeleteUserLiteralAdminRule(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 删除保护只看字面量admin角色:名称只是包含admin子串的账号可以注销
	assistantRole := env.addRole(t, "administrative-assistant", model.RoleStatusEnabled)
	assistant := env.addUser(t, "assistant", "13710003344", "pass66", assistantRole)
	deleted, err := env.userService.DeleteUser(ctx, env.tokenFor(t, assistant))
	require.NoError(t, err)
	assert.True(t, deleted)

	// 字面量admin角色即使被禁用也拒绝注销
	inactiveAdmin := env.addRole(t, "admin", model.RoleStatusDisabled)
	holder := env.addUser(t, "dormant", "13710003355", "pass66", inactiveAdmin)
	deleted, err = env.userService.DeleteUser(ctx, env.tokenFor(t, holder))
	require.NoError(t, err)
	assert.False(t, deleted)

	still, _ := env.users.GetUserByID(ctx, holder.ID)
	assert.NotNil(t, still)
}

func TestDeleteUserRemovesAccountAndSnapshot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser(t, "leaver", "13710004444", "pass66")
	token := env.tokenFor(t, user)
	env.cache.snapshots[user.ID] = model.NewUserSnapshot(user)

	deleted, err := env.userService.DeleteUser(ctx, token)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, _ := env.users.GetUserByID(ctx, user.ID)
	assert.Nil(t, gone)
	assert.Nil(t, env.cache.snapshots[user.ID])

	// 已删除用户的令牌不再可用
	_, err = env.userService.DeleteUser(ctx, token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestUpdateLoginPermission(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	token := env.adminToken(t)
	target := env.addUser(t, "target", "13710005555", "pass66")

	err := env.userService.UpdateLoginPermission(ctx, &model.UpdateLoginPermissionRequest{
		Token:           token,
		TargetPhone:     target.Phone,
		LoginPermission: model.LoginForbidden,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LoginForbidden, target.LoginPermission)
}

func TestUpdateLoginPermissionRefusesAdminTarget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	token := env.adminToken(t)
	adminRole2 := env.addRole(t, "超级管理员", model.RoleStatusEnabled)
	otherAdmin := env.addUser(t, "admin2", "13710006666", "pass66", adminRole2)

	err := env.userService.UpdateLoginPermission(ctx, &model.UpdateLoginPermissionRequest{
		Token:           token,
		TargetPhone:     otherAdmin.Phone,
		LoginPermission: model.LoginForbidden,
	})
	assert.ErrorIs(t, err, model.ErrAdminLoginPermission)
}

func TestUpdateLoginPermissionRequiresAdminCaller(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	plain := env.addUser(t, "nobody", "13710007777", "pass66")
	target := env.addUser(t, "target2", "13710008888", "pass66")

	err := env.userService.UpdateLoginPermission(ctx, &model.UpdateLoginPermissionRequest{
		Token:           env.tokenFor(t, plain),
		TargetPhone:     target.Phone,
		LoginPermission: model.LoginForbidden,
	})
	assert.ErrorIs(t, err, model.ErrNoRoles)
}

func TestAssignRolesCollectsAllInvalidIDs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	token := env.adminToken(t)
	target := env.addUser(t, "assignee", "13710009999", "pass66")
	valid := env.addRole(t, "editor", model.RoleStatusEnabled)

	err := env.userService.AssignRoles(ctx, &model.AssignRolesRequest{
		Token:       token,
		TargetPhone: target.Phone,
		RoleIDs:     []uint{valid.ID, 999, 1000},
	})
	require.Error(t, err)

	// 响应携带全部不存在的ID
	var bizErr *model.Error
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, model.KindConflict, bizErr.Kind)
	assert.ElementsMatch(t, []uint{999, 1000}, bizErr.IDs)

	// 全量校验失败时不做任何变更
	assert.Empty(t, target.Roles)
}

func TestAssignRolesAcceptsDisabledRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	token := env.adminToken(t)
	target := env.addUser(t, "patient", "13710009988", "pass66")
	disabled := env.addRole(t, "retired", model.RoleStatusDisabled)

	// 分配只校验角色存在,禁用的角色也可以挂到用户上
	err := env.userService.AssignRoles(ctx, &model.AssignRolesRequest{
		Token:       token,
		TargetPhone: target.Phone,
		RoleIDs:     []uint{disabled.ID},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{disabled.ID}, target.RoleIDs())
}

func TestAssignRolesMergesWithExisting(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	token := env.adminToken(t)
	existing := env.addRole(t, "viewer", model.RoleStatusEnabled)
	target := env.addUser(t, "merger", "13720001111", "pass66", existing)
	newRole := env.addRole(t, "writer", model.RoleStatusEnabled)

	err := env.userService.AssignRoles(ctx, &model.AssignRolesRequest{
		Token:       token,
		TargetPhone: target.Phone,
		RoleIDs:     []uint{newRole.ID, existing.ID}, // 已持有的角色重复分配不报错
	})
	require.NoError(t, err)

	ids := target.RoleIDs()
	assert.ElementsMatch(t, []uint{existing.ID, newRole.ID}, ids)
}

func TestRemoveRolesPermissive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	token := env.adminToken(t)
	held := env.addRole(t, "held", model.RoleStatusEnabled)
	notHeld := env.addRole(t, "not-held", model.RoleStatusEnabled)
	target := env.addUser(t, "remover", "13720002222", "pass66", held)

	// 部分命中:只移除实际持有的
	err := env.userService.RemoveRoles(ctx, &model.RemoveRolesRequest{
		Token:       token,
		TargetPhone: target.Phone,
		RoleIDs:     []uint{held.ID, notHeld.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, target.Roles)

	// 角色在库里存在但用户未持有,按无事发生处理
	err = env.userService.RemoveRoles(ctx, &model.RemoveRolesRequest{
		Token:       token,
		TargetPhone: target.Phone,
		RoleIDs:     []uint{notHeld.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, target.Roles)

	// 请求里没有任何一个能在库里解析出来的角色才报错
	err = env.userService.RemoveRoles(ctx, &model.RemoveRolesRequest{
		Token:       token,
		TargetPhone: target.Phone,
		RoleIDs:     []uint{999, 1000},
	})
	assert.ErrorIs(t, err, model.ErrNoRolesToRemove)
}

func TestGetUserRolePermissionAggregates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	activePerm := env.addPermission(t, "user:read", model.PermissionStatusEnabled)
	inactivePerm := env.addPermission(t, "user:write", model.PermissionStatusDisabled)
	role := env.addRole(t, "reader", model.RoleStatusEnabled, activePerm, inactivePerm)
	disabledRole := env.addRole(t, "ghost", model.RoleStatusDisabled)
	user := env.addUser(t, "aggregated", "13720003333", "pass66", role, disabledRole)

	view, err := env.userService.GetUserRolePermission(ctx, env.tokenFor(t, user))
	require.NoError(t, err)

	assert.Equal(t, user.ID, view.UserInfo["uid"])
	require.Len(t, view.Roles, 1) // 禁用角色不出现
	perms := view.Roles[0]["permissions"].([]map[string]interface{})
	require.Len(t, perms, 1) // 禁用权限不出现
	assert.Equal(t, "user:read", perms[0]["name"])
}

func TestGetAllUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	plain := env.addUser(t, "curious", "13720004444", "pass66")

	_, err := env.userService.GetAllUsers(ctx, env.tokenFor(t, plain), "")
	assert.ErrorIs(t, err, model.ErrNoRoles)

	token := env.adminToken(t)
	users, err := env.userService.GetAllUsers(ctx, token, "")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
