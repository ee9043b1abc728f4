package redis

import (
	"context"
	"testing"
	"time"

	"staffhub/internal/model"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepository 基于miniredis构建缓存仓库
func newTestRepository(t *testing.T) (*UserCacheRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewUserCacheRepository(client), mr
}

// TestSnapshotRoundTrip 测试快照写入和读取
func TestSnapshotRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	snapshot := &model.UserSnapshot{
		UserID:          42,
		Username:        "alice",
		Phone:           "13800000001",
		LoginPermission: model.LoginAllowed,
		Roles: []model.SnapshotRole{
			{ID: 1, Name: "admin", Active: model.RoleStatusEnabled},
		},
		CachedAt: time.Now(),
	}

	err := repo.StoreSnapshot(ctx, 42, snapshot, 24*time.Hour)
	require.NoError(t, err)

	got, err := repo.GetSnapshot(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, uint(42), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Len(t, got.Roles, 1)
	assert.Equal(t, "admin", got.Roles[0].Name)
	assert.True(t, got.HasRole("admin"))
}

// TestSnapshotMissReturnsNil 测试缓存未命中返回nil
func TestSnapshotMissReturnsNil(t *testing.T) {
	repo, _ := newTestRepository(t)

	got, err := repo.GetSnapshot(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestSnapshotKeyFormat 测试快照键格式
func TestSnapshotKeyFormat(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	snapshot := &model.UserSnapshot{UserID: 7, Username: "bob"}
	require.NoError(t, repo.StoreSnapshot(ctx, 7, snapshot, time.Hour))

	// 键格式固定为 user:{id}
	assert.True(t, mr.Exists("user:7"))
}

// TestDeleteSnapshot 测试快照删除
func TestDeleteSnapshot(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	snapshot := &model.UserSnapshot{UserID: 7, Username: "bob"}
	require.NoError(t, repo.StoreSnapshot(ctx, 7, snapshot, time.Hour))
	require.True(t, mr.Exists("user:7"))

	require.NoError(t, repo.DeleteSnapshot(ctx, 7))
	assert.False(t, mr.Exists("user:7"))

	// 删除不存在的快照不报错
	assert.NoError(t, repo.DeleteSnapshot(ctx, 7))
}

// TestSnapshotExpiration 测试快照过期
func TestSnapshotExpiration(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	snapshot := &model.UserSnapshot{UserID: 7, Username: "bob"}
	require.NoError(t, repo.StoreSnapshot(ctx, 7, snapshot, time.Minute))

	// 推进时钟超过过期时间
	mr.FastForward(2 * time.Minute)

	got, err := repo.GetSnapshot(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestVerifyCodeRoundTrip 测试验证码写入、读取与消费
func TestVerifyCodeRoundTrip(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreVerifyCode(ctx, "13800000001", "123456", 5*time.Minute))
	assert.True(t, mr.Exists("verify:code:13800000001"))

	code, err := repo.GetVerifyCode(ctx, "13800000001")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	// 消费后不能再次读取
	require.NoError(t, repo.DeleteVerifyCode(ctx, "13800000001"))
	code, err = repo.GetVerifyCode(ctx, "13800000001")
	require.NoError(t, err)
	assert.Empty(t, code)
}

// TestVerifyCodeExpiration 测试验证码过期
func TestVerifyCodeExpiration(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreVerifyCode(ctx, "13800000001", "123456", 5*time.Minute))
	mr.FastForward(6 * time.Minute)

	code, err := repo.GetVerifyCode(ctx, "13800000001")
	require.NoError(t, err)
	assert.Empty(t, code)
}
