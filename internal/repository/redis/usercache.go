/**
 * 用户仓库层:用户快照缓存访问
 * @author: sun977
 * @date: 2025.10.09
 * @description: 用户快照与验证码的Redis访问层(适合多实例部署)
 * @func:单纯数据访问,不应该包含业务逻辑
 * @note: 快照缓存只做读取加速,鉴权决策始终以MySQL为准
 */
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staffhub/internal/model"

	"github.com/go-redis/redis/v8"
)

// UserCacheRepository Redis用户缓存存储库
type UserCacheRepository struct {
	client *redis.Client
}

// NewUserCacheRepository 创建用户缓存存储库实例
func NewUserCacheRepository(client *redis.Client) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
	}
}

// StoreSnapshot 存储用户快照
func (r *UserCacheRepository) StoreSnapshot(ctx context.Context, userID uint, snapshot *model.UserSnapshot, expiration time.Duration) error {
	// 序列化快照数据
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}

	// 生成快照键
	snapshotKey := r.getSnapshotKey(userID)

	// 存储到Redis
	err = r.client.Set(ctx, snapshotKey, data, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to store user snapshot: %w", err)
	}

	return nil
}

// GetSnapshot 获取用户快照
// 未命中时返回 nil, nil，由业务层回源数据库
func (r *UserCacheRepository) GetSnapshot(ctx context.Context, userID uint) (*model.UserSnapshot, error) {
	// 生成快照键
	snapshotKey := r.getSnapshotKey(userID)

	// 从Redis获取数据
	data, err := r.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user snapshot: %w", err)
	}

	// 反序列化快照数据
	var snapshot model.UserSnapshot
	err = json.Unmarshal([]byte(data), &snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user snapshot: %w", err)
	}

	return &snapshot, nil
}

// DeleteSnapshot 删除用户快照
// 权限变更刷新协议的第一步:先失效,再写入新快照
func (r *UserCacheRepository) DeleteSnapshot(ctx context.Context, userID uint) error {
	// 生成快照键
	snapshotKey := r.getSnapshotKey(userID)

	// 从Redis删除
	err := r.client.Del(ctx, snapshotKey).Err()
	if err != nil {
		return fmt.Errorf("failed to delete user snapshot: %w", err)
	}

	return nil
}

// StoreVerifyCode 存储短信验证码
func (r *UserCacheRepository) StoreVerifyCode(ctx context.Context, phone, code string, expiration time.Duration) error {
	codeKey := r.getVerifyCodeKey(phone)

	err := r.client.Set(ctx, codeKey, code, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to store verify code: %w", err)
	}

	return nil
}

// GetVerifyCode 获取短信验证码
// 未命中时返回空字符串，由业务层判定验证码无效
func (r *UserCacheRepository) GetVerifyCode(ctx context.Context, phone string) (string, error) {
	codeKey := r.getVerifyCodeKey(phone)

	code, err := r.client.Get(ctx, codeKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get verify code: %w", err)
	}

	return code, nil
}

// DeleteVerifyCode 删除短信验证码(校验通过后一次性消费)
func (r *UserCacheRepository) DeleteVerifyCode(ctx context.Context, phone string) error {
	codeKey := r.getVerifyCodeKey(phone)

	err := r.client.Del(ctx, codeKey).Err()
	if err != nil {
		return fmt.Errorf("failed to delete verify code: %w", err)
	}

	return nil
}

// Ping 检查Redis连接状态
func (r *UserCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 关闭Redis连接
func (r *UserCacheRepository) Close() error {
	return r.client.Close()
}

// getSnapshotKey 生成用户快照键[KEY:user:{userID}]
func (r *UserCacheRepository) getSnapshotKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// getVerifyCodeKey 生成验证码键[KEY:verify:code:{phone}]
func (r *UserCacheRepository) getVerifyCodeKey(phone string) string {
	return fmt.Sprintf("verify:code:%s", phone)
}
