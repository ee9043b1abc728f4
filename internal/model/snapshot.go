/**
 * 模型:用户快照模型
 * @author: sun977
 * @date: 2025.10.09
 * @description: 会话缓存中的用户状态快照(反规范化副本)
 * @func: UserSnapshot 结构体定义
 */
package model

import (
	"time"
)

// UserSnapshot 用户状态快照
// 缓存仅用于读取加速,鉴权决策始终以实体存储为准;
// 任何影响权限的变更都必须先失效再写入新快照(见用户服务的刷新协议)
type UserSnapshot struct {
	UserID          uint            `json:"user_id"`          // 用户ID
	Username        string          `json:"uname"`            // 用户名
	Phone           string          `json:"phonenum"`         // 手机号码
	LoginPermission LoginPermission `json:"login_permission"` // 登录权限
	AdminPermission int             `json:"admin_permission"` // 历史管理员标记
	Roles           []SnapshotRole  `json:"roles"`            // 角色集合的反规范化副本
	CreatedAt       time.Time       `json:"create_time"`      // 用户创建时间
	UpdatedAt       time.Time       `json:"update_time"`      // 用户更新时间
	CachedAt        time.Time       `json:"cached_at"`        // 快照写入时间
}

// SnapshotRole 快照中的角色条目
type SnapshotRole struct {
	ID     uint       `json:"id"`     // 角色ID
	Name   string     `json:"name"`   // 角色名称
	Active RoleStatus `json:"active"` // 角色状态
}

// NewUserSnapshot 基于用户实体构建快照
func NewUserSnapshot(user *User) *UserSnapshot {
	snapshot := &UserSnapshot{
		UserID:          user.ID,
		Username:        user.Username,
		Phone:           user.Phone,
		LoginPermission: user.LoginPermission,
		AdminPermission: user.AdminPermission,
		Roles:           make([]SnapshotRole, 0, len(user.Roles)),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		CachedAt:        time.Now(),
	}
	for _, role := range user.Roles {
		snapshot.Roles = append(snapshot.Roles, SnapshotRole{
			ID:     role.ID,
			Name:   role.Name,
			Active: role.Active,
		})
	}
	return snapshot
}

// HasRole 检查快照用户是否拥有指定名称的角色
func (s *UserSnapshot) HasRole(roleName string) bool {
	for _, role := range s.Roles {
		if role.Name == roleName {
			return true
		}
	}
	return false
}
