// presence.go
// 核心职责：在线状态广播
// 用户首条连接建立时广播上线，最后一条连接断开时广播离线
// 广播面向全体在线用户（发起者自身除外），尽力投递
package chat

import (
	"go.uber.org/zap"
)

// PresenceBroadcaster 在线状态广播器
type PresenceBroadcaster struct {
	registry *SessionRegistry
}

// NewPresenceBroadcaster 创建在线状态广播器
func NewPresenceBroadcaster(registry *SessionRegistry) *PresenceBroadcaster {
	return &PresenceBroadcaster{registry: registry}
}

// UserOnline 广播用户上线事件
func (p *PresenceBroadcaster) UserOnline(userId string) {
	zap.L().Info("用户上线", zap.String("user_id", userId))
	payload := ServerEvent(EventUserOnline, PresencePayload{UserId: userId})
	p.registry.BroadcastExcept(userId, payload)
}

// UserOffline 广播用户离线事件
func (p *PresenceBroadcaster) UserOffline(userId string) {
	zap.L().Info("用户离线", zap.String("user_id", userId))
	payload := ServerEvent(EventUserOffline, PresencePayload{UserId: userId})
	p.registry.BroadcastExcept(userId, payload)
}
