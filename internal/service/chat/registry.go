// Package chat 实现了聊天系统的实时核心
// registry.go
// 核心职责：会话注册表
// 维护 userId → 在线连接集合 的进程内映射
// 同一用户允许多端同时在线，消息向该用户的全部连接扇出；
// 新连接不会顶掉旧连接
// 进程重启后注册表为空，所有用户表现为离线，直到重新连接
package chat

import (
	"sync"
	"time"
)

// sessionEntry 单个用户的会话条目
type sessionEntry struct {
	role     string
	lastSeen time.Time
	conns    map[string]*UserConn // connId → 连接
}

// SessionRegistry 会话注册表
// 显式构造、按引用传递给各处理器，不做包级全局状态，
// 便于测试中创建多个相互隔离的实例
type SessionRegistry struct {
	mu    sync.RWMutex
	users map[string]*sessionEntry
}

// NewSessionRegistry 创建空的会话注册表
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		users: make(map[string]*sessionEntry),
	}
}

// Register 登记一条连接，返回该用户是否由离线转为在线
// 首条连接触发上线广播，后续多端连接不再重复广播
func (r *SessionRegistry) Register(c *UserConn) (first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[c.UserId]
	if !ok {
		entry = &sessionEntry{
			role:  c.Role,
			conns: make(map[string]*UserConn),
		}
		r.users[c.UserId] = entry
	}
	first = len(entry.conns) == 0
	entry.conns[c.ConnId] = c
	entry.lastSeen = time.Now()
	return first
}

// Remove 注销一条连接，返回该用户是否由在线转为离线
// 连接不存在时静默返回（断开可能与注册失败竞争）
func (r *SessionRegistry) Remove(c *UserConn) (last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[c.UserId]
	if !ok {
		return false
	}
	if _, ok := entry.conns[c.ConnId]; !ok {
		return false
	}
	delete(entry.conns, c.ConnId)
	entry.lastSeen = time.Now()
	if len(entry.conns) == 0 {
		delete(r.users, c.UserId)
		return true
	}
	return false
}

// Lookup 返回某用户的全部在线连接，离线返回空切片
func (r *SessionRegistry) Lookup(userId string) []*UserConn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userId]
	if !ok {
		return nil
	}
	conns := make([]*UserConn, 0, len(entry.conns))
	for _, c := range entry.conns {
		conns = append(conns, c)
	}
	return conns
}

// Get 按用户和连接 ID 精确查找一条连接
func (r *SessionRegistry) Get(userId, connId string) *UserConn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userId]
	if !ok {
		return nil
	}
	return entry.conns[connId]
}

// IsOnline 判断用户是否至少有一条在线连接
func (r *SessionRegistry) IsOnline(userId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userId]
	return ok && len(entry.conns) > 0
}

// LastSeen 返回该用户最近一次连接活动的时间
// 用户从未上线（或下线后条目已清除）时 ok 为 false
func (r *SessionRegistry) LastSeen(userId string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userId]
	if !ok {
		return time.Time{}, false
	}
	return entry.lastSeen, true
}

// OnlineCount 当前在线用户数
func (r *SessionRegistry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// BroadcastExcept 向除指定用户外的所有在线连接广播
// 尽力投递，不确认不重试
func (r *SessionRegistry) BroadcastExcept(exceptUserId string, payload []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for userId, entry := range r.users {
		if userId == exceptUserId {
			continue
		}
		for _, c := range entry.conns {
			c.Send(payload)
		}
	}
}
