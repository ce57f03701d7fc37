// rooms.go
// 核心职责：房间成员管理
// 维护 房间标识 → 连接集合 的广播映射
// 房间标识既可以是群聊房间的 uuid，也可以是私聊双方排序后拼接的频道键
// 加入/退出只影响广播可达性，不改变数据库中的持久成员关系
package chat

import (
	"sync"
)

// RoomManager 房间广播管理器
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*UserConn // roomId → connId → 连接
}

// NewRoomManager 创建空的房间管理器
func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]map[string]*UserConn),
	}
}

// Join 将连接加入房间的广播集合
// 重复加入是无操作，同一用户的不同连接各自独立加入
func (m *RoomManager) Join(roomId string, c *UserConn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns, ok := m.rooms[roomId]
	if !ok {
		conns = make(map[string]*UserConn)
		m.rooms[roomId] = conns
	}
	conns[c.ConnId] = c
}

// Leave 将连接移出房间的广播集合
// 不在房间内时静默返回
func (m *RoomManager) Leave(roomId string, c *UserConn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns, ok := m.rooms[roomId]
	if !ok {
		return
	}
	delete(conns, c.ConnId)
	if len(conns) == 0 {
		delete(m.rooms, roomId)
	}
}

// LeaveAll 将连接移出其加入的所有房间，断开时调用
func (m *RoomManager) LeaveAll(c *UserConn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for roomId, conns := range m.rooms {
		delete(conns, c.ConnId)
		if len(conns) == 0 {
			delete(m.rooms, roomId)
		}
	}
}

// Contains 判断连接是否在房间的广播集合内
func (m *RoomManager) Contains(roomId, connId string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns, ok := m.rooms[roomId]
	if !ok {
		return false
	}
	_, ok = conns[connId]
	return ok
}

// MemberCount 房间当前的广播连接数
func (m *RoomManager) MemberCount(roomId string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomId])
}

// Broadcast 向房间内除指定连接外的所有连接投递
// exceptConnId 为空时全量投递
func (m *RoomManager) Broadcast(roomId string, payload []byte, exceptConnId string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for connId, c := range m.rooms[roomId] {
		if connId == exceptConnId {
			continue
		}
		c.Send(payload)
	}
}
