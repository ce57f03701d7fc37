// Package chat 实现了聊天系统的实时核心
// events.go
// 核心职责：WebSocket 事件协议定义
// 客户端与服务端之间的所有实时通信都通过 {"event": ..., "data": ...}
// 信封承载；入站事件经服务端盖章后再进入消息代理
package chat

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 客户端 → 服务端事件
const (
	EventJoinRoom    = "join-room"    // 订阅房间广播组
	EventLeaveRoom   = "leave-room"   // 退订房间广播组
	EventSendMessage = "send-message" // 发送消息
	EventTyping      = "typing"       // 输入状态
	EventMarkRead    = "mark-read"    // 标记已读
	EventCreateGroup = "create-group" // 创建群聊
)

// 服务端 → 客户端事件
const (
	EventReceiveMessage = "receive-message" // 投递消息
	EventMessageSent    = "message-sent"    // 发送成功确认
	EventMessageError   = "message-error"   // 发送失败确认
	EventUserTyping     = "user-typing"     // 输入状态转发
	EventMessagesRead   = "messages-read"   // 已读确认
	EventUserOnline     = "user-online"     // 用户上线
	EventUserOffline    = "user-offline"    // 用户下线
	EventGroupCreated   = "group-created"   // 群聊创建完成
	EventGroupError     = "group-error"     // 群聊操作失败
)

// InboundEvent 客户端发来的原始事件
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Envelope 进入消息代理的事件信封
// SenderId / SenderRole 由服务端从认证连接上盖章，
// 客户端载荷中的任何身份声明一律被忽略
type Envelope struct {
	Event      string          `json:"event"`
	SenderId   string          `json:"senderId"`
	SenderRole string          `json:"senderRole"`
	ConnId     string          `json:"connId"`
	Data       json.RawMessage `json:"data"`
}

// ServerEvent 序列化一个服务端 → 客户端事件
// 序列化失败属于编程错误，记录日志并返回 nil（发送侧对 nil 安全）
func ServerEvent(name string, data any) []byte {
	payload, err := json.Marshal(InboundEvent{Event: name, Data: mustMarshal(data)})
	if err != nil {
		zap.L().Error("marshal server event failed", zap.String("event", name), zap.Error(err))
		return nil
	}
	return payload
}

func mustMarshal(data any) json.RawMessage {
	raw, err := json.Marshal(data)
	if err != nil {
		zap.L().Error("marshal event data failed", zap.Error(err))
		return json.RawMessage("null")
	}
	return raw
}

// ErrorPayload 错误确认事件载荷
type ErrorPayload struct {
	Error string `json:"error"`
}

// PresencePayload 上下线事件载荷
type PresencePayload struct {
	UserId string `json:"userId"`
}

// TypingPayload 输入状态转发载荷
type TypingPayload struct {
	Sender   string `json:"sender"`
	IsTyping bool   `json:"isTyping"`
}

// MessageSentPayload 发送成功确认载荷
type MessageSentPayload struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

// MessagesReadPayload 已读确认载荷
type MessagesReadPayload struct {
	Success    bool     `json:"success"`
	MessageIds []string `json:"messageIds"`
}
