// 本文件定义 Handler 聚合结构和构造函数
// 通过构造函数注入 Service 依赖
package handler

import (
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/internal/service/chatroom"
	"mentor_chat_server/internal/service/message"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	ChatRoom *ChatRoomHandler
	Message  *MessageHandler
	Ws       *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(roomSvc *chatroom.Service, msgSvc *message.Service, chatSrv *chat.ChatServer) *Handlers {
	return &Handlers{
		ChatRoom: NewChatRoomHandler(roomSvc),
		Message:  NewMessageHandler(msgSvc),
		Ws:       NewWsHandler(chatSrv),
	}
}
