package request

// CreatePrivateChatRequest 创建私聊请求
// 使用位置:
//   - internal/handler/chatroom_handler.go: CreatePrivateChatHandler
//   - internal/service/chatroom/service.go: CreatePrivateRoom
type CreatePrivateChatRequest struct {
	RecipientId   string `json:"recipientId" binding:"required"`
	RecipientRole string `json:"recipientModel" binding:"required,oneof=student mentor"`
}
