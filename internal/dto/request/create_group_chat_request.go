package request

// GroupParticipant 群聊初始成员
type GroupParticipant struct {
	UserId   string `json:"userId" binding:"required"`
	UserRole string `json:"userModel" binding:"required,oneof=student mentor"`
}

// CreateGroupChatRequest 创建群聊请求
// 使用位置:
//   - internal/handler/chatroom_handler.go: CreateGroupChatHandler
//   - internal/service/chat/router.go: handleCreateGroup (WebSocket create-group 事件)
type CreateGroupChatRequest struct {
	Name           string             `json:"name" binding:"required"`
	Description    string             `json:"description"`
	ParticipantIds []GroupParticipant `json:"participantIds" binding:"omitempty,dive"`
}
