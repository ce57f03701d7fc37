package respond

import (
	"strconv"

	"mentor_chat_server/internal/model"
)

// ReceiptRespond 已读回执
type ReceiptRespond struct {
	UserId   string `json:"userId"`
	UserRole string `json:"userModel"`
	ReadAt   string `json:"readAt"`
}

// MessageRespond 消息响应体
// 使用位置:
//   - internal/service/chat/router.go: receive-message / message-sent 事件
//   - internal/service/message/service.go: 历史消息查询
type MessageRespond struct {
	Id           string           `json:"id"`
	ChatRoom     string           `json:"chatRoom,omitempty"`
	Sender       string           `json:"sender"`
	SenderRole   string           `json:"senderModel"`
	Receiver     string           `json:"receiver,omitempty"`
	ReceiverRole string           `json:"receiverModel,omitempty"`
	Content      string           `json:"content"`
	MessageType  string           `json:"messageType"`
	FileUrl      string           `json:"fileUrl,omitempty"`
	IsRead       bool             `json:"isRead"`
	ReadBy       []ReceiptRespond `json:"readBy,omitempty"`
	CreatedAt    string           `json:"createdAt"`
}

// NewMessageRespond 从数据库模型构造响应体
// 雪花 ID 转为字符串，时间统一格式化
func NewMessageRespond(m *model.Message) MessageRespond {
	return MessageRespond{
		Id:           strconv.FormatInt(m.Uuid, 10),
		ChatRoom:     m.RoomUuid,
		Sender:       m.SenderId,
		SenderRole:   m.SenderRole,
		Receiver:     m.ReceiverId,
		ReceiverRole: m.ReceiverRole,
		Content:      m.Content,
		MessageType:  m.Type,
		FileUrl:      m.FileUrl,
		IsRead:       m.IsRead,
		CreatedAt:    m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
