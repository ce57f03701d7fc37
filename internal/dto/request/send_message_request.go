package request

// SendMessageRequest 发送消息请求 (WebSocket send-message 事件和 HTTP /send 共用)
// receiver 与 receiverId 是历史遗留的别名字段，chatRoom 与 chatRoomId 同理；
// 统一通过 ResolveReceiver / ResolveRoom 归一化，业务代码不得直接读取别名字段
type SendMessageRequest struct {
	Receiver     string `json:"receiver"`
	ReceiverId   string `json:"receiverId"`
	ReceiverRole string `json:"receiverModel"`
	ChatRoom     string `json:"chatRoom"`
	ChatRoomId   string `json:"chatRoomId"`
	Content      string `json:"content" binding:"required"`
	MessageType  string `json:"messageType"`
	FileUrl      string `json:"fileUrl"`
}

// ResolveReceiver 归一化接收者别名，receiverId 优先
func (r *SendMessageRequest) ResolveReceiver() string {
	if r.ReceiverId != "" {
		return r.ReceiverId
	}
	return r.Receiver
}

// ResolveRoom 归一化房间别名，chatRoom 优先
func (r *SendMessageRequest) ResolveRoom() string {
	if r.ChatRoom != "" {
		return r.ChatRoom
	}
	return r.ChatRoomId
}
