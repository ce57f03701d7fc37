package request

// TypingRequest 输入状态请求 (WebSocket typing 事件)
// 纯瞬态信号，不落库，不保证送达
type TypingRequest struct {
	Receiver string `json:"receiver"`
	ChatRoom string `json:"chatRoom"`
	IsTyping bool   `json:"isTyping"`
}
