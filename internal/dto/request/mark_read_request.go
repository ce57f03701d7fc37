package request

// MarkReadRequest 标记已读请求 (WebSocket mark-read 事件和 HTTP /read 共用)
// 消息 ID 使用雪花 ID 的字符串形式，避免 JavaScript 精度丢失
type MarkReadRequest struct {
	MessageIds []string `json:"messageIds" binding:"required,min=1"`
}
