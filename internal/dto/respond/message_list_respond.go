package respond

// MessageListRespond 分页历史消息响应
// 消息按时间正序排列（查询取最近一页后翻转），HasMore 表示是否还有更早的消息
type MessageListRespond struct {
	Messages []MessageRespond `json:"messages"`
	ChatRoom *ChatRoomRespond `json:"chatRoom,omitempty"`
	Page     int              `json:"page"`
	HasMore  bool             `json:"hasMore"`
}
