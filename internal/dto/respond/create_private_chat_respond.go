package respond

// CreatePrivateChatRespond 创建私聊响应
// IsNew 标识本次调用是否真正建了新房间；
// 同一对用户重复创建时返回已有房间且 IsNew 为 false
type CreatePrivateChatRespond struct {
	ChatRoom ChatRoomRespond `json:"chatRoom"`
	IsNew    bool            `json:"isNew"`
}
