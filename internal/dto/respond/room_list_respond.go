package respond

// RoomListRespond 用户房间列表响应，按最近活跃排序
type RoomListRespond struct {
	ChatRooms []ChatRoomRespond `json:"chatRooms"`
}
