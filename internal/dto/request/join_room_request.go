package request

// JoinRoomRequest 订阅/退订房间广播组请求 (WebSocket join-room / leave-room 事件)
// 只影响本进程内的瞬态订阅，不校验也不修改持久化成员关系
type JoinRoomRequest struct {
	RoomId string `json:"roomId" binding:"required"`
}
