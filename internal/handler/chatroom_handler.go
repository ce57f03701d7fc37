// 本文件处理聊天室相关的 API 请求
// 发起者身份一律取自认证中间件写入的上下文，不读请求体里的身份字段
package handler

import (
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/service/chatroom"

	"github.com/gin-gonic/gin"
)

// ChatRoomHandler 聊天室请求处理器
type ChatRoomHandler struct {
	svc *chatroom.Service
}

// NewChatRoomHandler 创建聊天室处理器
func NewChatRoomHandler(svc *chatroom.Service) *ChatRoomHandler {
	return &ChatRoomHandler{svc: svc}
}

// CreatePrivateChat 创建或获取私聊房间
// POST /api/chat/private
// 新建房间返回 201，已存在返回 200 且 isNew 为 false
func (h *ChatRoomHandler) CreatePrivateChat(c *gin.Context) {
	var req request.CreatePrivateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.CreatePrivateRoom(c.GetString("user_id"), c.GetString("user_role"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	if data.IsNew {
		HandleCreated(c, data)
		return
	}
	HandleSuccess(c, data)
}

// CreateGroupChat 创建群聊房间
// POST /api/chat/group
func (h *ChatRoomHandler) CreateGroupChat(c *gin.Context) {
	var req request.CreateGroupChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.CreateGroupRoom(c.GetString("user_id"), c.GetString("user_role"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// GetRoomList 获取当前用户的房间列表
// GET /api/chat/rooms
func (h *ChatRoomHandler) GetRoomList(c *gin.Context) {
	data, err := h.svc.ListUserRooms(c.GetString("user_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// JoinGroup 加入群聊
// POST /api/chat/group/:roomId/join
func (h *ChatRoomHandler) JoinGroup(c *gin.Context) {
	roomId := c.Param("roomId")
	if err := h.svc.JoinGroup(roomId, c.GetString("user_id"), c.GetString("user_role")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveGroup 退出群聊
// POST /api/chat/group/:roomId/leave
func (h *ChatRoomHandler) LeaveGroup(c *gin.Context) {
	roomId := c.Param("roomId")
	if err := h.svc.LeaveGroup(roomId, c.GetString("user_id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetMembers 获取群聊成员列表
// GET /api/chat/group/:roomId/members
func (h *ChatRoomHandler) GetMembers(c *gin.Context) {
	data, err := h.svc.ListMembers(c.Param("roomId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
