// 本文件处理消息相关的 API 请求
package handler

import (
	"strconv"

	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/service/message"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	svc *message.Service
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(svc *message.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// pagingQuery 解析 page/limit 查询参数，非法值由服务层兜底
func pagingQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	return page, limit
}

// SendMessage 通过 HTTP 发送消息
// POST /api/chat/send
// 只落库，不做实时广播；实时投递走 WebSocket 通道
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.SendMessage(c.GetString("user_id"), c.GetString("user_role"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// GetRoomMessages 分页获取房间历史消息
// GET /api/chat/room/:roomId/messages?page=1&limit=50
func (h *MessageHandler) GetRoomMessages(c *gin.Context) {
	page, limit := pagingQuery(c)
	data, err := h.svc.GetRoomMessages(c.GetString("user_id"), c.Param("roomId"), page, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetPrivateMessages 分页获取与某用户的直发历史消息
// GET /api/chat/private/:recipientId?page=1&limit=50
func (h *MessageHandler) GetPrivateMessages(c *gin.Context) {
	page, limit := pagingQuery(c)
	data, err := h.svc.GetPrivateMessages(c.GetString("user_id"), c.Param("recipientId"), page, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 批量标记消息已读
// POST /api/chat/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req request.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	acked, err := h.svc.MarkRead(c.GetString("user_id"), c.GetString("user_role"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"success": true, "messageIds": acked})
}
