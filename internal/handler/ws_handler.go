// 本文件处理 WebSocket 接入请求
package handler

import (
	"mentor_chat_server/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 接入处理器
type WsHandler struct {
	serve gin.HandlerFunc
}

// NewWsHandler 创建 WebSocket 处理器
func NewWsHandler(srv *chat.ChatServer) *WsHandler {
	return &WsHandler{serve: chat.ServeWs(srv.Broker)}
}

// Connect 建立 WebSocket 连接
// GET /ws?token=xxx
// 令牌校验在协议升级之前完成，校验失败返回 401
func (h *WsHandler) Connect(c *gin.Context) {
	h.serve(c)
}
