// 本文件定义 WebSocket 接入路由
// 令牌在 WebSocket 握手处理内部校验，不走 HTTP 认证中间件
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws", rt.handlers.Ws.Connect)
}
