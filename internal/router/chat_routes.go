// 本文件定义聊天相关的 HTTP 路由，全部需要认证
package router

import (
	"mentor_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes 注册聊天路由
func (rt *Router) RegisterChatRoutes(r *gin.Engine) {
	chatGroup := r.Group("/api/chat")
	chatGroup.Use(middleware.JWTAuth())
	{
		// 聊天室管理
		chatGroup.POST("/private", rt.handlers.ChatRoom.CreatePrivateChat)          // 创建/获取私聊房间
		chatGroup.POST("/group", rt.handlers.ChatRoom.CreateGroupChat)              // 创建群聊房间
		chatGroup.GET("/rooms", rt.handlers.ChatRoom.GetRoomList)                   // 当前用户的房间列表
		chatGroup.POST("/group/:roomId/join", rt.handlers.ChatRoom.JoinGroup)       // 加入群聊
		chatGroup.POST("/group/:roomId/leave", rt.handlers.ChatRoom.LeaveGroup)     // 退出群聊
		chatGroup.GET("/group/:roomId/members", rt.handlers.ChatRoom.GetMembers)    // 群聊成员列表

		// 消息
		chatGroup.POST("/send", rt.handlers.Message.SendMessage)                    // HTTP 发送消息
		chatGroup.GET("/room/:roomId/messages", rt.handlers.Message.GetRoomMessages) // 房间历史消息
		chatGroup.GET("/private/:recipientId", rt.handlers.Message.GetPrivateMessages) // 直发历史消息
		chatGroup.POST("/read", rt.handlers.Message.MarkRead)                       // 批量标记已读
	}
}
