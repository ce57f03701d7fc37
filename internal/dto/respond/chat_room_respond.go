package respond

import (
	"strconv"

	"mentor_chat_server/internal/model"
)

// ParticipantRespond 聊天室成员响应体
type ParticipantRespond struct {
	UserId   string `json:"userId"`
	UserRole string `json:"userModel"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

// RoomSettingsRespond 聊天室设置
type RoomSettingsRespond struct {
	AllowFileSharing bool `json:"allowFileSharing"`
	AllowReactions   bool `json:"allowReactions"`
	OnlyAdminCanPost bool `json:"onlyAdminCanPost"`
}

// ChatRoomRespond 聊天室响应体
// 使用位置:
//   - internal/handler/chatroom_handler.go
//   - internal/service/chat/router.go: group-created 事件
type ChatRoomRespond struct {
	Id            string               `json:"id"`
	Type          string               `json:"type"`
	Name          string               `json:"name,omitempty"`
	Description   string               `json:"description,omitempty"`
	Participants  []ParticipantRespond `json:"participants"`
	CreatedBy     string               `json:"createdBy"`
	CreatorRole   string               `json:"creatorModel"`
	LastMessageId string               `json:"lastMessage,omitempty"`
	IsPinned      bool                 `json:"isPinned"`
	IsArchived    bool                 `json:"isArchived"`
	Settings      RoomSettingsRespond  `json:"settings"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

// NewChatRoomRespond 从数据库模型构造聊天室响应体
// members 允许为 nil，序列化后 participants 恒为数组而非 null
func NewChatRoomRespond(room *model.ChatRoom, members []model.RoomMember) ChatRoomRespond {
	participants := make([]ParticipantRespond, 0, len(members))
	for _, m := range members {
		participants = append(participants, ParticipantRespond{
			UserId:   m.UserUuid,
			UserRole: m.UserRole,
			Role:     m.MemberRole,
			JoinedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	rsp := ChatRoomRespond{
		Id:           room.Uuid,
		Type:         room.Type,
		Name:         room.Name,
		Description:  room.Description,
		Participants: participants,
		CreatedBy:    room.CreatorId,
		CreatorRole:  room.CreatorRole,
		IsPinned:     room.IsPinned,
		IsArchived:   room.IsArchived,
		Settings: RoomSettingsRespond{
			AllowFileSharing: room.AllowFileSharing,
			AllowReactions:   room.AllowReactions,
			OnlyAdminCanPost: room.OnlyAdminCanPost,
		},
		CreatedAt: room.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: room.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if room.LastMessageUuid != 0 {
		rsp.LastMessageId = strconv.FormatInt(room.LastMessageUuid, 10)
	}
	return rsp
}
