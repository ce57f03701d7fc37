package repository

import (
	"time"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

type chatRoomRepository struct {
	db *gorm.DB
}

// NewChatRoomRepository 创建聊天室 Repository
func NewChatRoomRepository(db *gorm.DB) ChatRoomRepository {
	return &chatRoomRepository{db: db}
}

// FindByUuid 根据 UUID 查找聊天室
func (r *chatRoomRepository) FindByUuid(uuid string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.Where("uuid = ?", uuid).First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天室 uuid=%s", uuid)
	}
	return &room, nil
}

// FindPrivateByPairKey 根据成员对键查找私聊房间
func (r *chatRoomRepository) FindPrivateByPairKey(pairKey string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.Where("type = ? AND pair_key = ?", "private", pairKey).First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询私聊房间 pair_key=%s", pairKey)
	}
	return &room, nil
}

// FindRoomsByUser 查找用户参与的所有未归档房间
// 通过成员表联查，按最新消息时间倒序（无消息的房间按更新时间）
func (r *chatRoomRepository) FindRoomsByUser(userUuid string) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	err := r.db.
		Joins("JOIN room_member ON room_member.room_uuid = chat_room.uuid").
		Where("room_member.user_uuid = ? AND room_member.deleted_at IS NULL", userUuid).
		Where("chat_room.is_archived = ?", false).
		Order("chat_room.last_message_at DESC, chat_room.updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户房间列表 user=%s", userUuid)
	}
	return rooms, nil
}

// Create 创建聊天室
func (r *chatRoomRepository) Create(room *model.ChatRoom) error {
	if err := r.db.Create(room).Error; err != nil {
		return wrapDBError(err, "创建聊天室")
	}
	return nil
}

// UpdateLastMessage 更新房间的最新消息指针和时间戳
func (r *chatRoomRepository) UpdateLastMessage(roomUuid string, messageUuid int64, at time.Time) error {
	err := r.db.Model(&model.ChatRoom{}).
		Where("uuid = ?", roomUuid).
		Updates(map[string]interface{}{
			"last_message_uuid": messageUuid,
			"last_message_at":   at,
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "更新房间最新消息 room=%s", roomUuid)
	}
	return nil
}
