package repository

import (
	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

type roomMemberRepository struct {
	db *gorm.DB
}

// NewRoomMemberRepository 创建房间成员 Repository
func NewRoomMemberRepository(db *gorm.DB) RoomMemberRepository {
	return &roomMemberRepository{db: db}
}

// FindByRoomAndUser 查找某用户在某房间的成员记录
func (r *roomMemberRepository) FindByRoomAndUser(roomUuid, userUuid string) (*model.RoomMember, error) {
	var member model.RoomMember
	if err := r.db.Where("room_uuid = ? AND user_uuid = ?", roomUuid, userUuid).First(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员 room=%s user=%s", roomUuid, userUuid)
	}
	return &member, nil
}

// FindByRoomUuid 查找房间的全部成员
func (r *roomMemberRepository) FindByRoomUuid(roomUuid string) ([]model.RoomMember, error) {
	var members []model.RoomMember
	if err := r.db.Where("room_uuid = ?", roomUuid).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员列表 room=%s", roomUuid)
	}
	return members, nil
}

// IsMember 判断用户是否为房间成员
func (r *roomMemberRepository) IsMember(roomUuid, userUuid string) (bool, error) {
	var count int64
	err := r.db.Model(&model.RoomMember{}).
		Where("room_uuid = ? AND user_uuid = ?", roomUuid, userUuid).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "查询成员资格 room=%s user=%s", roomUuid, userUuid)
	}
	return count > 0, nil
}

// Create 添加房间成员
func (r *roomMemberRepository) Create(member *model.RoomMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "添加房间成员")
	}
	return nil
}

// Delete 移除房间成员
// 物理删除：(room_uuid, user_uuid) 上有唯一索引，软删除残留记录
// 会阻止用户退群后再次加入
func (r *roomMemberRepository) Delete(roomUuid, userUuid string) error {
	err := r.db.Unscoped().
		Where("room_uuid = ? AND user_uuid = ?", roomUuid, userUuid).
		Delete(&model.RoomMember{}).Error
	if err != nil {
		return wrapDBErrorf(err, "移除房间成员 room=%s user=%s", roomUuid, userUuid)
	}
	return nil
}
