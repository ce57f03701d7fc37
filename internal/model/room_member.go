package model

import "gorm.io/gorm"

// RoomMember 聊天室成员关联表
// (room_uuid, user_uuid) 唯一，重复入群在存储层即被拒绝
type RoomMember struct {
	gorm.Model
	RoomUuid   string `gorm:"type:char(20);uniqueIndex:idx_room_user;not null;comment:聊天室ID"`
	UserUuid   string `gorm:"type:char(32);uniqueIndex:idx_room_user;index;not null;comment:用户ID"`
	UserRole   string `gorm:"type:char(10);not null;comment:用户角色，student或mentor"`
	MemberRole string `gorm:"type:char(10);default:member;comment:成员角色，admin/moderator/member"`
}

func (RoomMember) TableName() string {
	return "room_member"
}
