// Package model 定义数据库实体模型
// 本文件定义聊天室模型，聊天室分为私聊（固定两人）和群聊两类
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// ChatRoom 聊天室模型
// 对应数据库 chat_room 表
// 私聊房间由首次发起会话时隐式创建，群聊房间由用户显式创建
// 聊天室从不硬删除，只通过 IsArchived 归档
type ChatRoom struct {
	gorm.Model

	// Uuid 聊天室唯一标识
	// 格式：R + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:聊天室uuid"`

	// Type 聊天室类型
	// private=私聊（恰好两名成员），group=群聊
	Type string `gorm:"column:type;index;type:char(10);not null;comment:类型，private.私聊，group.群聊"`

	// Name 群名称，群聊必填，私聊为空
	Name string `gorm:"column:name;type:varchar(50);comment:群名称"`

	// Description 群描述
	Description string `gorm:"column:description;type:varchar(500);comment:群描述"`

	// PairKey 私聊参与者对的确定性键
	// 取值为两名成员 ID 升序拼接（与直发频道键同一实现）
	// 唯一索引保证同一对用户并发创建私聊时只会有一间房间落库
	// 群聊为 NULL，不参与唯一性约束
	PairKey *string `gorm:"column:pair_key;uniqueIndex;type:varchar(64);comment:私聊成员对键"`

	// CreatorId 创建者用户 ID（外部 student/mentor 服务的引用）
	CreatorId string `gorm:"column:creator_id;index;type:char(32);not null;comment:创建者id"`

	// CreatorRole 创建者角色，student 或 mentor
	CreatorRole string `gorm:"column:creator_role;type:char(10);not null;comment:创建者角色"`

	// LastMessageUuid 最新一条消息的雪花 ID，0 表示尚无消息
	// 可由 message 表按房间重算，属于派生数据
	LastMessageUuid int64 `gorm:"column:last_message_uuid;type:bigint;default:0;comment:最新消息id"`

	// LastMessageAt 最新消息时间，用于房间列表按活跃度排序
	LastMessageAt sql.NullTime `gorm:"column:last_message_at;type:datetime;comment:最新消息时间"`

	// IsPinned 置顶标志
	IsPinned bool `gorm:"column:is_pinned;default:false;comment:是否置顶"`

	// IsArchived 归档标志，归档房间不出现在房间列表中
	IsArchived bool `gorm:"column:is_archived;default:false;comment:是否归档"`

	// AllowFileSharing 房间设置：是否允许发送文件
	AllowFileSharing bool `gorm:"column:allow_file_sharing;default:true;comment:允许文件分享"`

	// AllowReactions 房间设置：是否允许表情回应
	AllowReactions bool `gorm:"column:allow_reactions;default:true;comment:允许表情回应"`

	// OnlyAdminCanPost 房间设置：仅管理员可发言
	OnlyAdminCanPost bool `gorm:"column:only_admin_can_post;default:false;comment:仅管理员可发言"`
}

// TableName 指定表名
func (ChatRoom) TableName() string {
	return "chat_room"
}
