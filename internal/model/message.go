// Package model 定义数据库实体模型
// 本文件定义消息模型，用于存储私聊和群聊消息
package model

import (
	"gorm.io/gorm"
)

// Message 消息模型
// 对应数据库 message 表
// 一条消息要么属于一个聊天室（RoomUuid 非空），要么是直发消息
// （ReceiverId 非空），两者互斥
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64 类型 ID
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// RoomUuid 所属聊天室 UUID，直发消息为空
	RoomUuid string `gorm:"column:room_uuid;index;type:char(20);comment:聊天室uuid"`

	// SenderId 发送者用户 ID（外部服务引用）
	SenderId string `gorm:"column:sender_id;index;type:char(32);not null;comment:发送者id"`

	// SenderRole 发送者角色，student 或 mentor
	// 取自认证 Token，服务端盖章，不信任客户端声明
	SenderRole string `gorm:"column:sender_role;type:char(10);not null;comment:发送者角色"`

	// ReceiverId 直发接收者用户 ID，房间消息为空
	ReceiverId string `gorm:"column:receiver_id;index;type:char(32);comment:接收者id"`

	// ReceiverRole 直发接收者角色
	ReceiverRole string `gorm:"column:receiver_role;type:char(10);comment:接收者角色"`

	// Content 消息文本内容
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`

	// Type 消息类型：text / image / file / system
	Type string `gorm:"column:type;type:char(10);not null;comment:消息类型"`

	// FileUrl 附件链接，文件和图片消息使用
	// 文件本体由外部对象存储管理，这里只存访问链接
	FileUrl string `gorm:"column:file_url;type:varchar(255);comment:附件url"`

	// IsRead 聚合已读标志
	// 任意读者标记已读后置为 true，细粒度回执见 message_read 表
	IsRead bool `gorm:"column:is_read;default:false;comment:是否已读"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
