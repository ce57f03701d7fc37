package model

import (
	"time"

	"gorm.io/gorm"
)

// MessageRead 消息已读回执表
// (message_uuid, reader_id) 唯一，同一读者重复标记同一消息为空操作，
// 保证已读标记的幂等性
type MessageRead struct {
	gorm.Model
	MessageUuid int64     `gorm:"type:bigint;uniqueIndex:idx_message_reader;not null;comment:消息雪花ID"`
	ReaderId    string    `gorm:"type:char(32);uniqueIndex:idx_message_reader;index;not null;comment:读者id"`
	ReaderRole  string    `gorm:"type:char(10);not null;comment:读者角色"`
	ReadAt      time.Time `gorm:"type:datetime;not null;comment:已读时间"`
}

func (MessageRead) TableName() string {
	return "message_read"
}
