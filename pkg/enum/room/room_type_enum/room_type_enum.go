// Package room_type_enum 定义聊天室类型枚举
package room_type_enum

const (
	Private = "private" // 私聊，固定两名成员
	Group   = "group"   // 群聊，成员数不限
)
