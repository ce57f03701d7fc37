// Package message_type_enum 定义消息类型枚举
package message_type_enum

// 消息类型，与前端及数据库存储保持一致的字符串标签
const (
	Text   = "text"   // 文本消息
	Image  = "image"  // 图片消息
	File   = "file"   // 文件消息
	System = "system" // 系统消息
)

// IsValid 检查消息类型是否合法
func IsValid(t string) bool {
	switch t {
	case Text, Image, File, System:
		return true
	}
	return false
}
