// Package member_role_enum 定义群成员角色枚举
package member_role_enum

const (
	Admin     = "admin"     // 群主/管理员
	Moderator = "moderator" // 协管员
	Member    = "member"    // 普通成员
)
