// Package user_role_enum 定义用户角色枚举
// 用户身份由外部的 student/mentor 服务管理，聊天核心只携带角色标签
package user_role_enum

const (
	Student = "student" // 学员
	Mentor  = "mentor"  // 导师
)

// Model 将角色标签映射到外部服务的实体模型名
// 与 student/mentor 服务的文档引用保持一致
func Model(role string) string {
	if role == Student {
		return "Student"
	}
	return "Mentor"
}

// IsValid 检查角色标签是否合法
func IsValid(role string) bool {
	return role == Student || role == Mentor
}
