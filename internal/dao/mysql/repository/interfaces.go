// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"errors"
	"time"

	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// ErrRecordNotFound 映射为 CodeNotFound，其余映射为 CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ==================== Repository 接口定义 ====================

// ChatRoomRepository 聊天室数据访问接口
type ChatRoomRepository interface {
	// FindByUuid 根据 UUID 查找聊天室
	FindByUuid(uuid string) (*model.ChatRoom, error)
	// FindPrivateByPairKey 根据成员对键查找私聊房间
	FindPrivateByPairKey(pairKey string) (*model.ChatRoom, error)
	// FindRoomsByUser 查找用户参与的所有未归档房间，按最近活跃排序
	FindRoomsByUser(userUuid string) ([]model.ChatRoom, error)
	// Create 创建聊天室
	Create(room *model.ChatRoom) error
	// UpdateLastMessage 更新房间的最新消息指针和时间戳
	UpdateLastMessage(roomUuid string, messageUuid int64, at time.Time) error
}

// RoomMemberRepository 聊天室成员数据访问接口
type RoomMemberRepository interface {
	// FindByRoomAndUser 查找某用户在某房间的成员记录
	FindByRoomAndUser(roomUuid, userUuid string) (*model.RoomMember, error)
	// FindByRoomUuid 查找房间的全部成员
	FindByRoomUuid(roomUuid string) ([]model.RoomMember, error)
	// IsMember 判断用户是否为房间成员
	IsMember(roomUuid, userUuid string) (bool, error)
	// Create 添加房间成员
	Create(member *model.RoomMember) error
	// Delete 移除房间成员，成员不存在时为空操作
	Delete(roomUuid, userUuid string) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 创建消息
	Create(message *model.Message) error
	// FindByUuids 批量根据雪花 ID 查找消息
	FindByUuids(uuids []int64) ([]model.Message, error)
	// FindByRoomPaged 分页查找房间消息，最新的在前
	FindByRoomPaged(roomUuid string, page, limit int) ([]model.Message, error)
	// FindDirectPaged 分页查找两名用户间的直发消息（双向）
	FindDirectPaged(userOneId, userTwoId string, page, limit int) ([]model.Message, error)
	// AppendReceipts 为一批消息幂等地追加某读者的已读回执
	// 重复调用对已存在的 (消息, 读者) 组合为空操作
	AppendReceipts(messageUuids []int64, readerId, readerRole string, readAt time.Time) error
	// FindReceipts 查找某条消息的全部已读回执
	FindReceipts(messageUuid int64) ([]model.MessageRead, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db      *gorm.DB
	Room    ChatRoomRepository   // 聊天室 Repository
	Member  RoomMemberRepository // 房间成员 Repository
	Message MessageRepository    // 消息 Repository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		Room:    NewChatRoomRepository(db),
		Member:  NewRoomMemberRepository(db),
		Message: NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// 消息落库与房间最新消息指针更新依赖此方法保证原子性
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
