package repository

import (
	"time"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindByUuids 批量根据雪花 ID 查找消息
func (r *messageRepository) FindByUuids(uuids []int64) ([]model.Message, error) {
	var messages []model.Message
	if len(uuids) == 0 {
		return messages, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Find(&messages).Error; err != nil {
		return nil, wrapDBError(err, "批量查询消息")
	}
	return messages, nil
}

// FindByRoomPaged 分页查找房间消息
// 按创建时间倒序取最近一页，由调用方翻转成时间正序展示
func (r *messageRepository) FindByRoomPaged(roomUuid string, page, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("room_uuid = ?", roomUuid).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询房间消息 room=%s", roomUuid)
	}
	return messages, nil
}

// FindDirectPaged 分页查找两名用户间的直发消息（双向）
func (r *messageRepository) FindDirectPaged(userOneId, userTwoId string, page, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userOneId, userTwoId, userTwoId, userOneId).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询直发消息 user1=%s user2=%s", userOneId, userTwoId)
	}
	return messages, nil
}

// AppendReceipts 为一批消息幂等地追加某读者的已读回执
// (message_uuid, reader_id) 唯一索引 + ON CONFLICT DO NOTHING
// 使重复标记成为空操作，同时把聚合已读标志置位
func (r *messageRepository) AppendReceipts(messageUuids []int64, readerId, readerRole string, readAt time.Time) error {
	if len(messageUuids) == 0 {
		return nil
	}

	receipts := make([]model.MessageRead, 0, len(messageUuids))
	for _, uuid := range messageUuids {
		receipts = append(receipts, model.MessageRead{
			MessageUuid: uuid,
			ReaderId:    readerId,
			ReaderRole:  readerRole,
			ReadAt:      readAt,
		})
	}

	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&receipts).Error
	if err != nil {
		return wrapDBError(err, "追加已读回执")
	}

	// 聚合标志：有任意读者读过即为已读
	err = r.db.Model(&model.Message{}).
		Where("uuid IN ?", messageUuids).
		Update("is_read", true).Error
	if err != nil {
		return wrapDBError(err, "更新消息已读标志")
	}
	return nil
}

// FindReceipts 查找某条消息的全部已读回执
func (r *messageRepository) FindReceipts(messageUuid int64) ([]model.MessageRead, error) {
	var receipts []model.MessageRead
	if err := r.db.Where("message_uuid = ?", messageUuid).Order("read_at ASC").Find(&receipts).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询已读回执 message=%d", messageUuid)
	}
	return receipts, nil
}
