// Package message 实现消息的 HTTP 侧服务
// WebSocket 不可用的客户端通过这里的接口发送消息、拉取历史和标记已读；
// 实时广播只在 WebSocket 路径发生，HTTP 发送只负责落库
package message

import (
	"strconv"
	"time"

	"mentor_chat_server/internal/dao/mysql/repository"
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/enum/message/message_type_enum"
	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// Service 消息服务
type Service struct {
	repos *repository.Repositories
}

// NewService 创建消息服务
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// normalizePaging 分页参数兜底，page 从 1 开始
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = constants.DEFAULT_PAGE_SIZE
	}
	return page, limit
}

// SendMessage 通过 HTTP 发送消息
// 与 WebSocket 路径一致：房间消息落库时在同一事务内推进房间的
// 最新消息指针；直发消息只落库
func (s *Service) SendMessage(senderId, senderRole string, req *request.SendMessageRequest) (*respond.MessageRespond, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	msgType := req.MessageType
	if msgType == "" {
		msgType = message_type_enum.Text
	}
	if !message_type_enum.IsValid(msgType) {
		return nil, errorx.New(errorx.CodeInvalidParam, "不支持的消息类型: "+msgType)
	}

	roomId := req.ResolveRoom()
	receiverId := req.ResolveReceiver()
	if roomId == "" && receiverId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "chatRoom 与 receiver 必须至少提供一个")
	}

	msg := &model.Message{
		Uuid:       snowflake.GenerateID(),
		SenderId:   senderId,
		SenderRole: senderRole,
		Content:    req.Content,
		Type:       msgType,
		FileUrl:    req.FileUrl,
	}

	if roomId != "" {
		if _, err := s.repos.Room.FindByUuid(roomId); err != nil {
			return nil, err
		}
		msg.RoomUuid = roomId
		err := s.repos.Transaction(func(tx *repository.Repositories) error {
			if err := tx.Message.Create(msg); err != nil {
				return err
			}
			return tx.Room.UpdateLastMessage(roomId, msg.Uuid, time.Now())
		})
		if err != nil {
			return nil, err
		}
	} else {
		msg.ReceiverId = receiverId
		msg.ReceiverRole = req.ReceiverRole
		if err := s.repos.Message.Create(msg); err != nil {
			return nil, err
		}
	}

	zap.L().Info("消息已落库",
		zap.Int64("message_id", msg.Uuid),
		zap.String("sender", senderId),
		zap.String("room_id", roomId),
		zap.String("receiver", receiverId))
	rsp := respond.NewMessageRespond(msg)
	return &rsp, nil
}

// GetRoomMessages 分页拉取房间历史消息
// 非成员与房间不存在同样返回 CodeNotFound，不泄露房间是否存在
func (s *Service) GetRoomMessages(userId, roomId string, page, limit int) (*respond.MessageListRespond, error) {
	page, limit = normalizePaging(page, limit)

	room, err := s.repos.Room.FindByUuid(roomId)
	if err != nil {
		return nil, err
	}
	isMember, err := s.repos.Member.IsMember(roomId, userId)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errorx.New(errorx.CodeNotFound, "聊天室不存在或无权访问")
	}

	messages, err := s.repos.Message.FindByRoomPaged(roomId, page, limit)
	if err != nil {
		return nil, err
	}

	members, err := s.repos.Member.FindByRoomUuid(roomId)
	if err != nil {
		return nil, err
	}
	roomRsp := respond.NewChatRoomRespond(room, members)

	list, err := s.buildMessageList(messages)
	if err != nil {
		return nil, err
	}
	return &respond.MessageListRespond{
		Messages: list,
		ChatRoom: &roomRsp,
		Page:     page,
		HasMore:  len(messages) == limit,
	}, nil
}

// GetPrivateMessages 分页拉取与某用户之间的直发历史消息
func (s *Service) GetPrivateMessages(userId, otherId string, page, limit int) (*respond.MessageListRespond, error) {
	page, limit = normalizePaging(page, limit)

	messages, err := s.repos.Message.FindDirectPaged(userId, otherId, page, limit)
	if err != nil {
		return nil, err
	}
	list, err := s.buildMessageList(messages)
	if err != nil {
		return nil, err
	}
	return &respond.MessageListRespond{
		Messages: list,
		Page:     page,
		HasMore:  len(messages) == limit,
	}, nil
}

// buildMessageList 把倒序取出的一页消息翻转成时间正序，并附上已读回执
func (s *Service) buildMessageList(messages []model.Message) ([]respond.MessageRespond, error) {
	list := make([]respond.MessageRespond, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := &messages[i]
		rsp := respond.NewMessageRespond(m)
		receipts, err := s.repos.Message.FindReceipts(m.Uuid)
		if err != nil {
			return nil, err
		}
		for _, rec := range receipts {
			rsp.ReadBy = append(rsp.ReadBy, respond.ReceiptRespond{
				UserId:   rec.ReaderId,
				UserRole: rec.ReaderRole,
				ReadAt:   rec.ReadAt.Format("2006-01-02 15:04:05"),
			})
		}
		list = append(list, rsp)
	}
	return list, nil
}

// MarkRead 批量标记已读，返回成功受理的消息 ID 列表
// 回执追加在存储层幂等；无法解析为雪花 ID 的 ID 被跳过
func (s *Service) MarkRead(readerId, readerRole string, req *request.MarkReadRequest) ([]string, error) {
	uuids := make([]int64, 0, len(req.MessageIds))
	acked := make([]string, 0, len(req.MessageIds))
	for _, id := range req.MessageIds {
		uuid, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			zap.L().Warn("跳过非法消息 ID", zap.String("message_id", id))
			continue
		}
		uuids = append(uuids, uuid)
		acked = append(acked, id)
	}
	if len(uuids) == 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "没有合法的消息 ID")
	}
	if err := s.repos.Message.AppendReceipts(uuids, readerId, readerRole, time.Now()); err != nil {
		return nil, err
	}
	return acked, nil
}
