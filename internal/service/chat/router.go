// router.go
// 核心职责：事件分发
// 消息代理送来的每个信封按事件名路由到对应处理函数
// 所有回执（成功或失败）只发给发起事件的那条连接，
// 同一用户的其他在线连接与房间内其他成员各自收到广播事件
package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"mentor_chat_server/internal/dao/mysql/repository"
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/enum/message/message_type_enum"
	"mentor_chat_server/pkg/util/channelkey"
	"mentor_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// GroupRoomService 群聊创建入口
// WebSocket create-group 事件与 HTTP 接口复用同一实现
type GroupRoomService interface {
	CreateGroupRoom(creatorId, creatorRole string, req *request.CreateGroupChatRequest) (*respond.ChatRoomRespond, error)
}

// EventRouter 事件路由器
type EventRouter struct {
	registry *SessionRegistry
	rooms    *RoomManager
	repos    *repository.Repositories
	groups   GroupRoomService
}

// NewEventRouter 创建事件路由器
func NewEventRouter(registry *SessionRegistry, rooms *RoomManager, repos *repository.Repositories, groups GroupRoomService) *EventRouter {
	return &EventRouter{
		registry: registry,
		rooms:    rooms,
		repos:    repos,
		groups:   groups,
	}
}

// Dispatch 按事件名分发一个信封
func (r *EventRouter) Dispatch(env Envelope) {
	switch env.Event {
	case EventJoinRoom:
		r.handleJoinRoom(env)
	case EventLeaveRoom:
		r.handleLeaveRoom(env)
	case EventSendMessage:
		r.handleSendMessage(env)
	case EventTyping:
		r.handleTyping(env)
	case EventMarkRead:
		r.handleMarkRead(env)
	case EventCreateGroup:
		r.handleCreateGroup(env)
	default:
		zap.L().Warn("未知的客户端事件",
			zap.String("event", env.Event), zap.String("user_id", env.SenderId))
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "未知的事件: " + env.Event}))
	}
}

// replyTo 向发起事件的连接回执
// 连接可能已在处理期间断开，此时回执被丢弃
func (r *EventRouter) replyTo(env Envelope, payload []byte) {
	if c := r.registry.Get(env.SenderId, env.ConnId); c != nil {
		c.Send(payload)
	}
}

// handleJoinRoom 订阅房间广播组
// roomId 可以是群聊房间 uuid，也可以是私聊频道键；
// 只改变进程内的广播可达性，不校验持久化成员关系
func (r *EventRouter) handleJoinRoom(env Envelope) {
	var req request.JoinRoomRequest
	if err := json.Unmarshal(env.Data, &req); err != nil || req.RoomId == "" {
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "roomId 不能为空"}))
		return
	}
	c := r.registry.Get(env.SenderId, env.ConnId)
	if c == nil {
		return
	}
	r.rooms.Join(req.RoomId, c)
	zap.L().Debug("连接订阅房间",
		zap.String("room_id", req.RoomId), zap.String("user_id", env.SenderId))
}

// handleLeaveRoom 退订房间广播组
func (r *EventRouter) handleLeaveRoom(env Envelope) {
	var req request.JoinRoomRequest
	if err := json.Unmarshal(env.Data, &req); err != nil || req.RoomId == "" {
		return
	}
	c := r.registry.Get(env.SenderId, env.ConnId)
	if c == nil {
		return
	}
	r.rooms.Leave(req.RoomId, c)
}

// handleSendMessage 发送消息
// 房间消息：落库与房间最新消息指针更新在同一事务内完成，再广播给房间成员
// 直发消息：按双方 ID 排序拼接的频道键广播，并直推接收者尚未订阅频道的连接
func (r *EventRouter) handleSendMessage(env Envelope) {
	var req request.SendMessageRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "无法解析的消息载荷"}))
		return
	}
	if req.Content == "" {
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "消息内容不能为空"}))
		return
	}
	msgType := req.MessageType
	if msgType == "" {
		msgType = message_type_enum.Text
	}
	if !message_type_enum.IsValid(msgType) {
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "不支持的消息类型: " + msgType}))
		return
	}

	roomId := req.ResolveRoom()
	receiverId := req.ResolveReceiver()
	if roomId == "" && receiverId == "" {
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "chatRoom 与 receiver 必须至少提供一个"}))
		return
	}

	msg := &model.Message{
		Uuid:       snowflake.GenerateID(),
		SenderId:   env.SenderId,
		SenderRole: env.SenderRole,
		Content:    req.Content,
		Type:       msgType,
		FileUrl:    req.FileUrl,
	}

	if roomId != "" {
		msg.RoomUuid = roomId
		err := r.repos.Transaction(func(tx *repository.Repositories) error {
			if err := tx.Message.Create(msg); err != nil {
				return err
			}
			return tx.Room.UpdateLastMessage(roomId, msg.Uuid, time.Now())
		})
		if err != nil {
			zap.L().Error("房间消息落库失败",
				zap.String("room_id", roomId), zap.String("sender", env.SenderId), zap.Error(err))
			r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "消息发送失败"}))
			return
		}
		rsp := respond.NewMessageRespond(msg)
		r.rooms.Broadcast(roomId, ServerEvent(EventReceiveMessage, rsp), env.ConnId)
		r.replyTo(env, ServerEvent(EventMessageSent, MessageSentPayload{Success: true, Message: rsp}))
		return
	}

	// 直发路径，消息只挂接收者不挂房间
	channel := channelkey.Derive(env.SenderId, receiverId)
	msg.ReceiverId = receiverId
	msg.ReceiverRole = req.ReceiverRole
	if err := r.repos.Message.Create(msg); err != nil {
		zap.L().Error("直发消息落库失败",
			zap.String("receiver", receiverId), zap.String("sender", env.SenderId), zap.Error(err))
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "消息发送失败"}))
		return
	}
	rsp := respond.NewMessageRespond(msg)
	payload := ServerEvent(EventReceiveMessage, rsp)
	r.rooms.Broadcast(channel, payload, env.ConnId)
	// 接收者尚未订阅频道的连接也要收到，已订阅的不重复投递
	for _, c := range r.registry.Lookup(receiverId) {
		if !r.rooms.Contains(channel, c.ConnId) {
			c.Send(payload)
		}
	}
	r.replyTo(env, ServerEvent(EventMessageSent, MessageSentPayload{Success: true, Message: rsp}))
}

// handleTyping 输入状态转发
// 瞬态信号，不落库；转发范围与消息广播一致，但不发回发起连接
func (r *EventRouter) handleTyping(env Envelope) {
	var req request.TypingRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return
	}
	payload := ServerEvent(EventUserTyping, TypingPayload{
		Sender:   env.SenderId,
		IsTyping: req.IsTyping,
	})
	if req.ChatRoom != "" {
		r.rooms.Broadcast(req.ChatRoom, payload, env.ConnId)
		return
	}
	if req.Receiver == "" {
		return
	}
	channel := channelkey.Derive(env.SenderId, req.Receiver)
	r.rooms.Broadcast(channel, payload, env.ConnId)
	for _, c := range r.registry.Lookup(req.Receiver) {
		if !r.rooms.Contains(channel, c.ConnId) {
			c.Send(payload)
		}
	}
}

// handleMarkRead 批量标记已读
// 回执追加在存储层幂等，重复标记不产生重复回执；
// 无法解析为雪花 ID 的消息 ID 被跳过
func (r *EventRouter) handleMarkRead(env Envelope) {
	var req request.MarkReadRequest
	if err := json.Unmarshal(env.Data, &req); err != nil || len(req.MessageIds) == 0 {
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "messageIds 不能为空"}))
		return
	}
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
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "没有合法的消息 ID"}))
		return
	}
	if err := r.repos.Message.AppendReceipts(uuids, env.SenderId, env.SenderRole, time.Now()); err != nil {
		zap.L().Error("追加已读回执失败",
			zap.String("reader", env.SenderId), zap.Error(err))
		r.replyTo(env, ServerEvent(EventMessageError, ErrorPayload{Error: "标记已读失败"}))
		return
	}
	r.replyTo(env, ServerEvent(EventMessagesRead, MessagesReadPayload{
		Success:    true,
		MessageIds: acked,
	}))
}

// handleCreateGroup 创建群聊
// 建群成功后把每个在线初始成员的全部连接拉进房间广播组，
// 并向这些连接推送 group-created 事件
func (r *EventRouter) handleCreateGroup(env Envelope) {
	var req request.CreateGroupChatRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		r.replyTo(env, ServerEvent(EventGroupError, ErrorPayload{Error: "无法解析的建群载荷"}))
		return
	}
	if req.Name == "" {
		r.replyTo(env, ServerEvent(EventGroupError, ErrorPayload{Error: "群聊名称不能为空"}))
		return
	}
	rsp, err := r.groups.CreateGroupRoom(env.SenderId, env.SenderRole, &req)
	if err != nil {
		zap.L().Error("建群失败",
			zap.String("creator", env.SenderId), zap.String("name", req.Name), zap.Error(err))
		r.replyTo(env, ServerEvent(EventGroupError, ErrorPayload{Error: fmt.Sprintf("建群失败: %v", err)}))
		return
	}
	payload := ServerEvent(EventGroupCreated, rsp)
	for _, p := range rsp.Participants {
		for _, c := range r.registry.Lookup(p.UserId) {
			r.rooms.Join(rsp.Id, c)
			c.Send(payload)
		}
	}
}
