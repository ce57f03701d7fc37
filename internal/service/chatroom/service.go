// Package chatroom 实现聊天室管理服务
// 核心职责：
// 1. 私聊房间的幂等创建（同一对用户收敛到同一间房）
// 2. 群聊房间的创建与成员管理
// 3. 用户房间列表查询，带 Redis 旁路缓存
package chatroom

import (
	"context"
	"encoding/json"
	"time"

	"mentor_chat_server/internal/dao/mysql/repository"
	myredis "mentor_chat_server/internal/dao/redis"
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/enum/room/member_role_enum"
	"mentor_chat_server/pkg/enum/room/room_type_enum"
	"mentor_chat_server/pkg/enum/user/user_role_enum"
	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/channelkey"
	"mentor_chat_server/pkg/util/random"

	"go.uber.org/zap"
)

// roomListCacheKey 用户房间列表的缓存键
func roomListCacheKey(userId string) string {
	return "room_list_" + userId
}

// Service 聊天室服务
type Service struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewService 创建聊天室服务
func NewService(repos *repository.Repositories, cache myredis.AsyncCacheService) *Service {
	return &Service{repos: repos, cache: cache}
}

// newRoomUuid 生成聊天室 uuid，R 前缀 + 时间戳随机串
func newRoomUuid() string {
	return "R" + random.GetNowAndLenRandomString(13)
}

// CreatePrivateRoom 创建或返回已有的私聊房间
// 同一对用户无论谁发起、发起多少次，都收敛到同一间房间；
// 并发创建依赖 pair_key 唯一索引兜底，冲突后重读已有房间
func (s *Service) CreatePrivateRoom(creatorId, creatorRole string, req *request.CreatePrivateChatRequest) (*respond.CreatePrivateChatRespond, error) {
	if req.RecipientId == creatorId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能与自己创建私聊")
	}
	if !user_role_enum.IsValid(req.RecipientRole) {
		return nil, errorx.New(errorx.CodeInvalidParam, "非法的接收者角色: "+req.RecipientRole)
	}

	pairKey := channelkey.Derive(creatorId, req.RecipientId)

	if room, err := s.repos.Room.FindPrivateByPairKey(pairKey); err == nil {
		members, err := s.repos.Member.FindByRoomUuid(room.Uuid)
		if err != nil {
			return nil, err
		}
		rsp := respond.NewChatRoomRespond(room, members)
		return &respond.CreatePrivateChatRespond{ChatRoom: rsp, IsNew: false}, nil
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	room := &model.ChatRoom{
		Uuid:             newRoomUuid(),
		Type:             room_type_enum.Private,
		PairKey:          &pairKey,
		CreatorId:        creatorId,
		CreatorRole:      creatorRole,
		AllowFileSharing: true,
		AllowReactions:   true,
	}
	members := []model.RoomMember{
		{RoomUuid: room.Uuid, UserUuid: creatorId, UserRole: creatorRole, MemberRole: member_role_enum.Member},
		{RoomUuid: room.Uuid, UserUuid: req.RecipientId, UserRole: req.RecipientRole, MemberRole: member_role_enum.Member},
	}

	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Room.Create(room); err != nil {
			return err
		}
		for i := range members {
			if err := tx.Member.Create(&members[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// 两名用户同时发起时，后到的事务会撞上 pair_key 唯一索引，
		// 此时改为返回先到方已建好的房间
		if existing, findErr := s.repos.Room.FindPrivateByPairKey(pairKey); findErr == nil {
			existingMembers, mErr := s.repos.Member.FindByRoomUuid(existing.Uuid)
			if mErr != nil {
				return nil, mErr
			}
			rsp := respond.NewChatRoomRespond(existing, existingMembers)
			return &respond.CreatePrivateChatRespond{ChatRoom: rsp, IsNew: false}, nil
		}
		return nil, err
	}

	s.invalidateRoomList(creatorId, req.RecipientId)
	zap.L().Info("私聊房间已创建",
		zap.String("room_id", room.Uuid),
		zap.String("creator", creatorId),
		zap.String("recipient", req.RecipientId))

	rsp := respond.NewChatRoomRespond(room, members)
	return &respond.CreatePrivateChatRespond{ChatRoom: rsp, IsNew: true}, nil
}

// CreateGroupRoom 创建群聊房间
// 创建者自动以 admin 身份入群；初始成员列表中的创建者和重复项会被去重
func (s *Service) CreateGroupRoom(creatorId, creatorRole string, req *request.CreateGroupChatRequest) (*respond.ChatRoomRespond, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "群聊名称不能为空")
	}

	room := &model.ChatRoom{
		Uuid:             newRoomUuid(),
		Type:             room_type_enum.Group,
		Name:             req.Name,
		Description:      req.Description,
		CreatorId:        creatorId,
		CreatorRole:      creatorRole,
		AllowFileSharing: true,
		AllowReactions:   true,
	}

	members := []model.RoomMember{
		{RoomUuid: room.Uuid, UserUuid: creatorId, UserRole: creatorRole, MemberRole: member_role_enum.Admin},
	}
	seen := map[string]bool{creatorId: true}
	for _, p := range req.ParticipantIds {
		if seen[p.UserId] {
			continue
		}
		if !user_role_enum.IsValid(p.UserRole) {
			return nil, errorx.New(errorx.CodeInvalidParam, "非法的成员角色: "+p.UserRole)
		}
		seen[p.UserId] = true
		members = append(members, model.RoomMember{
			RoomUuid:   room.Uuid,
			UserUuid:   p.UserId,
			UserRole:   p.UserRole,
			MemberRole: member_role_enum.Member,
		})
	}

	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Room.Create(room); err != nil {
			return err
		}
		for i := range members {
			if err := tx.Member.Create(&members[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	userIds := make([]string, 0, len(members))
	for _, m := range members {
		userIds = append(userIds, m.UserUuid)
	}
	s.invalidateRoomList(userIds...)
	zap.L().Info("群聊房间已创建",
		zap.String("room_id", room.Uuid),
		zap.String("creator", creatorId),
		zap.Int("members", len(members)))

	rsp := respond.NewChatRoomRespond(room, members)
	return &rsp, nil
}

// GetRoom 查询单个房间及其成员
func (s *Service) GetRoom(roomId string) (*respond.ChatRoomRespond, error) {
	room, err := s.repos.Room.FindByUuid(roomId)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Member.FindByRoomUuid(room.Uuid)
	if err != nil {
		return nil, err
	}
	rsp := respond.NewChatRoomRespond(room, members)
	return &rsp, nil
}

// JoinGroup 加入群聊
// 房间不存在返回 CodeNotFound，私聊房间返回 CodeInvalidParam，
// 已是成员返回 CodeConflict
func (s *Service) JoinGroup(roomId, userId, userRole string) error {
	room, err := s.repos.Room.FindByUuid(roomId)
	if err != nil {
		return err
	}
	if room.Type != room_type_enum.Group {
		return errorx.New(errorx.CodeInvalidParam, "私聊房间不允许加入")
	}
	isMember, err := s.repos.Member.IsMember(roomId, userId)
	if err != nil {
		return err
	}
	if isMember {
		return errorx.New(errorx.CodeConflict, "已经是该群聊的成员")
	}
	member := &model.RoomMember{
		RoomUuid:   roomId,
		UserUuid:   userId,
		UserRole:   userRole,
		MemberRole: member_role_enum.Member,
	}
	if err := s.repos.Member.Create(member); err != nil {
		return err
	}
	s.invalidateRoomList(userId)
	zap.L().Info("用户加入群聊", zap.String("room_id", roomId), zap.String("user_id", userId))
	return nil
}

// LeaveGroup 退出群聊
// 非成员退出视为空操作，不报错
func (s *Service) LeaveGroup(roomId, userId string) error {
	room, err := s.repos.Room.FindByUuid(roomId)
	if err != nil {
		return err
	}
	if room.Type != room_type_enum.Group {
		return errorx.New(errorx.CodeInvalidParam, "私聊房间不允许退出")
	}
	if err := s.repos.Member.Delete(roomId, userId); err != nil {
		return err
	}
	s.invalidateRoomList(userId)
	zap.L().Info("用户退出群聊", zap.String("room_id", roomId), zap.String("user_id", userId))
	return nil
}

// ListMembers 查询群聊成员列表
func (s *Service) ListMembers(roomId string) ([]respond.ParticipantRespond, error) {
	if _, err := s.repos.Room.FindByUuid(roomId); err != nil {
		return nil, err
	}
	members, err := s.repos.Member.FindByRoomUuid(roomId)
	if err != nil {
		return nil, err
	}
	participants := make([]respond.ParticipantRespond, 0, len(members))
	for _, m := range members {
		participants = append(participants, respond.ParticipantRespond{
			UserId:   m.UserUuid,
			UserRole: m.UserRole,
			Role:     m.MemberRole,
			JoinedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return participants, nil
}

// ListUserRooms 查询用户参与的全部未归档房间，按最近活跃排序
// 旁路缓存：先查 Redis，未命中回源数据库并异步回填
func (s *Service) ListUserRooms(userId string) (*respond.RoomListRespond, error) {
	ctx := context.Background()
	key := roomListCacheKey(userId)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var rsp respond.RoomListRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
		// 缓存内容损坏时当作未命中处理
		zap.L().Warn("房间列表缓存内容损坏", zap.String("key", key))
	}

	rooms, err := s.repos.Room.FindRoomsByUser(userId)
	if err != nil {
		return nil, err
	}
	rsp := &respond.RoomListRespond{ChatRooms: make([]respond.ChatRoomRespond, 0, len(rooms))}
	for i := range rooms {
		members, err := s.repos.Member.FindByRoomUuid(rooms[i].Uuid)
		if err != nil {
			return nil, err
		}
		rsp.ChatRooms = append(rsp.ChatRooms, respond.NewChatRoomRespond(&rooms[i], members))
	}

	if data, err := json.Marshal(rsp); err == nil {
		s.cache.SubmitTask(func() {
			if err := s.cache.Set(context.Background(), key, string(data), time.Minute*constants.REDIS_TIMEOUT); err != nil {
				zap.L().Warn("回填房间列表缓存失败", zap.String("key", key), zap.Error(err))
			}
		})
	}
	return rsp, nil
}

// invalidateRoomList 异步失效一批用户的房间列表缓存
func (s *Service) invalidateRoomList(userIds ...string) {
	for _, userId := range userIds {
		key := roomListCacheKey(userId)
		s.cache.SubmitTask(func() {
			if err := s.cache.Delete(context.Background(), key); err != nil {
				zap.L().Warn("失效房间列表缓存失败", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
