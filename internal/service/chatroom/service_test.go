package chatroom

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dao/mysql/repository"
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/pkg/errorx"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubCache 同步执行任务的内存缓存桩
type stubCache struct {
	data map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (s *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	return s.data[key], nil
}

func (s *stubCache) GetOrError(_ context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return v, nil
}

func (s *stubCache) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *stubCache) DeleteByPattern(_ context.Context, _ string) error {
	s.data = make(map[string]string)
	return nil
}

func (s *stubCache) SubmitTask(action func()) {
	action()
}

// newTestService 用内存数据库搭一个聊天室服务
func newTestService(t *testing.T) *Service {
	t.Helper()
	// 按测试名隔离内存数据库，cache=shared 让同一连接池内的连接看到同一份数据
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库: %v", err)
	}
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("迁移表结构: %v", err)
	}
	return NewService(repository.NewRepositories(db), newStubCache())
}

func TestCreatePrivateRoomIdempotent(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.CreatePrivateRoom("student_1", "student",
		&request.CreatePrivateChatRequest{RecipientId: "mentor_1", RecipientRole: "mentor"})
	if err != nil {
		t.Fatalf("首次创建私聊: %v", err)
	}
	if !first.IsNew {
		t.Error("首次创建 isNew 应为 true")
	}
	if got := len(first.ChatRoom.Participants); got != 2 {
		t.Fatalf("私聊成员数 = %d, want 2", got)
	}

	// 对方反向发起，必须收敛到同一间房
	second, err := svc.CreatePrivateRoom("mentor_1", "mentor",
		&request.CreatePrivateChatRequest{RecipientId: "student_1", RecipientRole: "student"})
	if err != nil {
		t.Fatalf("反向创建私聊: %v", err)
	}
	if second.IsNew {
		t.Error("重复创建 isNew 应为 false")
	}
	if second.ChatRoom.Id != first.ChatRoom.Id {
		t.Errorf("反向创建返回了不同的房间: %s vs %s", second.ChatRoom.Id, first.ChatRoom.Id)
	}
}

func TestCreatePrivateRoomRejectsSelf(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreatePrivateRoom("student_1", "student",
		&request.CreatePrivateChatRequest{RecipientId: "student_1", RecipientRole: "student"})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("与自己创建私聊应返回参数错误, got %v", err)
	}
}

func TestCreateGroupRoomDeduplicatesCreator(t *testing.T) {
	svc := newTestService(t)

	room, err := svc.CreateGroupRoom("mentor_1", "mentor", &request.CreateGroupChatRequest{
		Name: "Go 学习小组",
		ParticipantIds: []request.GroupParticipant{
			{UserId: "student_1", UserRole: "student"},
			{UserId: "mentor_1", UserRole: "mentor"}, // 创建者混在成员列表里
			{UserId: "student_1", UserRole: "student"}, // 重复成员
		},
	})
	if err != nil {
		t.Fatalf("创建群聊: %v", err)
	}
	if got := len(room.Participants); got != 2 {
		t.Fatalf("去重后成员数 = %d, want 2", got)
	}
	// 创建者必须是 admin
	for _, p := range room.Participants {
		if p.UserId == "mentor_1" && p.Role != "admin" {
			t.Errorf("创建者角色 = %q, want admin", p.Role)
		}
		if p.UserId == "student_1" && p.Role != "member" {
			t.Errorf("普通成员角色 = %q, want member", p.Role)
		}
	}
}

func TestJoinGroupConflictAndRejoin(t *testing.T) {
	svc := newTestService(t)

	room, err := svc.CreateGroupRoom("mentor_1", "mentor", &request.CreateGroupChatRequest{Name: "小组"})
	if err != nil {
		t.Fatalf("创建群聊: %v", err)
	}

	if err := svc.JoinGroup(room.Id, "student_1", "student"); err != nil {
		t.Fatalf("首次加入: %v", err)
	}
	// 重复加入是冲突
	if err := svc.JoinGroup(room.Id, "student_1", "student"); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("重复加入应返回冲突, got %v", err)
	}
	// 退出后重新加入必须成功（依赖硬删除，软删除残留会撞唯一索引）
	if err := svc.LeaveGroup(room.Id, "student_1"); err != nil {
		t.Fatalf("退出群聊: %v", err)
	}
	if err := svc.JoinGroup(room.Id, "student_1", "student"); err != nil {
		t.Errorf("退出后重新加入: %v", err)
	}
}

func TestJoinGroupEdgeCases(t *testing.T) {
	svc := newTestService(t)

	if err := svc.JoinGroup("R_not_exist", "student_1", "student"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("加入不存在的房间应返回 404, got %v", err)
	}

	private, err := svc.CreatePrivateRoom("student_1", "student",
		&request.CreatePrivateChatRequest{RecipientId: "mentor_1", RecipientRole: "mentor"})
	if err != nil {
		t.Fatalf("创建私聊: %v", err)
	}
	if err := svc.JoinGroup(private.ChatRoom.Id, "student_2", "student"); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("加入私聊房间应返回参数错误, got %v", err)
	}
}

func TestLeaveGroupNonMemberIsNoop(t *testing.T) {
	svc := newTestService(t)
	room, err := svc.CreateGroupRoom("mentor_1", "mentor", &request.CreateGroupChatRequest{Name: "小组"})
	if err != nil {
		t.Fatalf("创建群聊: %v", err)
	}
	if err := svc.LeaveGroup(room.Id, "student_9"); err != nil {
		t.Errorf("非成员退出应为空操作, got %v", err)
	}
}

func TestListUserRoomsUsesCache(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateGroupRoom("mentor_1", "mentor", &request.CreateGroupChatRequest{Name: "小组A"}); err != nil {
		t.Fatalf("创建群聊: %v", err)
	}

	first, err := svc.ListUserRooms("mentor_1")
	if err != nil {
		t.Fatalf("首次查询房间列表: %v", err)
	}
	if len(first.ChatRooms) != 1 {
		t.Fatalf("房间数 = %d, want 1", len(first.ChatRooms))
	}

	// 回填后再次查询应命中缓存，结果一致
	second, err := svc.ListUserRooms("mentor_1")
	if err != nil {
		t.Fatalf("二次查询房间列表: %v", err)
	}
	if len(second.ChatRooms) != 1 || second.ChatRooms[0].Id != first.ChatRooms[0].Id {
		t.Error("缓存命中结果与数据库结果不一致")
	}

	// 新建房间要失效缓存，列表随之更新
	if _, err := svc.CreateGroupRoom("mentor_1", "mentor", &request.CreateGroupChatRequest{Name: "小组B"}); err != nil {
		t.Fatalf("创建第二个群聊: %v", err)
	}
	third, err := svc.ListUserRooms("mentor_1")
	if err != nil {
		t.Fatalf("三次查询房间列表: %v", err)
	}
	if len(third.ChatRooms) != 2 {
		t.Errorf("失效缓存后房间数 = %d, want 2", len(third.ChatRooms))
	}
}
