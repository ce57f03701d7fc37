package message

import (
	"fmt"
	"strconv"
	"testing"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dao/mysql/repository"
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/errorx"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService 用内存数据库搭一个消息服务，附带一间两人群聊
func newTestService(t *testing.T) (*Service, *repository.Repositories, string) {
	t.Helper()
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
	repos := repository.NewRepositories(db)

	room := &model.ChatRoom{
		Uuid:        "Rtestroom0001",
		Type:        "group",
		Name:        "测试小组",
		CreatorId:   "mentor_1",
		CreatorRole: "mentor",
	}
	if err := repos.Room.Create(room); err != nil {
		t.Fatalf("建房间: %v", err)
	}
	for _, m := range []model.RoomMember{
		{RoomUuid: room.Uuid, UserUuid: "mentor_1", UserRole: "mentor", MemberRole: "admin"},
		{RoomUuid: room.Uuid, UserUuid: "student_1", UserRole: "student", MemberRole: "member"},
	} {
		m := m
		if err := repos.Member.Create(&m); err != nil {
			t.Fatalf("加成员: %v", err)
		}
	}
	return NewService(repos), repos, room.Uuid
}

func TestSendRoomMessageAdvancesPointer(t *testing.T) {
	svc, repos, roomId := newTestService(t)

	rsp, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{
		ChatRoom: roomId,
		Content:  "大家好",
	})
	if err != nil {
		t.Fatalf("发送房间消息: %v", err)
	}
	if rsp.MessageType != "text" {
		t.Errorf("缺省消息类型 = %q, want text", rsp.MessageType)
	}

	room, err := repos.Room.FindByUuid(roomId)
	if err != nil {
		t.Fatalf("查房间: %v", err)
	}
	// 消息落库和指针推进在同一事务里，指针必须指向刚发的消息
	if got := strconv.FormatInt(room.LastMessageUuid, 10); got != rsp.Id {
		t.Errorf("房间最新消息指针 = %s, want %s", got, rsp.Id)
	}
	if !room.LastMessageAt.Valid {
		t.Error("房间最新消息时间未更新")
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, roomId := newTestService(t)

	if _, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{ChatRoom: roomId}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("空内容应返回参数错误, got %v", err)
	}
	if _, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{Content: "hi"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("既无房间也无接收者应返回参数错误, got %v", err)
	}
	if _, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{ChatRoom: roomId, Content: "hi", MessageType: "video"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("非法消息类型应返回参数错误, got %v", err)
	}
	if _, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{ChatRoom: "R_not_exist", Content: "hi"}); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("不存在的房间应返回 404, got %v", err)
	}
}

func TestReceiverAliasNormalization(t *testing.T) {
	svc, _, _ := newTestService(t)

	// receiverId 优先于 receiver
	rsp, err := svc.SendMessage("student_1", "student", &request.SendMessageRequest{
		Receiver:     "ignored_user",
		ReceiverId:   "mentor_1",
		ReceiverRole: "mentor",
		Content:      "你好",
	})
	if err != nil {
		t.Fatalf("直发消息: %v", err)
	}
	if rsp.Receiver != "mentor_1" {
		t.Errorf("接收者 = %q, want mentor_1", rsp.Receiver)
	}
}

func TestGetRoomMessagesPagingAndOrder(t *testing.T) {
	svc, _, roomId := newTestService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{
			ChatRoom: roomId,
			Content:  fmt.Sprintf("第%d条", i),
		}); err != nil {
			t.Fatalf("发送第 %d 条: %v", i, err)
		}
	}

	page1, err := svc.GetRoomMessages("student_1", roomId, 1, 2)
	if err != nil {
		t.Fatalf("查第一页: %v", err)
	}
	if len(page1.Messages) != 2 {
		t.Fatalf("第一页消息数 = %d, want 2", len(page1.Messages))
	}
	if !page1.HasMore {
		t.Error("第一页之后还有消息，hasMore 应为 true")
	}
	// 页内按时间正序，最新的两条是第3、4条
	if page1.Messages[0].Content != "第3条" || page1.Messages[1].Content != "第4条" {
		t.Errorf("第一页内容 = [%s, %s], want [第3条, 第4条]",
			page1.Messages[0].Content, page1.Messages[1].Content)
	}
	if page1.ChatRoom == nil || page1.ChatRoom.Id != roomId {
		t.Error("房间消息响应应附带房间信息")
	}

	page3, err := svc.GetRoomMessages("student_1", roomId, 3, 2)
	if err != nil {
		t.Fatalf("查第三页: %v", err)
	}
	if len(page3.Messages) != 1 || page3.HasMore {
		t.Errorf("最后一页消息数 = %d hasMore = %v, want 1 false", len(page3.Messages), page3.HasMore)
	}
}

func TestGetRoomMessagesDeniesNonMember(t *testing.T) {
	svc, _, roomId := newTestService(t)

	// 非成员与房间不存在返回同样的错误，不暴露房间存在性
	if _, err := svc.GetRoomMessages("student_9", roomId, 1, 50); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("非成员拉取历史应返回 404, got %v", err)
	}
	if _, err := svc.GetRoomMessages("student_9", "R_not_exist", 1, 50); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("不存在的房间应返回 404, got %v", err)
	}
}

func TestGetPrivateMessagesBidirectional(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.SendMessage("student_1", "student", &request.SendMessageRequest{
		ReceiverId: "mentor_1", ReceiverRole: "mentor", Content: "问",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{
		ReceiverId: "student_1", ReceiverRole: "student", Content: "答",
	}); err != nil {
		t.Fatal(err)
	}

	// 双方任一视角都要看到完整的双向往来
	list, err := svc.GetPrivateMessages("mentor_1", "student_1", 1, 50)
	if err != nil {
		t.Fatalf("拉取直发历史: %v", err)
	}
	if len(list.Messages) != 2 {
		t.Fatalf("直发消息数 = %d, want 2", len(list.Messages))
	}
	if list.Messages[0].Content != "问" || list.Messages[1].Content != "答" {
		t.Error("直发历史应按时间正序排列")
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	svc, repos, roomId := newTestService(t)

	rsp, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{
		ChatRoom: roomId,
		Content:  "请查收",
	})
	if err != nil {
		t.Fatal(err)
	}

	req := &request.MarkReadRequest{MessageIds: []string{rsp.Id}}
	if _, err := svc.MarkRead("student_1", "student", req); err != nil {
		t.Fatalf("首次标记已读: %v", err)
	}
	// 重复标记必须幂等
	if _, err := svc.MarkRead("student_1", "student", req); err != nil {
		t.Fatalf("重复标记已读: %v", err)
	}

	uuid, _ := strconv.ParseInt(rsp.Id, 10, 64)
	receipts, err := repos.Message.FindReceipts(uuid)
	if err != nil {
		t.Fatalf("查回执: %v", err)
	}
	if len(receipts) != 1 {
		t.Errorf("回执数 = %d, want 1", len(receipts))
	}

	// 历史消息响应要带上回执
	list, err := svc.GetRoomMessages("mentor_1", roomId, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Messages) != 1 || len(list.Messages[0].ReadBy) != 1 {
		t.Error("历史消息应附带已读回执")
	}
	if !list.Messages[0].IsRead {
		t.Error("标记已读后聚合标志应为 true")
	}
}

func TestMarkReadSkipsInvalidIds(t *testing.T) {
	svc, _, roomId := newTestService(t)

	rsp, err := svc.SendMessage("mentor_1", "mentor", &request.SendMessageRequest{
		ChatRoom: roomId,
		Content:  "hi",
	})
	if err != nil {
		t.Fatal(err)
	}

	acked, err := svc.MarkRead("student_1", "student", &request.MarkReadRequest{
		MessageIds: []string{"not-a-snowflake", rsp.Id},
	})
	if err != nil {
		t.Fatalf("混合非法 ID 标记已读: %v", err)
	}
	if len(acked) != 1 || acked[0] != rsp.Id {
		t.Errorf("受理的消息 ID = %v, want [%s]", acked, rsp.Id)
	}

	if _, err := svc.MarkRead("student_1", "student", &request.MarkReadRequest{
		MessageIds: []string{"全是", "非法ID"},
	}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("全部非法 ID 应返回参数错误, got %v", err)
	}
}
