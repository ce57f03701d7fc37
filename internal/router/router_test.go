package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dao/mysql/repository"
	"mentor_chat_server/internal/handler"
	"mentor_chat_server/internal/router"
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/internal/service/chatroom"
	"mentor_chat_server/internal/service/message"
	"mentor_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopCache struct{}

func (noopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (noopCache) Get(context.Context, string) (string, error)              { return "", nil }
func (noopCache) GetOrError(context.Context, string) (string, error) {
	return "", errors.New("key not found")
}
func (noopCache) Delete(context.Context, string) error          { return nil }
func (noopCache) DeleteByPattern(context.Context, string) error { return nil }
func (noopCache) SubmitTask(action func())                      { action() }

// newTestEngine 组装带完整中间件和路由的引擎
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("router-test-secret-32-characters!", 15, 168)
	if err := handler.InitTrans("en"); err != nil {
		t.Fatalf("初始化翻译器: %v", err)
	}

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

	roomSvc := chatroom.NewService(repos, noopCache{})
	msgSvc := message.NewService(repos)
	chatSrv := chat.NewChatServer(repos, roomSvc)

	engine := gin.New()
	rt := router.NewRouter(handler.NewHandlers(roomSvc, msgSvc, chatSrv))
	rt.RegisterRoutes(engine)
	return engine
}

// do 发送一个测试请求，token 为空则不带认证头
func do(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func accessToken(t *testing.T, userId, role string) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userId, role)
	if err != nil {
		t.Fatalf("签发测试令牌: %v", err)
	}
	return token
}

func TestHealthNoAuth(t *testing.T) {
	engine := newTestEngine(t)
	w := do(t, engine, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", w.Code)
	}
}

func TestChatRoutesRequireAuth(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodGet, "/api/chat/rooms", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("无令牌访问 = %d, want 401", w.Code)
	}

	w = do(t, engine, http.MethodGet, "/api/chat/rooms", "not-a-valid-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非法令牌访问 = %d, want 401", w.Code)
	}
}

func TestPrivateChatLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	student := accessToken(t, "student_1", "student")

	body := map[string]string{"recipientId": "mentor_1", "recipientModel": "mentor"}
	w := do(t, engine, http.MethodPost, "/api/chat/private", student, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("首次创建私聊 = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	// 重复创建返回 200 和已有房间
	w = do(t, engine, http.MethodPost, "/api/chat/private", student, body)
	if w.Code != http.StatusOK {
		t.Fatalf("重复创建私聊 = %d, want 200", w.Code)
	}
	var rsp struct {
		Data struct {
			IsNew bool `json:"isNew"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rsp); err != nil {
		t.Fatalf("解析响应: %v", err)
	}
	if rsp.Data.IsNew {
		t.Error("重复创建 isNew 应为 false")
	}

	// 双方的房间列表都能看到这间房
	w = do(t, engine, http.MethodGet, "/api/chat/rooms", accessToken(t, "mentor_1", "mentor"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("查房间列表 = %d, want 200", w.Code)
	}
	var list struct {
		Data struct {
			ChatRooms []struct {
				Type string `json:"type"`
			} `json:"chatRooms"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("解析房间列表: %v", err)
	}
	if len(list.Data.ChatRooms) != 1 || list.Data.ChatRooms[0].Type != "private" {
		t.Errorf("房间列表 = %s", w.Body.String())
	}
}

func TestPrivateChatValidation(t *testing.T) {
	engine := newTestEngine(t)
	student := accessToken(t, "student_1", "student")

	// 缺 recipientId
	w := do(t, engine, http.MethodPost, "/api/chat/private", student, map[string]string{"recipientModel": "mentor"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺参数 = %d, want 400", w.Code)
	}
	// 非法角色被 oneof 校验拦下
	w = do(t, engine, http.MethodPost, "/api/chat/private", student, map[string]string{"recipientId": "x_1", "recipientModel": "admin"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法角色 = %d, want 400", w.Code)
	}
}

func TestGroupLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	mentor := accessToken(t, "mentor_1", "mentor")
	student := accessToken(t, "student_1", "student")

	w := do(t, engine, http.MethodPost, "/api/chat/group", mentor, map[string]any{"name": "答疑群"})
	if w.Code != http.StatusCreated {
		t.Fatalf("创建群聊 = %d, want 201, body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Data.Id == "" {
		t.Fatalf("解析建群响应: %v body=%s", err, w.Body.String())
	}
	roomId := created.Data.Id

	if w = do(t, engine, http.MethodPost, "/api/chat/group/"+roomId+"/join", student, nil); w.Code != http.StatusOK {
		t.Fatalf("加入群聊 = %d, want 200", w.Code)
	}
	// 重复加入是冲突
	if w = do(t, engine, http.MethodPost, "/api/chat/group/"+roomId+"/join", student, nil); w.Code != http.StatusConflict {
		t.Errorf("重复加入 = %d, want 409", w.Code)
	}
	// 不存在的房间
	if w = do(t, engine, http.MethodPost, "/api/chat/group/R_not_exist/join", student, nil); w.Code != http.StatusNotFound {
		t.Errorf("加入不存在的房间 = %d, want 404", w.Code)
	}

	w = do(t, engine, http.MethodGet, "/api/chat/group/"+roomId+"/members", mentor, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("查成员 = %d, want 200", w.Code)
	}
	var members struct {
		Data []struct {
			UserId string `json:"userId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &members); err != nil {
		t.Fatalf("解析成员列表: %v", err)
	}
	if len(members.Data) != 2 {
		t.Errorf("成员数 = %d, want 2", len(members.Data))
	}

	if w = do(t, engine, http.MethodPost, "/api/chat/group/"+roomId+"/leave", student, nil); w.Code != http.StatusOK {
		t.Errorf("退出群聊 = %d, want 200", w.Code)
	}
}

func TestSendAndFetchMessagesOverHTTP(t *testing.T) {
	engine := newTestEngine(t)
	mentor := accessToken(t, "mentor_1", "mentor")
	student := accessToken(t, "student_1", "student")

	w := do(t, engine, http.MethodPost, "/api/chat/group", mentor, map[string]any{
		"name": "小组",
		"participantIds": []map[string]string{
			{"userId": "student_1", "userModel": "student"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("创建群聊 = %d", w.Code)
	}
	var created struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	roomId := created.Data.Id

	w = do(t, engine, http.MethodPost, "/api/chat/send", mentor, map[string]string{
		"chatRoom": roomId,
		"content":  "作业记得交",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("HTTP 发消息 = %d, want 201, body=%s", w.Code, w.Body.String())
	}
	var sent struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil || sent.Data.Id == "" {
		t.Fatalf("解析发送响应: %v", err)
	}

	// 成员能拉到历史
	w = do(t, engine, http.MethodGet, "/api/chat/room/"+roomId+"/messages", student, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("拉历史 = %d, want 200", w.Code)
	}
	var history struct {
		Data struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
			HasMore bool `json:"hasMore"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history.Data.Messages) != 1 || history.Data.Messages[0].Content != "作业记得交" {
		t.Errorf("历史 = %s", w.Body.String())
	}

	// 非成员拉历史是 404
	outsider := accessToken(t, "student_9", "student")
	if w = do(t, engine, http.MethodGet, "/api/chat/room/"+roomId+"/messages", outsider, nil); w.Code != http.StatusNotFound {
		t.Errorf("非成员拉历史 = %d, want 404", w.Code)
	}

	// 标记已读
	w = do(t, engine, http.MethodPost, "/api/chat/read", student, map[string]any{
		"messageIds": []string{sent.Data.Id},
	})
	if w.Code != http.StatusOK {
		t.Errorf("标记已读 = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}
