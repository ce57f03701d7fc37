// conn.go
// 核心职责：WebSocket 连接接入
// 握手前完成访问令牌校验，失败直接返回 401，不进行协议升级
// 每条连接持有独立的读写泵：读泵把客户端事件盖上发送者身份后交给消息代理，
// 写泵串行消费发送缓冲，保证对同一连接的并发写安全
package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UserConn 一条已认证的 WebSocket 连接
type UserConn struct {
	Conn        *websocket.Conn
	ConnId      string // 每条连接唯一，同一用户多端连接互不相同
	UserId      string
	Role        string
	ConnectedAt time.Time
	SendBack    chan []byte // 写泵的发送缓冲

	broker MessageBroker

	mu     sync.Mutex
	closed bool
}

// Send 向该连接投递一条消息
// 连接已关闭或缓冲已满时丢弃，不阻塞调用方
func (c *UserConn) Send(payload []byte) {
	if payload == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.SendBack <- payload:
	default:
		zap.L().Warn("连接发送缓冲已满，消息被丢弃",
			zap.String("user_id", c.UserId), zap.String("conn_id", c.ConnId))
	}
}

// Close 关闭连接，幂等
func (c *UserConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.SendBack)
	_ = c.Conn.Close()
}

// connToken 从查询参数或 Authorization 头提取访问令牌
func connToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// ServeWs WebSocket 接入处理函数
// 认证通过后才升级协议并向消息代理登记连接
func ServeWs(broker MessageBroker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := connToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少访问令牌"})
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil || claims.Subject != "access_token" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的访问令牌"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			zap.L().Error("WebSocket 协议升级失败", zap.Error(err))
			return
		}

		uc := &UserConn{
			Conn:        conn,
			ConnId:      uuid.NewString(),
			UserId:      claims.UserID,
			Role:        claims.Role,
			ConnectedAt: time.Now(),
			SendBack:    make(chan []byte, constants.CHANNEL_SIZE),
			broker:      broker,
		}

		broker.RegisterClient(uc)
		go uc.Read()
		go uc.Write()
	}
}

// Read 读泵
// 客户端事件在这里被盖上服务端认定的发送者身份，
// 客户端自报的 sender 字段一律不被信任
func (c *UserConn) Read() {
	defer func() {
		c.broker.UnregisterClient(c)
	}()
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("连接异常关闭",
					zap.String("user_id", c.UserId), zap.Error(err))
			}
			return
		}
		var in InboundEvent
		if err := json.Unmarshal(data, &in); err != nil || in.Event == "" {
			c.Send(ServerEvent(EventMessageError, ErrorPayload{Error: "无法解析的事件"}))
			continue
		}
		env := Envelope{
			Event:      in.Event,
			SenderId:   c.UserId,
			SenderRole: c.Role,
			ConnId:     c.ConnId,
			Data:       in.Data,
		}
		if err := c.broker.Publish(env); err != nil {
			zap.L().Error("事件投递到消息代理失败",
				zap.String("user_id", c.UserId), zap.Error(err))
		}
	}
}

// Write 写泵，串行消费发送缓冲直至连接关闭
func (c *UserConn) Write() {
	for payload := range c.SendBack {
		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			zap.L().Warn("向客户端写消息失败",
				zap.String("user_id", c.UserId), zap.Error(err))
			return
		}
	}
}
