// hub.go
// 核心职责：进程内消息代理
// 登录、登出、事件转发全部经由单一 select 循环串行处理，
// 注册表与房间表的结构性变更因此天然有序
package chat

import (
	"mentor_chat_server/pkg/constants"

	"go.uber.org/zap"
)

// ChannelBroker 基于 channel 的进程内消息代理
type ChannelBroker struct {
	Login    chan *UserConn
	Logout   chan *UserConn
	Transmit chan Envelope
	done     chan struct{}

	registry *SessionRegistry
	rooms    *RoomManager
	presence *PresenceBroadcaster
	router   *EventRouter
}

// NewChannelBroker 创建进程内消息代理
func NewChannelBroker(registry *SessionRegistry, rooms *RoomManager, presence *PresenceBroadcaster, router *EventRouter) *ChannelBroker {
	return &ChannelBroker{
		Login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
		Transmit: make(chan Envelope, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
		registry: registry,
		rooms:    rooms,
		presence: presence,
		router:   router,
	}
}

// Publish 把事件信封投入转发通道
func (b *ChannelBroker) Publish(env Envelope) error {
	b.Transmit <- env
	return nil
}

// RegisterClient 登记新连接
func (b *ChannelBroker) RegisterClient(c *UserConn) {
	b.Login <- c
}

// UnregisterClient 注销连接
func (b *ChannelBroker) UnregisterClient(c *UserConn) {
	b.Logout <- c
}

// handleLogin 处理一条连接的登记
func (b *ChannelBroker) handleLogin(c *UserConn) {
	first := b.registry.Register(c)
	zap.L().Info("连接已登记",
		zap.String("user_id", c.UserId),
		zap.String("conn_id", c.ConnId),
		zap.Bool("first", first))
	if first {
		b.presence.UserOnline(c.UserId)
	}
}

// handleLogout 处理一条连接的注销
func (b *ChannelBroker) handleLogout(c *UserConn) {
	b.rooms.LeaveAll(c)
	last := b.registry.Remove(c)
	c.Close()
	zap.L().Info("连接已注销",
		zap.String("user_id", c.UserId),
		zap.String("conn_id", c.ConnId),
		zap.Bool("last", last))
	if last {
		b.presence.UserOffline(c.UserId)
	}
}

// drainLogin 清空登记队列
// 连接的首个事件可能紧跟在登记之后入队，分发前必须保证
// 先于该事件入队的登记都已生效，否则回执会找不到连接
func (b *ChannelBroker) drainLogin() {
	for {
		select {
		case c := <-b.Login:
			b.handleLogin(c)
		default:
			return
		}
	}
}

// Start 事件循环
func (b *ChannelBroker) Start() {
	zap.L().Info("进程内消息代理已启动")
	for {
		select {
		case c := <-b.Login:
			b.handleLogin(c)
		case c := <-b.Logout:
			b.handleLogout(c)
		case env := <-b.Transmit:
			b.drainLogin()
			b.router.Dispatch(env)
		case <-b.done:
			zap.L().Info("进程内消息代理已停止")
			return
		}
	}
}

// Close 停止事件循环
func (b *ChannelBroker) Close() {
	close(b.done)
}
