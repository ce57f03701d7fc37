// kafka_broker.go
// 核心职责：基于 Kafka 的消息代理
// 多实例部署时事件经 Kafka 中转：读泵把信封写入主题，
// 消费循环读回后走与进程内模式完全相同的事件分发；
// 登录/登出仍在本实例内处理，注册表只反映本机连接
package chat

import (
	"context"
	"encoding/json"

	"mentor_chat_server/pkg/constants"

	"go.uber.org/zap"
)

// KafkaBroker 基于 Kafka 的消息代理
type KafkaBroker struct {
	client *KafkaClient
	Login  chan *UserConn
	Logout chan *UserConn
	done   chan struct{}
	cancel context.CancelFunc

	registry *SessionRegistry
	rooms    *RoomManager
	presence *PresenceBroadcaster
	router   *EventRouter
}

// NewKafkaBroker 创建 Kafka 消息代理
func NewKafkaBroker(registry *SessionRegistry, rooms *RoomManager, presence *PresenceBroadcaster, router *EventRouter) *KafkaBroker {
	return &KafkaBroker{
		client:   NewKafkaClient(),
		Login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
		registry: registry,
		rooms:    rooms,
		presence: presence,
		router:   router,
	}
}

// Publish 把事件信封写入 Kafka 主题
// 以发送者 ID 作分区键，同一用户的事件按发送顺序被消费
func (b *KafkaBroker) Publish(env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.WriteEnvelope(context.Background(), []byte(env.SenderId), value)
}

// RegisterClient 登记新连接
func (b *KafkaBroker) RegisterClient(c *UserConn) {
	b.Login <- c
}

// UnregisterClient 注销连接
func (b *KafkaBroker) UnregisterClient(c *UserConn) {
	b.Logout <- c
}

// Start 启动消费循环与连接管理循环
func (b *KafkaBroker) Start() {
	zap.L().Info("Kafka 消息代理已启动")
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	// 消费循环：读回信封后与进程内模式共用同一个事件路由器
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("Kafka 消费循环 panic", zap.Any("recover", r))
			}
		}()
		for {
			msg, err := b.client.Consumer.ReadMessage(ctx)
			if err != nil {
				select {
				case <-b.done:
					return
				default:
				}
				zap.L().Error("读取 Kafka 消息失败", zap.Error(err))
				continue
			}
			var env Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				zap.L().Error("反序列化事件信封失败", zap.Error(err))
				continue
			}
			b.router.Dispatch(env)
		}
	}()

	for {
		select {
		case c := <-b.Login:
			first := b.registry.Register(c)
			zap.L().Info("连接已登记",
				zap.String("user_id", c.UserId),
				zap.String("conn_id", c.ConnId),
				zap.Bool("first", first))
			if first {
				b.presence.UserOnline(c.UserId)
			}
		case c := <-b.Logout:
			b.rooms.LeaveAll(c)
			last := b.registry.Remove(c)
			c.Close()
			if last {
				b.presence.UserOffline(c.UserId)
			}
		case <-b.done:
			zap.L().Info("Kafka 消息代理已停止")
			return
		}
	}
}

// Close 停止代理并释放 Kafka 资源
func (b *KafkaBroker) Close() {
	close(b.done)
	if b.cancel != nil {
		b.cancel()
	}
	b.client.Close()
}
