// server.go
// 核心职责：实时核心的组装
// 按配置选择进程内或 Kafka 消息代理，把注册表、房间表、
// 在线状态广播器和事件路由器接成一个可启动的整体
package chat

import (
	"mentor_chat_server/internal/config"
	"mentor_chat_server/internal/dao/mysql/repository"

	"go.uber.org/zap"
)

// ChatServer 实时聊天核心
type ChatServer struct {
	Registry *SessionRegistry
	Rooms    *RoomManager
	Presence *PresenceBroadcaster
	Router   *EventRouter
	Broker   MessageBroker
}

// NewChatServer 组装实时聊天核心
// messageMode 为 "kafka" 时使用 Kafka 代理，其余情况使用进程内代理
func NewChatServer(repos *repository.Repositories, groups GroupRoomService) *ChatServer {
	registry := NewSessionRegistry()
	rooms := NewRoomManager()
	presence := NewPresenceBroadcaster(registry)
	router := NewEventRouter(registry, rooms, repos, groups)

	var broker MessageBroker
	mode := config.GetConfig().KafkaConfig.MessageMode
	if mode == "kafka" {
		broker = NewKafkaBroker(registry, rooms, presence, router)
	} else {
		broker = NewChannelBroker(registry, rooms, presence, router)
	}
	zap.L().Info("实时聊天核心已组装", zap.String("message_mode", mode))

	return &ChatServer{
		Registry: registry,
		Rooms:    rooms,
		Presence: presence,
		Router:   router,
		Broker:   broker,
	}
}

// Start 启动消息代理事件循环，阻塞调用
func (s *ChatServer) Start() {
	s.Broker.Start()
}

// Close 停止消息代理
func (s *ChatServer) Close() {
	s.Broker.Close()
}
