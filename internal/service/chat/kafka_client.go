// kafka_client.go
// 核心职责：Kafka 基础设施封装
// 封装生产者/消费者的创建、写入与关闭，不包含聊天业务逻辑
package chat

import (
	"context"
	"time"

	"mentor_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaClient Kafka 客户端
type KafkaClient struct {
	Producer *kafka.Writer
	Consumer *kafka.Reader
}

// NewKafkaClient 按配置创建并初始化 Kafka 客户端
func NewKafkaClient() *KafkaClient {
	kafkaConfig := config.GetConfig().KafkaConfig
	return &KafkaClient{
		Producer: &kafka.Writer{
			Addr:                   kafka.TCP(kafkaConfig.HostPort),
			Topic:                  kafkaConfig.ChatTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           kafkaConfig.Timeout * time.Second,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: false,
		},
		Consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{kafkaConfig.HostPort},
			Topic:          kafkaConfig.ChatTopic,
			CommitInterval: kafkaConfig.Timeout * time.Second,
			GroupID:        "mentor_chat",
			StartOffset:    kafka.LastOffset,
		}),
	}
}

// WriteEnvelope 向聊天事件主题写入一个事件信封
// 以发送者 ID 为分区键，保证同一用户的事件有序
func (k *KafkaClient) WriteEnvelope(ctx context.Context, key, value []byte) error {
	return k.Producer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// Close 关闭生产者和消费者
func (k *KafkaClient) Close() {
	if err := k.Producer.Close(); err != nil {
		zap.L().Error("关闭 Kafka 生产者失败", zap.Error(err))
	}
	if err := k.Consumer.Close(); err != nil {
		zap.L().Error("关闭 Kafka 消费者失败", zap.Error(err))
	}
}
