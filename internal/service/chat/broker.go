// broker.go
// 核心职责：消息代理抽象
// 单机部署使用进程内通道实现，多实例部署可切换到 Kafka 实现，
// 两者对连接层暴露同一套接口
package chat

// MessageBroker 消息代理
// 连接层通过它登记/注销连接并投递事件，不感知底层传输方式
type MessageBroker interface {
	// Publish 投递一个已盖章的事件信封
	Publish(env Envelope) error
	// RegisterClient 登记一条新建立的连接
	RegisterClient(c *UserConn)
	// UnregisterClient 注销一条断开的连接
	UnregisterClient(c *UserConn)
	// Start 启动事件循环，阻塞直到 Close 被调用
	Start()
	// Close 停止事件循环并释放资源
	Close()
}
