// Package channelkey 提供直发频道键的唯一实现
// 消息路由和聊天室服务都必须引用这里，不得内联重复实现
package channelkey

// Derive 根据两名用户 ID 派生确定性的直发频道键
// 取两个 ID 的升序拼接，保证 Derive(a, b) == Derive(b, a)，
// 双方无论谁先发起都会收敛到同一个隐式频道
func Derive(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "-" + b
}
