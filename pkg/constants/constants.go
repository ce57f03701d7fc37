package constants

const (
	CHANNEL_SIZE               = 100 // 通道大小
	REDIS_TIMEOUT              = 30  // redis 缓存过期时间 (分钟)
	DEFAULT_PAGE_SIZE          = 50  // 历史消息默认分页大小
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天
)
