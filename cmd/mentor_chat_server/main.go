package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mentor_chat_server/internal/config"
	dao "mentor_chat_server/internal/dao/mysql"
	myredis "mentor_chat_server/internal/dao/redis"
	"mentor_chat_server/internal/handler"
	"mentor_chat_server/internal/https_server"
	"mentor_chat_server/internal/infrastructure/logger"
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/internal/service/chatroom"
	"mentor_chat_server/internal/service/message"
	"mentor_chat_server/pkg/util/jwt"
	"mentor_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库并拿到 Repository 层
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT 与雪花节点
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init()

	// 6. 初始化参数校验翻译器
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 7. 组装 Service 层（依赖注入）
	roomSvc := chatroom.NewService(repos, myredis.GetCacheService())
	msgSvc := message.NewService(repos)
	chatSrv := chat.NewChatServer(repos, roomSvc)
	zap.L().Info("Service 层初始化成功")

	// 8. 初始化 HTTP 服务器
	handlers := handler.NewHandlers(roomSvc, msgSvc, chatSrv)
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	// 9. 启动消息代理和 HTTP 服务
	go chatSrv.Start()

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	chatSrv.Close()
	zap.L().Info("服务器已关闭")
}
