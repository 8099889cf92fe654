package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"KanbanGo/config"
	"KanbanGo/controllers"
	"KanbanGo/middleware"
	"KanbanGo/routes"
	"KanbanGo/services"
	"KanbanGo/utils"
)

func main() {
	// 初始化日志
	if err := config.InitLogger(); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer config.Logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	// 初始化数据库
	db, err := config.InitDB(conf)
	if err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
	}

	// 初始化对象存储并确保存储桶存在
	s3Client, err := config.InitStorage(context.Background(), conf)
	if err != nil {
		log.Fatalf("无法初始化对象存储: %v", err)
	}

	// 组装服务
	objectStore := services.NewMinioStore(s3Client, conf.MinioBucket)
	imageService := services.NewImageService(db, objectStore, conf.MinioBucket, conf.PublicBaseURL, config.Logger)
	taskService := services.NewTaskService(db, imageService, config.Logger)
	userService := services.NewUserService(db, conf.BcryptCost, config.Logger)
	jwtManager := utils.NewJWTManager(conf.JWTSecret, conf.JWTExpireMinutes)

	authController := controllers.NewAuthController(userService, jwtManager)
	taskController := controllers.NewTaskController(taskService)
	imageController := controllers.NewImageController(imageService)

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r, conf)

	// 注册路由
	routes.RegisterRoutes(r, authController, taskController, imageController, jwtManager)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		log.Printf("启动服务器，监听端口: %s", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 创建超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}

	log.Println("服务器已关闭")
}
