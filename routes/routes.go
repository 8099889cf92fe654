package routes

import (
	"github.com/gin-gonic/gin"

	"KanbanGo/controllers"
	"KanbanGo/middleware"
	"KanbanGo/utils"
)

func RegisterRoutes(r *gin.Engine, authController *controllers.AuthController,
	taskController *controllers.TaskController, imageController *controllers.ImageController,
	jwtManager *utils.JWTManager) {

	// 公开路由（无需认证）
	public := r.Group("/api/auth")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/logout", authController.Logout)
	}

	// 需要认证的路由
	private := r.Group("/api")
	private.Use(middleware.AuthMiddleware(jwtManager)) // 应用认证中间件
	{
		private.GET("/auth/me", authController.Me)
		private.PUT("/auth/me", authController.UpdateMe)

		private.GET("/tasks", taskController.List)
		private.POST("/tasks", taskController.Create)
		private.GET("/tasks/:id", taskController.Get)
		private.PUT("/tasks/:id", taskController.Update)
		private.DELETE("/tasks/:id", taskController.Delete)
		private.GET("/tasks/status/:status", taskController.ListByStatus)

		private.POST("/images/upload", imageController.Upload)
		private.GET("/images/user", imageController.ListUser)
		private.GET("/images/:id", imageController.Get)
		private.DELETE("/images/:id", imageController.Delete)
		private.DELETE("/images/temporary", imageController.DeleteTemporary)
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
