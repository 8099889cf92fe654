package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"KanbanGo/models"
	"KanbanGo/services"
	"KanbanGo/utils"
)

// AuthController 认证控制器
type AuthController struct {
	users *services.UserService
	jwt   *utils.JWTManager
}

func NewAuthController(users *services.UserService, jwt *utils.JWTManager) *AuthController {
	return &AuthController{users: users, jwt: jwt}
}

// Register 用户注册
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ac.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	})
}

// Login 用户登录
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ac.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	})
}

// Logout 登出。令牌无状态，客户端丢弃即可
func (ac *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "已登出"})
}

// Me 返回当前用户信息
func (ac *AuthController) Me(c *gin.Context) {
	uid := c.GetInt64("uid")

	user, err := ac.users.GetByID(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// UpdateMe 更新当前用户资料，邮箱可能变化所以重新签发令牌
func (ac *AuthController) UpdateMe(c *gin.Context) {
	uid := c.GetInt64("uid")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.UpdateProfile(uid, req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ac.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	})
}
