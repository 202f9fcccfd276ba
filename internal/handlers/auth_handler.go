package handlers

import (
	"strings"
	"time"

	"fleetops/internal/database"
	"fleetops/internal/middleware"
	"fleetops/internal/services"
	"fleetops/pkg/errors"
	"fleetops/pkg/jwt"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		userService: services.NewUserService(database.GetDB()),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      UserInfo `json:"user"`
}

type UserInfo struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID *uint  `json:"company_id"`
	RoleName  string `json:"role_name"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	// 根据用户名获取用户
	user, err := h.userService.GetByUsername(req.Username)
	if err != nil {
		response.Unauthorized(c, "用户名或密码错误")
		return
	}

	// 检查用户状态
	if !h.userService.IsActive(user) {
		response.Error(c, errors.CodeAccountDisabled, "用户已被禁用")
		return
	}

	// 验证密码
	if !user.CheckPassword(req.Password) {
		response.Unauthorized(c, "用户名或密码错误")
		return
	}

	// 生成Token（只放身份，权限每次请求重新解析）
	token, err := h.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	// 更新最后登录时间
	if err := h.userService.UpdateLastLogin(user.ID); err != nil {
		// 记录失败不影响登录流程
	}

	// 计算过期时间
	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	resp := LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Name:      user.Name,
			CompanyID: user.CompanyID,
			RoleName:  roleName,
		},
	}

	response.Success(c, resp)
}

// Logout 用户登出
func (h *AuthHandler) Logout(c *gin.Context) {
	// 获取并验证当前token
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		// 没有token也算登出成功
		response.Success(c, gin.H{
			"message": "登出成功",
		})
		return
	}

	tokenString := authHeader[7:] // 去掉 "Bearer "

	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		// token无效也算登出成功
		response.Success(c, gin.H{
			"message": "登出成功",
		})
		return
	}

	// Token到期自动失效，前端删除本地存储即可
	response.Success(c, gin.H{
		"message":     "登出成功",
		"user_id":     claims.UserID,
		"username":    claims.Username,
		"logout_time": time.Now(),
	})
}

// RefreshToken 刷新Token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "缺少认证头")
		return
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		response.Unauthorized(c, "认证头格式错误")
		return
	}

	tokenString := authHeader[7:] // 去掉 "Bearer "

	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		response.Unauthorized(c, "Token无效")
		return
	}

	// 获取用户信息
	user, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "用户不存在")
		return
	}

	// 检查用户状态
	if !h.userService.IsActive(user) {
		response.Error(c, errors.CodeAccountDisabled, "用户已被禁用")
		return
	}

	newToken, err := h.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		response.ServerError(c, "生成新Token失败")
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	response.Success(c, gin.H{
		"token":      newToken,
		"expires_at": expiresAt,
		"message":    "Token刷新成功",
	})
}

// Me 当前用户信息与生效权限
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		response.Unauthorized(c, "请先登录")
		return
	}

	response.Success(c, gin.H{
		"user_id":          sess.UserID,
		"username":         sess.Username,
		"role_name":        sess.RoleName,
		"company_id":       sess.CompanyID,
		"is_super_admin":   sess.IsSuperAdmin(),
		"own_records_only": sess.OwnRecordsOnly,
		"permissions":      sess.Perms.Slugs(),
	})
}
