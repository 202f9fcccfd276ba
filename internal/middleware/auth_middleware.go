package middleware

import (
	"errors"
	"strings"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/jwt"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 权限中间件
type AuthMiddleware struct {
	jwtManager *jwt.JWTManager
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 登录校验
// 令牌只证明身份；权限集与公司归属每次请求都从数据库重建，
// 停用的账号即使持有未过期令牌也会在这里被拦下
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		// 验证token
		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Error(c, apperrors.CodeTokenInvalid, "Token无效或已过期")
			c.Abort()
			return
		}

		// 重建授权上下文（数据库读取失败同样按未认证处理）
		sess, err := authz.Materialize(database.GetDB(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "认证失败，请重新登录")
			c.Abort()
			return
		}

		// 将授权上下文保存到请求上下文
		c.Set("session", sess)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequirePermission 要求特定权限
// 拒绝时只返回通用消息，不回显缺失的权限slug
func (m *AuthMiddleware) RequirePermission(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)

		if err := authz.Authorize(sess, slug); err != nil {
			if errors.Is(err, authz.ErrUnauthenticated) {
				response.Unauthorized(c, "请先登录")
			} else {
				response.Forbidden(c, "权限不足")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin 要求超级管理员
func (m *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !sess.IsSuperAdmin() {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionFromContext 从请求上下文取出授权上下文
func SessionFromContext(c *gin.Context) *authz.Session {
	value, exists := c.Get("session")
	if !exists {
		return nil
	}
	sess, ok := value.(*authz.Session)
	if !ok {
		return nil
	}
	return sess
}
