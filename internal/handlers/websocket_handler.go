package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/pkg/config"
	"fleetops/pkg/jwt"
	"fleetops/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler WebSocket处理器
// 把公司事件频道（报告提交、文书更新、证书到期提醒）实时转发给前端
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	jwtManager *jwt.JWTManager
	log        *logrus.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler() *WebSocketHandler {
	cfg := config.GetConfig()
	allowedOrigins := cfg.CORS.AllowOrigins

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// 同源请求Origin为空，允许
				if origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if allowed == "*" || matchOrigin(origin, allowed) {
						return true
					}
				}

				logger.GetLogger().Warnf("WebSocket连接被拒绝，非法Origin: %s", origin)
				return false
			},
			ReadBufferSize:  1024 * 4,
			WriteBufferSize: 1024 * 4,
		},
		jwtManager: jwt.GetJWTManager(), // 使用全局JWT管理器
		log:        logger.GetLogger(),
	}
}

// FleetEvents 公司事件流WebSocket连接
func (h *WebSocketHandler) FleetEvents(c *gin.Context) {
	// 从查询参数获取token（WebSocket不支持自定义header）
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证令牌"})
		return
	}

	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的令牌"})
		return
	}

	// 与HTTP请求同样从数据库重建授权上下文
	sess, err := authz.Materialize(database.GetDB(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "认证失败"})
		return
	}

	if err := authz.Authorize(sess, "dashboard.view"); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "权限不足"})
		return
	}

	// 确定订阅的公司频道：普通用户锁定本公司，超级管理员通过company_id指定
	var companyID uint
	if sess.IsSuperAdmin() {
		cid, err := strconv.ParseUint(c.Query("company_id"), 10, 32)
		if err != nil || cid == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "缺少或非法的company_id"})
			return
		}
		companyID = uint(cid)
	} else {
		if sess.CompanyID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "未划归任何公司"})
			return
		}
		companyID = *sess.CompanyID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("WebSocket升级失败")
		return
	}
	defer conn.Close()

	h.log.WithFields(logrus.Fields{
		"company_id": companyID,
		"user_id":    sess.UserID,
	}).Info("事件流WebSocket连接建立")

	h.relayEvents(conn, companyID)
}

// relayEvents 订阅公司事件频道并转发给客户端
func (h *WebSocketHandler) relayEvents(conn *websocket.Conn, companyID uint) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.GetRedisQueue().Subscribe(companyID)
	defer pubsub.Close()

	// 等待订阅成功
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.WithError(err).Error("订阅事件频道失败")
		return
	}

	go h.readPump(conn, cancel)

	ch := pubsub.Channel()

	const writeTimeout = 10 * time.Second

	// 每60秒发送一次ping保持连接
	pingTicker := time.NewTicker(60 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case msg, ok := <-ch:
			if !ok {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			var event map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.WithError(err).Error("解析事件消息失败")
				continue
			}

			if err := conn.WriteJSON(event); err != nil {
				h.log.WithError(err).Error("事件消息发送失败")
				return
			}
		}
	}
}

// readPump 处理客户端消息（主要是ping/pong）
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 300 * time.Second
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("WebSocket异常关闭")
			}
			break
		}
	}
}

// matchOrigin 检查Origin是否匹配允许项（支持 *.example.com 通配）
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}

	if strings.HasPrefix(allowed, "*.") {
		domain := allowed[2:]

		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}
		if idx := strings.Index(originHost, ":"); idx != -1 {
			originHost = originHost[:idx]
		}

		return strings.HasSuffix(originHost, "."+domain) || originHost == domain
	}

	return false
}
