package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisQueue 事件队列实现
// 船期报告、到港文书等动作写入队列供外部系统消费，
// 同时按公司发布到频道供WebSocket实时推送
type RedisQueue struct {
	client *redis.Client
	prefix string
}

// EventMessage 队列中的事件消息
type EventMessage struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"` // report.submitted / document.updated 等
	CompanyID uint                   `json:"company_id"`
	VesselID  uint                   `json:"vessel_id,omitempty"`
	UserID    uint                   `json:"user_id"`  // 触发人ID
	Username  string                 `json:"username"` // 触发人用户名
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Created   int64                  `json:"created"`
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewRedisQueue 创建Redis事件队列实例
func NewRedisQueue(config *Config) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "fleetops:events"
	}

	return &RedisQueue{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// Ping 测试Redis连接
func (q *RedisQueue) Ping() error {
	ctx := context.Background()
	return q.client.Ping(ctx).Err()
}

// Publish 发布事件：入队并推送到公司频道
func (q *RedisQueue) Publish(event *EventMessage) error {
	ctx := context.Background()

	if event.Created == 0 {
		event.Created = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件消息失败: %v", err)
	}

	// 加入队列（左侧入队），供外部消费者BRPOP
	if err := q.client.LPush(ctx, q.queueKey(), data).Err(); err != nil {
		return fmt.Errorf("事件入队失败: %v", err)
	}

	// 发布到公司频道，供实时订阅
	if err := q.client.Publish(ctx, q.ChannelKey(event.CompanyID), data).Err(); err != nil {
		return fmt.Errorf("事件发布失败: %v", err)
	}

	return nil
}

// Subscribe 订阅指定公司的事件频道
func (q *RedisQueue) Subscribe(companyID uint) *redis.PubSub {
	ctx := context.Background()
	return q.client.Subscribe(ctx, q.ChannelKey(companyID))
}

// QueueLength 队列当前长度
func (q *RedisQueue) QueueLength() (int64, error) {
	ctx := context.Background()
	return q.client.LLen(ctx, q.queueKey()).Result()
}

// ChannelKey 公司事件频道键
func (q *RedisQueue) ChannelKey(companyID uint) string {
	return fmt.Sprintf("%s:channel:%d", q.prefix, companyID)
}

func (q *RedisQueue) queueKey() string {
	return fmt.Sprintf("%s:stream", q.prefix)
}

// GetClient 获取底层Redis客户端
func (q *RedisQueue) GetClient() *redis.Client {
	return q.client
}
