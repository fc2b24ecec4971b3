package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 订单邮件所在队列
const DefaultQueue = constants.QueueDefault

const (
	defaultMaxRetry  = 5
	defaultUniqueTTL = time.Hour
)

// Client 订单邮件任务的投递端，未启用时所有投递为空操作
type Client struct {
	client    *asynq.Client
	maxRetry  int
	uniqueTTL time.Duration
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	c := &Client{
		client:    asynq.NewClient(buildRedisOpt(cfg)),
		maxRetry:  defaultMaxRetry,
		uniqueTTL: defaultUniqueTTL,
	}
	if cfg.MaxRetry > 0 {
		c.maxRetry = cfg.MaxRetry
	}
	if cfg.UniqueTTLSeconds > 0 {
		c.uniqueTTL = time.Duration(cfg.UniqueTTLSeconds) * time.Second
	}
	return c, nil
}

// Enabled 是否真正投递任务
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmationEmail 投递下单确认邮件
// 同一订单只投递一次，重放的下单请求不会产生第二封邮件
func (c *Client) EnqueueOrderConfirmationEmail(ctx context.Context, payload OrderConfirmationEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderConfirmationEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, ConfirmationTaskID(payload.OrderID), opts...)
}

// EnqueueOrderStatusEmail 投递订单状态邮件，按订单与目标状态去重
func (c *Client) EnqueueOrderStatusEmail(ctx context.Context, payload OrderStatusEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, StatusTaskID(payload.OrderID, payload.Status), opts...)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, taskID string, opts ...asynq.Option) error {
	options := []asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(c.maxRetry),
		asynq.TaskID(taskID),
		asynq.Retention(c.uniqueTTL),
	}
	options = append(options, opts...)
	_, err := c.client.EnqueueContext(ctx, task, options...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// ConfirmationTaskID 确认邮件任务 ID
func ConfirmationTaskID(orderID uint) string {
	return fmt.Sprintf("order-confirmation:%d", orderID)
}

// StatusTaskID 状态邮件任务 ID
func StatusTaskID(orderID uint, status string) string {
	return fmt.Sprintf("order-status:%d:%s", orderID, strings.ToLower(strings.TrimSpace(status)))
}

// BuildServerConfig 生成 worker 的连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil && cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if cfg != nil && len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
