package worker

import (
	"context"
	"errors"
	"time"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 订单邮件 worker
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建 worker，队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = logger.Named("asynq")
	serverCfg.ShutdownTimeout = 15 * time.Second
	serverCfg.ErrorHandler = asynq.ErrorHandlerFunc(logTaskFailure)

	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, serverCfg), mux: mux}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 阻塞运行直到 Stop
func (s *Service) Start(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的邮件任务结束后退出
func (s *Service) Stop(ctx context.Context) error {
	s.server.Shutdown()
	return nil
}

func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger.Warnw("worker_task_failed",
		"task", task.Type(),
		"retried", retried,
		"max_retry", maxRetry,
		"error", err,
	)
}
