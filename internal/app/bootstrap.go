package app

import (
	"errors"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/provider"
	"github.com/saya-shop/internal/router"
	"github.com/saya-shop/internal/worker"
)

// BuildRunner 按模式组装服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		services = append(services, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container)))
	}

	switch {
	case mode == ModeWorker && !cfg.Queue.Enabled:
		return nil, errors.New("worker mode requires queue.enabled")
	case mode == ModeAll && !cfg.Queue.Enabled:
		// 订单邮件由通知器在进程内发送
		logger.Infow("worker_skipped", "reason", "queue_disabled")
	case mode == ModeAll || mode == ModeWorker:
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"services", runner.Services(),
	)
	return RunWithOptions(runner, opts)
}
