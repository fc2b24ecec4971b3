package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/logger"
)

// HTTPService 店铺 API 的 HTTP 服务
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 按服务器配置创建 HTTP 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: secondsOr(cfg.ReadHeaderTimeoutSeconds, 10),
			WriteTimeout:      secondsOr(cfg.WriteTimeoutSeconds, 60),
			MaxHeaderBytes:    1 << 20,
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	return s.server.Addr
}

// Start 开始监听，Shutdown 触发的关闭不视为错误
func (s *HTTPService) Start(ctx context.Context) error {
	logger.Infow("http_listening", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop 优雅关闭，等待进行中的请求完成
func (s *HTTPService) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func secondsOr(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
