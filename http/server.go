// Package http 提供预测表单、JSON API与WebSocket服务
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 16,
	}
}

// NewServer 创建HTTP服务器
func NewServer(config ServerConfig, handler *Handler) *Server {
	return &Server{
		server: &http.Server{
			Addr:        fmt.Sprintf(":%d", config.Port),
			Handler:     NewRouter(config, handler),
			ReadTimeout: config.Timeout,
			// WebSocket连接是长连接，写超时由超时中间件控制
			IdleTimeout: 120 * time.Second,
		},
		config: config,
		logger: handler.logger,
	}
}

// NewRouter 注册所有路由与中间件
func NewRouter(config ServerConfig, h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(baseMiddleware(config, h.logger))

	r.Get("/api/ws/predict", h.handlePredictSocket(newUpgrader(config.AllowedOrigins)))

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.Timeout))

		r.Get("/", h.handleForm)
		r.Post("/", h.handleFormSubmit)
		r.Get("/api/health", h.handleHealth)
		r.Post("/api/predict", h.handlePredict)
		r.Handle("/static/*", h.staticHandler())
	})

	return r
}

// baseMiddleware 所有路由共用的中间件链
func baseMiddleware(config ServerConfig, logger *zap.Logger) Middleware {
	return Chain(
		RequestIDMiddleware,                        // 1. 请求ID（最先执行，恢复日志也能带上ID）
		RecoveryMiddleware(logger),                 // 2. 恢复中间件，捕获panic
		LoggerMiddleware(logger),                   // 3. 日志中间件
		SecurityHeadersMiddleware,                  // 4. 安全头中间件
		corsHandler(config.AllowedOrigins),         // 5. CORS中间件
		RequestSizeMiddleware(config.MaxBodyBytes), // 6. 请求大小限制
	)
}

func corsHandler(origins []string) Middleware {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	s.logger.Info("websocket endpoint", zap.String("url", "ws://localhost"+s.server.Addr+"/api/ws/predict"))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop 停止服务器
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Addr 返回服务器地址
func (s *Server) Addr() string {
	return s.server.Addr
}
