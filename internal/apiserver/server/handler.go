// Package server 路由配置与横切基础设施
//
// 本包将请求分发到各领域独立包（auth/product/order），并承担
// 请求日志、CORS、限流、Prometheus 指标等横切关注点。
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"pasteleria-api/internal/apiserver/auth"
	"pasteleria-api/internal/apiserver/order"
	"pasteleria-api/internal/apiserver/product"
	"pasteleria-api/internal/apiserver/respond"
	"pasteleria-api/internal/config"
	"pasteleria-api/internal/shared/storage"
)

// Handler API 入口
type Handler struct {
	store storage.Store
	cfg   *config.Config
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.Store, cfg *config.Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查 / 指标:
//   - GET  /health                    - 服务健康检查（无需认证）
//   - GET  /metrics                   - Prometheus 指标
//
// 认证 (Auth):
//   - POST /api/auth/register         - 注册
//   - POST /api/auth/login            - 登录
//   - GET  /api/auth/profile          - 查看个人资料（bearer）
//   - PUT  /api/auth/profile          - 更新个人资料（bearer）
//
// 产品 (Product):
//   - GET    /api/products            - 分页列出产品（公开）
//   - GET    /api/products/{id}       - 产品详情（公开）
//   - POST   /api/products            - 创建产品（admin）
//   - PUT    /api/products/{id}       - 更新产品（admin）
//   - DELETE /api/products/{id}       - 软停用产品（admin）
//
// 订单 (Order):
//   - POST /api/orders                - 下单（bearer）
//   - GET  /api/orders                - 按角色范围列出订单（bearer）
//   - PUT  /api/orders/{id}/status    - 设置订单状态（admin）
//
// 未匹配路由统一返回 404 错误信封。
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	debug := !h.cfg.IsProduction()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	authCfg := auth.Config{JWTSecret: h.cfg.JWTSecret, TokenTTL: h.cfg.TokenTTL}
	mw := auth.NewMiddleware(h.store, authCfg, debug)

	// Auth 接口
	authHandler := auth.NewHandler(h.store, authCfg, debug)
	authHandler.RegisterRoutes(mux, mw)

	// Product 接口
	productHandler := product.NewHandler(h.store, debug)
	productHandler.RegisterRoutes(mux, mw)

	// Order 接口
	orderHandler := order.NewHandler(h.store, debug)
	orderHandler.RegisterRoutes(mux, mw)

	// 兜底 404
	mux.HandleFunc("/", h.NotFound)

	// 中间件链（外层在前）：请求日志 → CORS → 限流 → 指标
	var handler http.Handler = mux
	handler = InstrumentHTTP(handler)
	handler = NewRateLimiter(h.cfg.RateLimit).Wrap(handler)
	handler = CORS(h.cfg.CORSOrigins)(handler)
	handler = RequestLog(handler)
	return handler
}

// Health 健康检查：{status, message, timestamp}
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "OK",
		"message":   "service operational",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound 未匹配路由的统一 404
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Err(w, respond.NewError(http.StatusNotFound, "resource not found"), !h.cfg.IsProduction())
}
