// Package order 订单工作流
//
// 下单是本服务的核心业务：逐项校验产品与库存、立即逐项扣减库存、
// 快照行项目名称与单价、累计订单总额，最后持久化订单。
//
// 一致性说明（沿用既有设计，刻意不加固）：
//   - 行项目按提交顺序串行处理，任一项失败即中止整单；
//     此前已落库的扣减不回滚，属已知的弱一致点。
//   - 库存 check-then-decrement 为读后写两步操作，并发订单间无隔离，
//     极端时序下可能出现竞争。不做跨订单加锁，也不做事务性批量预留。
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"pasteleria-api/internal/apiserver/auth"
	"pasteleria-api/internal/apiserver/respond"
	"pasteleria-api/internal/apiserver/validate"
	"pasteleria-api/internal/shared/model"
	"pasteleria-api/internal/shared/storage"
)

// Store 订单工作流存储接口
type Store interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	UpdateProductStock(ctx context.Context, id string, stock int) error
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filter storage.OrderFilter) ([]*model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Handler 订单 HTTP 处理器
type Handler struct {
	store Store
	debug bool
}

// NewHandler 创建订单处理器
func NewHandler(store Store, debug bool) *Handler {
	return &Handler{store: store, debug: debug}
}

// RegisterRoutes 注册订单路由（全部需要认证）
func (h *Handler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	adminOnly := mw.RequireRole(model.UserRoleAdmin)

	mux.HandleFunc("POST /api/orders", mw.Authenticate(h.Create))
	mux.HandleFunc("GET /api/orders", mw.Authenticate(h.List))
	mux.HandleFunc("PUT /api/orders/{id}/status", mw.Authenticate(adminOnly(h.UpdateStatus)))
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type orderItemPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type deliveryAddressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
}

type createOrderRequest struct {
	Items           []orderItemPayload      `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string                  `json:"paymentMethod" validate:"omitempty,oneof=efectivo tarjeta transferencia"`
	DeliveryAddress *deliveryAddressPayload `json:"deliveryAddress"`
	Notes           string                  `json:"notes" validate:"max=500"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

type listResponse struct {
	Items      []*model.Order `json:"items"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// ============================================================================
// Handlers
// ============================================================================

// Create 下单
//
// 按提交顺序逐项处理：
//  1. 查产品，缺失或停用 → 400
//  2. 库存不足 → 400（该产品库存保持不变）
//  3. 立即扣减并持久化库存（不推迟到批量写）
//  4. 快照当前名称与单价，累计 quantity × price
//
// 全部行项目成功后以 pending 状态落库，响应中展开下单用户。
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	authUser := auth.GetUser(r.Context())
	if authUser == nil {
		respond.Err(w, respond.NewError(http.StatusUnauthorized, "not authenticated"), h.debug)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		ordersRejected.WithLabelValues("validation").Inc()
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	ctx := r.Context()
	var total float64
	items := make([]model.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		product, err := h.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			log.Printf("[order.create] GetProduct %s error: %v", item.ProductID, err)
			respond.Err(w, err, h.debug)
			return
		}
		if product == nil || !product.IsActive {
			ordersRejected.WithLabelValues("invalid_product").Inc()
			respond.Err(w, respond.NewError(http.StatusBadRequest,
				fmt.Sprintf("invalid or inactive product (%s)", item.ProductID)), h.debug)
			return
		}
		if product.Stock < item.Quantity {
			ordersRejected.WithLabelValues("insufficient_stock").Inc()
			respond.Err(w, respond.NewError(http.StatusBadRequest,
				fmt.Sprintf("insufficient stock for %s", product.Name)), h.debug)
			return
		}

		// 逐项立即持久化扣减；后续行项目失败时不回滚
		if err := h.store.UpdateProductStock(ctx, product.ID, product.Stock-item.Quantity); err != nil {
			log.Printf("[order.create] UpdateProductStock %s error: %v", product.ID, err)
			respond.Err(w, err, h.debug)
			return
		}

		line := model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		}
		total += line.LineTotal()
		items = append(items, line)
	}

	now := time.Now().UTC()
	o := &model.Order{
		ID:        model.NewID("ord"),
		UserID:    authUser.ID,
		Items:     items,
		Total:     total,
		Status:    model.OrderStatusPending,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.PaymentMethod != "" {
		o.PaymentMethod = model.PaymentMethod(req.PaymentMethod)
	}
	if req.DeliveryAddress != nil {
		o.DeliveryAddress = &model.DeliveryAddress{
			Street:  req.DeliveryAddress.Street,
			City:    req.DeliveryAddress.City,
			State:   req.DeliveryAddress.State,
			ZipCode: req.DeliveryAddress.ZipCode,
			Phone:   req.DeliveryAddress.Phone,
		}
	}

	if err := h.store.CreateOrder(ctx, o); err != nil {
		log.Printf("[order.create] CreateOrder error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}
	o.User = authUser

	ordersCreated.Inc()
	log.Printf("[order] created: %s user=%s items=%d total=%.2f", o.ID, o.UserID, len(o.Items), o.Total)
	respond.JSON(w, http.StatusCreated, "order created", map[string]any{"order": o})
}

// List 分页列出订单
//
// admin 看到全部订单；非 admin 强制限定 user_id 为自身。
// query: page, limit, status。
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	authUser := auth.GetUser(r.Context())
	if authUser == nil {
		respond.Err(w, respond.NewError(http.StatusUnauthorized, "not authenticated"), h.debug)
		return
	}

	q := r.URL.Query()
	filter := storage.OrderFilter{
		Page:  parseIntDefault(q.Get("page"), 1),
		Limit: parseIntDefault(q.Get("limit"), 10),
	}
	if status := q.Get("status"); status != "" {
		filter.Status = model.OrderStatus(status)
	}
	if authUser.Role != model.UserRoleAdmin {
		filter.UserID = authUser.ID
	}

	orders, total, err := h.store.ListOrders(r.Context(), filter)
	if err != nil {
		log.Printf("[order.list] ListOrders error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}
	h.expandUsers(r.Context(), orders)

	respond.JSON(w, http.StatusOK, "order list", listResponse{
		Items:      orders,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages(total, filter.Limit),
	})
}

// UpdateStatus 设置订单状态（admin）
//
// 闭合枚举内任意状态可达，不做状态迁移图约束。
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	id := r.PathValue("id")
	o, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		respond.Err(w, err, h.debug)
		return
	}
	if o == nil {
		respond.Err(w, respond.NewError(http.StatusNotFound, "order not found"), h.debug)
		return
	}

	status := model.OrderStatus(req.Status)
	if err := h.store.UpdateOrderStatus(r.Context(), id, status); err != nil {
		log.Printf("[order.status] UpdateOrderStatus %s error: %v", id, err)
		respond.Err(w, err, h.debug)
		return
	}
	o.Status = status
	h.expandUsers(r.Context(), []*model.Order{o})

	log.Printf("[order] status updated: %s -> %s", id, status)
	respond.JSON(w, http.StatusOK, "order status updated", map[string]any{"order": o})
}

// ============================================================================
// 工具函数
// ============================================================================

// expandUsers 为每个订单展开下单用户（同一用户只查一次）
func (h *Handler) expandUsers(ctx context.Context, orders []*model.Order) {
	cache := make(map[string]*model.User)
	for _, o := range orders {
		user, ok := cache[o.UserID]
		if !ok {
			var err error
			user, err = h.store.GetUserByID(ctx, o.UserID)
			if err != nil {
				log.Printf("[order] expand user %s error: %v", o.UserID, err)
				continue
			}
			cache[o.UserID] = user
		}
		o.User = user
	}
}

func parseIntDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func totalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
