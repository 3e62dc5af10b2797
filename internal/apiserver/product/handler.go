// Package product 产品目录接口
//
// 公开目录（列表/详情）无需认证；创建/修改/软停用仅限 admin。
// 产品永不物理删除，DELETE 将 IsActive 置 false。
package product

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pasteleria-api/internal/apiserver/auth"
	"pasteleria-api/internal/apiserver/respond"
	"pasteleria-api/internal/apiserver/validate"
	"pasteleria-api/internal/shared/model"
	"pasteleria-api/internal/shared/storage"
)

// Store 产品存储接口
type Store interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
}

// Handler 产品 HTTP 处理器
type Handler struct {
	store Store
	debug bool
}

// NewHandler 创建产品处理器
func NewHandler(store Store, debug bool) *Handler {
	return &Handler{store: store, debug: debug}
}

// RegisterRoutes 注册产品路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	adminOnly := mw.RequireRole(model.UserRoleAdmin)

	mux.HandleFunc("GET /api/products", h.List)
	mux.HandleFunc("GET /api/products/{id}", h.Get)
	mux.HandleFunc("POST /api/products", mw.Authenticate(adminOnly(h.Create)))
	mux.HandleFunc("PUT /api/products/{id}", mw.Authenticate(adminOnly(h.Update)))
	mux.HandleFunc("DELETE /api/products/{id}", mw.Authenticate(adminOnly(h.Delete)))
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type createProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,oneof=tortas-cuadradas tortas-circulares postres-individuales sin-azucar tradicional sin-gluten vegana especiales"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=tortas-cuadradas tortas-circulares postres-individuales sin-azucar tradicional sin-gluten vegana especiales"`
	Image       *string  `json:"image" validate:"omitempty,url"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}

type listResponse struct {
	Items      []*model.Product `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// ============================================================================
// Handlers
// ============================================================================

// List 分页列出产品
//
// query: page, limit, category, search（名称子串，大小写不敏感）, active。
// active 缺省时公开目录只含活跃产品；显式传 active=false 可查看已停用产品。
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.ProductFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 10),
	}
	if category := q.Get("category"); category != "" {
		filter.Category = model.ProductCategory(category)
	}
	if raw := q.Get("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	} else {
		active := true
		filter.Active = &active
	}

	items, total, err := h.store.ListProducts(r.Context(), filter)
	if err != nil {
		log.Printf("[product.list] ListProducts error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	respond.JSON(w, http.StatusOK, "product list", listResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages(total, filter.Limit),
	})
}

// Get 按 ID 获取产品
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Err(w, err, h.debug)
		return
	}
	if product == nil {
		respond.Err(w, respond.NewError(http.StatusNotFound, "product not found"), h.debug)
		return
	}
	respond.JSON(w, http.StatusOK, "product retrieved", map[string]any{"product": product})
}

// Create 创建产品（admin）
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:          model.NewID("prd"),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Category:    model.ProductCategory(req.Category),
		Image:       req.Image,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		log.Printf("[product.create] CreateProduct error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	log.Printf("[product] created: %s (%s)", product.Name, product.ID)
	respond.JSON(w, http.StatusCreated, "product created", map[string]any{"product": product})
}

// Update 更新产品（admin）
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request body"), h.debug)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Err(w, respond.NewError(http.StatusBadRequest, "invalid request payload").WithDetails(errs), h.debug)
		return
	}

	product, err := h.store.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Err(w, err, h.debug)
		return
	}
	if product == nil {
		respond.Err(w, respond.NewError(http.StatusNotFound, "product not found"), h.debug)
		return
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = model.ProductCategory(*req.Category)
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.store.UpdateProduct(r.Context(), product); err != nil {
		log.Printf("[product.update] UpdateProduct error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	respond.JSON(w, http.StatusOK, "product updated", map[string]any{"product": product})
}

// Delete 软停用产品（admin）：IsActive 置 false，文档保留
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Err(w, err, h.debug)
		return
	}
	if product == nil {
		respond.Err(w, respond.NewError(http.StatusNotFound, "product not found"), h.debug)
		return
	}

	product.IsActive = false
	if err := h.store.UpdateProduct(r.Context(), product); err != nil {
		log.Printf("[product.delete] UpdateProduct error: %v", err)
		respond.Err(w, err, h.debug)
		return
	}

	log.Printf("[product] deactivated: %s (%s)", product.Name, product.ID)
	respond.JSON(w, http.StatusOK, "product deactivated", map[string]any{"product": product})
}

// ============================================================================
// 工具函数
// ============================================================================

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
