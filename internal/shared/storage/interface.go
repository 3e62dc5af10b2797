package storage

import (
	"context"

	"pasteleria-api/internal/shared/model"
)

// ProductFilter 产品列表过滤与分页参数
//
// Active 为 nil 时由调用方决定默认行为（公开目录默认只列活跃产品）。
type ProductFilter struct {
	Category model.ProductCategory
	Search   string // 名称子串，大小写不敏感
	Active   *bool
	Page     int // 1-indexed
	Limit    int
}

// OrderFilter 订单列表过滤与分页参数
//
// UserID 非空时限定订单归属（非 admin 请求强制为自身）。
type OrderFilter struct {
	UserID string
	Status model.OrderStatus
	Page   int // 1-indexed
	Limit  int
}

// Store 持久化存储接口
//
// 各 handler 包只依赖自己用到的子集接口，本接口由 mongostore.Store 全量实现。
type Store interface {
	// 用户
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error

	// 产品
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductByName(ctx context.Context, name string) (*model.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	UpdateProductStock(ctx context.Context, id string, stock int) error

	// 订单
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error

	Close() error
}
