package model

import "time"

// OrderStatus 订单状态（闭合枚举，任意状态间可由 admin 直接切换）
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses 全部合法订单状态
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid 状态是否属于闭合枚举
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMethod 支付方式（可选字段，闭合枚举）
type PaymentMethod string

const (
	PaymentEfectivo      PaymentMethod = "efectivo"
	PaymentTarjeta       PaymentMethod = "tarjeta"
	PaymentTransferencia PaymentMethod = "transferencia"
)

// Valid 支付方式是否属于闭合枚举
func (p PaymentMethod) Valid() bool {
	return p == PaymentEfectivo || p == PaymentTarjeta || p == PaymentTransferencia
}

// OrderItem 订单行项目（嵌入文档）
//
// Name 和 Price 是下单时刻的快照，之后产品改名/调价不回溯影响订单。
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// LineTotal 行小计 = 数量 × 快照单价
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.Price
}

// DeliveryAddress 配送地址（可选嵌入文档）
type DeliveryAddress struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Order 订单
//
// 不变量：至少 1 个行项目；Total 恒等于创建时各行小计之和。
// User 字段仅用于响应展开（populate），不落库。
type Order struct {
	ID              string           `bson:"_id" json:"id"`
	UserID          string           `bson:"user_id" json:"userId"`
	User            *User            `bson:"-" json:"user,omitempty"`
	Items           []OrderItem      `bson:"items" json:"items"`
	Total           float64          `bson:"total" json:"total"`
	Status          OrderStatus      `bson:"status" json:"status"`
	PaymentMethod   PaymentMethod    `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	DeliveryAddress *DeliveryAddress `bson:"delivery_address,omitempty" json:"deliveryAddress,omitempty"`
	Notes           string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updatedAt"`
}
