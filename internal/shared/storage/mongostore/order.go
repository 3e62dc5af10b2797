package mongostore

import (
	"context"
	"time"

	"pasteleria-api/internal/shared/model"
	"pasteleria-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// OrderStore
// ============================================================================

func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	return insertOne(ctx, s.col(ColOrders), order)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return findOne[model.Order](ctx, s.col(ColOrders), bson.D{{Key: "_id", Value: id}})
}

// ListOrders 按过滤条件分页列出订单（created_at 倒序）
func (s *Store) ListOrders(ctx context.Context, filter storage.OrderFilter) ([]*model.Order, int64, error) {
	query := bson.D{}
	if filter.UserID != "" {
		query = append(query, bson.E{Key: "user_id", Value: filter.UserID})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	return findPage[model.Order](ctx, s.col(ColOrders), query, filter.Page, filter.Limit)
}

// UpdateOrderStatus 无条件设置订单状态（不做状态机约束，admin 专用）
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return updateFields(ctx, s.col(ColOrders), id, bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
}
