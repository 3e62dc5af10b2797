package mongostore

import (
	"context"
	"regexp"
	"time"

	"pasteleria-api/internal/shared/model"
	"pasteleria-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// ProductStore
// ============================================================================

func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	return insertOne(ctx, s.col(ColProducts), product)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return findOne[model.Product](ctx, s.col(ColProducts), bson.D{{Key: "_id", Value: id}})
}

// GetProductByName 按精确名称查找（seed 工具用于跳过已存在的产品）
func (s *Store) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	return findOne[model.Product](ctx, s.col(ColProducts), bson.D{{Key: "name", Value: name}})
}

// ListProducts 按过滤条件分页列出产品
//
// Search 编译为大小写不敏感的子串正则（用户输入先做 QuoteMeta 转义）。
func (s *Store) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*model.Product, int64, error) {
	query := bson.D{}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: filter.Category})
	}
	if filter.Active != nil {
		query = append(query, bson.E{Key: "is_active", Value: *filter.Active})
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		query = append(query, bson.E{Key: "name", Value: bson.D{
			{Key: "$regex", Value: pattern},
			{Key: "$options", Value: "i"},
		}})
	}
	return findPage[model.Product](ctx, s.col(ColProducts), query, filter.Page, filter.Limit)
}

// UpdateProduct 整体替换产品文档
func (s *Store) UpdateProduct(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, s.col(ColProducts), product.ID, product)
}

// UpdateProductStock 持久化单个产品的库存值
//
// 刻意使用 read-then-write 的 $set（而非条件 $inc）：
// 订单工作流逐项读取-校验-写回，不对并发订单做隔离，见订单包说明。
func (s *Store) UpdateProductStock(ctx context.Context, id string, stock int) error {
	return updateFields(ctx, s.col(ColProducts), id, bson.D{
		{Key: "stock", Value: stock},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
}
