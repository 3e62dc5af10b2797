package model

import "time"

// ProductCategory 产品分类（闭合枚举，与前端目录一致）
type ProductCategory string

const (
	CategoryTortasCuadradas     ProductCategory = "tortas-cuadradas"
	CategoryTortasCirculares    ProductCategory = "tortas-circulares"
	CategoryPostresIndividuales ProductCategory = "postres-individuales"
	CategorySinAzucar           ProductCategory = "sin-azucar"
	CategoryTradicional         ProductCategory = "tradicional"
	CategorySinGluten           ProductCategory = "sin-gluten"
	CategoryVegana              ProductCategory = "vegana"
	CategoryEspeciales          ProductCategory = "especiales"
)

// ProductCategories 全部合法分类，供校验与 seed 工具使用
var ProductCategories = []ProductCategory{
	CategoryTortasCuadradas,
	CategoryTortasCirculares,
	CategoryPostresIndividuales,
	CategorySinAzucar,
	CategoryTradicional,
	CategorySinGluten,
	CategoryVegana,
	CategoryEspeciales,
}

// Valid 分类是否属于闭合枚举
func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Product 产品
//
// 不变量：Price >= 0，Stock >= 0。
// 删除通过 IsActive 软停用，文档永不物理删除。
type Product struct {
	ID          string          `bson:"_id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64         `bson:"price" json:"price"`
	Category    ProductCategory `bson:"category" json:"category"`
	Image       string          `bson:"image,omitempty" json:"image,omitempty"`
	Stock       int             `bson:"stock" json:"stock"`
	IsActive    bool            `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updatedAt"`
}
