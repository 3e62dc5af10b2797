// Package model 定义核心数据模型
//
// 所有实体以字符串 _id 存储于 MongoDB（前缀 + UUID），
// bson tag 使用 snake_case，json tag 与对外 API 保持 camelCase。
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

// Valid 角色是否属于闭合枚举
func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleCustomer
}

// Address 用户地址（嵌入文档，无独立生命周期）
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// User 用户
//
// PasswordHash 永不序列化到 JSON（json:"-"），
// email 全库唯一（mongostore 建唯一索引），删除通过 IsActive 软停用。
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         UserRole  `bson:"role" json:"role"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      *Address  `bson:"address,omitempty" json:"address,omitempty"`
	IsActive     bool      `bson:"is_active" json:"isActive"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// NewID 生成带前缀的文档 ID，如 "usr-6ba7b810-..."
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
