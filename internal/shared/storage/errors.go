// Package storage 定义存储层抽象与领域错误
//
// 这些错误用于隔离业务层与底层存储引擎的错误类型，
// mongostore 负责将 MongoDB 错误转换为这些领域错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（如重复注册 email）
	ErrDuplicate = errors.New("duplicate: entity already exists")
)
