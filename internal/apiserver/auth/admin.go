package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"pasteleria-api/internal/shared/model"
)

// EnsureAdminUser 确保管理员用户存在（由 create-admin 工具调用）
// 如果用户已存在则提升为 admin 角色；不存在且提供了密码则自动创建
func EnsureAdminUser(ctx context.Context, store UserStore, adminEmail, adminPassword string) (*model.User, error) {
	if adminEmail == "" {
		return nil, fmt.Errorf("admin email is required")
	}

	existing, err := store.GetUserByEmail(ctx, adminEmail)
	if err != nil {
		return nil, fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		if existing.Role == model.UserRoleAdmin {
			log.Printf("[auth] Admin user already exists: %s (%s)", adminEmail, existing.ID)
			return existing, nil
		}
		existing.Role = model.UserRoleAdmin
		if err := store.UpdateUser(ctx, existing); err != nil {
			return nil, fmt.Errorf("promote user to admin: %w", err)
		}
		log.Printf("[auth] Promoted user %s (%s) to admin role", adminEmail, existing.ID)
		return existing, nil
	}

	if adminPassword == "" {
		return nil, fmt.Errorf("user %s not found and no password provided to create one", adminEmail)
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           model.NewID("usr"),
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         model.UserRoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("[auth] Created admin user: %s (%s)", adminEmail, user.ID)
	return user, nil
}
