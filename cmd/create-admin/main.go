// Package main 管理员账号引导工具
// 将 ADMIN_EMAIL 指定的用户提升为 admin；用户不存在时用 ADMIN_PASSWORD 创建
package main

import (
	"context"
	"log"
	"os"
	"time"

	"pasteleria-api/internal/apiserver/auth"
	"pasteleria-api/internal/config"
	"pasteleria-api/internal/shared/storage/mongostore"
)

func main() {
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" {
		log.Fatal("ADMIN_EMAIL is required")
	}

	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := auth.EnsureAdminUser(ctx, store, email, password)
	if err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	log.Printf("Admin ready: id=%s name=%s email=%s role=%s", user.ID, user.Name, user.Email, user.Role)
}
