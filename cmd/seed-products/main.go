// Package main 商品目录初始化工具
// 写入糕点店的基础商品目录；同名商品已存在时跳过，不会重复插入
package main

import (
	"context"
	"log"
	"time"

	"pasteleria-api/internal/config"
	"pasteleria-api/internal/shared/model"
	"pasteleria-api/internal/shared/storage/mongostore"
)

type seedProduct struct {
	Name        string
	Description string
	Price       float64
	Category    model.ProductCategory
	Stock       int
}

var catalog = []seedProduct{
	// Tortas cuadradas
	{"Torta Cuadrada de Chocolate", "Deliciosa torta cuadrada con intenso sabor a chocolate", 45.00, model.CategoryTortasCuadradas, 100},
	{"Torta Cuadrada de Frutas", "Torta cuadrada decorada con frutas frescas de temporada", 50.00, model.CategoryTortasCuadradas, 100},

	// Tortas circulares
	{"Torta Circular de Vainilla", "Clásica torta circular con suave sabor a vainilla", 40.00, model.CategoryTortasCirculares, 80},
	{"Torta Circular de Manjar", "Torta circular rellena con delicioso manjar", 42.00, model.CategoryTortasCirculares, 80},

	// Postres individuales
	{"Mousse de Chocolate", "Cremoso mousse de chocolate en presentación individual", 5.00, model.CategoryPostresIndividuales, 200},
	{"Tiramisú Clásico", "Tradicional tiramisú italiano con café y mascarpone", 5.50, model.CategoryPostresIndividuales, 180},

	// Sin azúcar
	{"Torta Sin Azúcar de Naranja", "Torta con sabor a naranja endulzada naturalmente", 48.00, model.CategorySinAzucar, 50},
	{"Cheesecake Sin Azúcar", "Suave cheesecake sin azúcar añadida", 47.00, model.CategorySinAzucar, 50},

	// Tradicional
	{"Empanada de Manzana", "Crujiente empanada rellena de manzana caramelizada", 3.00, model.CategoryTradicional, 300},
	{"Tarta de Santiago", "Tradicional tarta española de almendras", 6.00, model.CategoryTradicional, 150},

	// Sin gluten
	{"Brownie Sin Gluten", "Rico brownie de chocolate apto para celíacos", 4.00, model.CategorySinGluten, 250},
	{"Pan Sin Gluten", "Pan fresco elaborado sin gluten", 3.50, model.CategorySinGluten, 180},

	// Vegana
	{"Torta Vegana de Chocolate", "Torta de chocolate 100% vegetal sin productos animales", 50.00, model.CategoryVegana, 60},
	{"Galletas Veganas de Avena", "Crujientes galletas veganas con avena integral", 4.50, model.CategoryVegana, 400},

	// Especiales
	{"Torta Especial de Cumpleaños", "Torta personalizada para celebraciones de cumpleaños", 55.00, model.CategoryEspeciales, 40},
	{"Torta Especial de Boda", "Elegante torta diseñada especialmente para bodas", 60.00, model.CategoryEspeciales, 25},
}

func main() {
	cfg := config.Load()

	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	inserted, skipped := 0, 0
	for _, sp := range catalog {
		existing, err := store.GetProductByName(ctx, sp.Name)
		if err != nil {
			log.Fatalf("Failed to check product %q: %v", sp.Name, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		now := time.Now()
		p := &model.Product{
			ID:          model.NewID("prd"),
			Name:        sp.Name,
			Description: sp.Description,
			Price:       sp.Price,
			Category:    sp.Category,
			Stock:       sp.Stock,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.CreateProduct(ctx, p); err != nil {
			log.Fatalf("Failed to insert product %q: %v", sp.Name, err)
		}
		inserted++
		log.Printf("[seed] Inserted %s (%s) price=%.2f stock=%d", p.Name, p.Category, p.Price, p.Stock)
	}

	log.Printf("Seed complete: %d inserted, %d skipped", inserted, skipped)
}
