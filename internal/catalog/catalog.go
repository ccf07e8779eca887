// Package catalog — откуда витрина берёт товары: встроенный список,
// удалённый JSON или таблица products.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product — позиция каталога (только чтение)
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// Source — источник каталога
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

// Static — фиксированный список
type Static []Product

func (s Static) Products(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(s))
	copy(out, s)
	return out, nil
}

// Find ищет товар по id
func Find(products []Product, id int) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Fallback — запасной список, если удалённый каталог недоступен
func Fallback() Static {
	return Static{
		{ID: 1, Title: "Classic Leather Jacket", Price: price("199.99"), Image: "https://images.unsplash.com/photo-1551028719-00167b16eac5?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 2, Title: "Wireless Bluetooth Headphones", Price: price("129.99"), Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 3, Title: "Smart Watch Series 5", Price: price("249.99"), Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 4, Title: "Organic Cotton T-Shirt", Price: price("124.99"), Image: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 5, Title: "Ceramic Coffee Mug Set", Price: price("84.99"), Image: "https://images.unsplash.com/photo-1514228742587-6b1558fcf93a?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 6, Title: "Professional DSLR Camera", Price: price("899.99"), Image: "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 7, Title: "Natural Bamboo Cutting Board", Price: price("69.99"), Image: "https://images.unsplash.com/photo-1563453392212-326f5e854473?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
		{ID: 8, Title: "Waterproof Backpack", Price: price("199.99"), Image: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"},
	}
}

// Menu — меню фастфуда (картинки — эмодзи)
func Menu() Static {
	return Static{
		{ID: 1, Title: "Cheeseburger Meal", Description: "Juicy beef patty with cheese, lettuce, and special sauce", Price: price("8.99"), Image: "🍔", Category: "Food"},
		{ID: 2, Title: "Pepperoni Pizza", Description: "Large pizza with extra cheese and pepperoni", Price: price("14.99"), Image: "🍕", Category: "Food"},
		{ID: 3, Title: "Fresh Salad Bowl", Description: "Mixed greens with vegetables and choice of dressing", Price: price("7.49"), Image: "🥗", Category: "Food"},
		{ID: 4, Title: "French Fries", Description: "Crispy golden fries with sea salt", Price: price("3.99"), Image: "🍟", Category: "Sides"},
		{ID: 5, Title: "Iced Coffee", Description: "Cold brew with milk and vanilla syrup", Price: price("4.49"), Image: "🥤", Category: "Drinks"},
		{ID: 6, Title: "Chocolate Sundae", Description: "Vanilla ice cream with hot fudge and nuts", Price: price("5.99"), Image: "🍦", Category: "Dessert"},
		{ID: 7, Title: "Chicken Wings", Description: "Crispy wings with BBQ or Buffalo sauce", Price: price("10.99"), Image: "🍗", Category: "Food"},
		{ID: 8, Title: "Smoothie", Description: "Mixed berry smoothie with yogurt", Price: price("6.49"), Image: "🧃", Category: "Drinks"},
	}
}
