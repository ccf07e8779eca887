package models

import "github.com/shopspring/decimal"

// Product — таблица products (каталог витрины)
type Product struct {
	Base
	Title       string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"size:64;index"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Image       string          // URL или эмодзи
}
