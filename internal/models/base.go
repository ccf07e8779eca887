package models

import "time"

// Base — id и отметки времени для products и kv_slots
type Base struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
