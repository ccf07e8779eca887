package models

// Slot — таблица kv_slots: сохранённые слоты профилей (корзина и т.п.)
type Slot struct {
	Base
	ProfileID string `gorm:"size:64;not null;uniqueIndex:idx_slot_profile_key"`
	Key       string `gorm:"size:64;not null;uniqueIndex:idx_slot_profile_key"`
	Value     string `gorm:"type:text;not null"`
}

func (Slot) TableName() string { return "kv_slots" }
