package storage

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

// Gorm — слоты в таблице kv_slots (postgres).
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate создаёт таблицу слотов
func (g *Gorm) Migrate() error {
	return errors.Wrap(g.db.AutoMigrate(&models.Slot{}), "migrate kv_slots")
}

func (g *Gorm) Slot(profile, name string) Slot {
	return &gormSlot{db: g.db, profile: profile, key: name}
}

func (g *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return errors.Wrap(err, "gorm: sql db")
	}
	return sqlDB.PingContext(ctx)
}

type gormSlot struct {
	db      *gorm.DB
	profile string
	key     string
}

func (s *gormSlot) Load(ctx context.Context) ([]byte, error) {
	var row models.Slot
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND key = ?", s.profile, s.key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load slot %s/%s", s.profile, s.key)
	}
	return []byte(row.Value), nil
}

func (s *gormSlot) Save(ctx context.Context, data []byte) error {
	row := models.Slot{ProfileID: s.profile, Key: s.key, Value: string(data)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	return errors.Wrapf(err, "save slot %s/%s", s.profile, s.key)
}

func (s *gormSlot) Erase(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND key = ?", s.profile, s.key).
		Delete(&models.Slot{}).Error
	return errors.Wrapf(err, "erase slot %s/%s", s.profile, s.key)
}
