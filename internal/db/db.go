package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/models"
)

// Open открывает соединение с БД по строке из .env (DB_DSN)
func Open(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_DSN is empty (check your .env)")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      gormlogger.Warn,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}
	return db, nil
}

// Migrate — таблицы каталога и слотов корзины
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&models.Product{}, &models.Slot{}), "automigrate")
}
