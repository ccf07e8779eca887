package catalog

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// DB — каталог из таблицы products
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Products(ctx context.Context) ([]Product, error) {
	var rows []models.Product
	if err := d.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, Product{
			ID:          int(r.ID),
			Title:       r.Title,
			Price:       r.Price,
			Image:       r.Image,
			Description: r.Description,
			Category:    r.Category,
		})
	}
	return out, nil
}

// Seed заливает список в пустую таблицу; непустую не трогает
func (d *DB) Seed(ctx context.Context, products []Product) error {
	var cnt int64
	if err := d.db.WithContext(ctx).Model(&models.Product{}).Count(&cnt).Error; err != nil {
		return errors.Wrap(err, "count products")
	}
	if cnt > 0 {
		return nil
	}
	rows := make([]models.Product, 0, len(products))
	for _, p := range products {
		row := models.Product{
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Image:       p.Image,
		}
		row.ID = uint(p.ID)
		rows = append(rows, row)
	}
	return errors.Wrap(d.db.WithContext(ctx).Create(&rows).Error, "seed products")
}
