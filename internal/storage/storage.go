// Package storage — именованные key-value слоты, в которых живёт сохранённая корзина.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrEmpty — в слоте ничего не сохранено
var ErrEmpty = errors.New("storage: slot is empty")

// Slot — один именованный слот профиля (аналог localStorage["cart"]).
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Erase(ctx context.Context) error
}

// Keyed — бэкенд, который хранит слоты многих профилей на сервере.
type Keyed interface {
	Slot(profile, name string) Slot
	Ping(ctx context.Context) error
}

// IsEmpty проверяет ErrEmpty с учётом обёрток
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Cause(err) == ErrEmpty
}
