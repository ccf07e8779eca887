// Package cart — корзина покупателя: позиции, количество, итог и
// сохранение в слот профиля после каждого изменения.
//
// Store принадлежит одному обработчику (один запрос = один владелец),
// поэтому блокировок в нём нет.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/catalog"
	"storefront/internal/storage"
)

// Line — позиция корзины. Цена зафиксирована в момент добавления.
type Line struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal — цена × количество
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store — корзина одного профиля
type Store struct {
	lines []Line
	slot  storage.Slot
	log   logrus.FieldLogger
}

// Open поднимает корзину из слота. Пустой, битый или недоступный слот —
// это просто пустая корзина, ошибки наружу не уходят.
func Open(ctx context.Context, slot storage.Slot, log logrus.FieldLogger) *Store {
	s := &Store{slot: slot, log: log}

	raw, err := slot.Load(ctx)
	switch {
	case storage.IsEmpty(err):
		return s
	case err != nil:
		log.WithError(err).Warn("cart: slot read failed, starting empty")
		return s
	}

	lines, err := Decode(raw)
	if err != nil {
		log.WithError(err).Warn("cart: persisted cart unreadable, starting empty")
		return s
	}
	s.lines = lines
	return s
}

// Add кладёт товар в корзину; если он уже есть — +1 к количеству,
// а название/цена/картинка остаются прежними.
func (s *Store) Add(ctx context.Context, p catalog.Product) {
	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, Line{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}
	s.persist(ctx)
}

// Remove убирает позицию; нет такой — ничего не делает
func (s *Store) Remove(ctx context.Context, id int) {
	if i := s.index(id); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	s.persist(ctx)
}

// ChangeQuantity меняет количество на delta. Дошло до нуля или ниже — позиция удаляется.
func (s *Store) ChangeQuantity(ctx context.Context, id, delta int) {
	i := s.index(id)
	if i < 0 {
		s.persist(ctx)
		return
	}
	s.lines[i].Quantity += delta
	if s.lines[i].Quantity <= 0 {
		s.Remove(ctx, id)
		return
	}
	s.persist(ctx)
}

// Clear очищает корзину и стирает сохранённый слот
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	if err := s.slot.Erase(ctx); err != nil {
		s.log.WithError(err).Warn("cart: erase failed")
	}
}

// Total — сумма price*quantity, без округления
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount — сумма количеств
func (s *Store) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines — копия позиций в порядке добавления
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Line(id int) (Line, bool) {
	if i := s.index(id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

func (s *Store) Len() int    { return len(s.lines) }
func (s *Store) Empty() bool { return len(s.lines) == 0 }

func (s *Store) index(id int) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// persist — write-through. Ошибка записи только логируется:
// корзина в памяти остаётся главной до конца запроса.
func (s *Store) persist(ctx context.Context) {
	raw, err := Encode(s.lines)
	if err == nil {
		err = s.slot.Save(ctx, raw)
	}
	if err != nil {
		s.log.WithError(err).WithField("lines", len(s.lines)).Warn("cart: persist failed")
	}
}
