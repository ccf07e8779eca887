package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Loader отдаёт каталог витрине: кэширует удачный ответ источника,
// склеивает одновременные загрузки. При ошибке источника отдаёт последний
// удачный ответ, а запасной список — только если удачных ответов ещё не было.
type Loader struct {
	src      Source
	fallback []Product
	limit    int
	ttl      time.Duration
	log      logrus.FieldLogger
	now      func() time.Time

	sf singleflight.Group

	mu       sync.RWMutex
	cached   []Product
	cachedAt time.Time
}

func NewLoader(src Source, fallback []Product, limit int, ttl time.Duration, log logrus.FieldLogger) *Loader {
	return &Loader{
		src:      src,
		fallback: fallback,
		limit:    limit,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Products никогда не возвращает ошибку: в худшем случае — запасной список.
// Ошибки не кэшируются, следующий вызов снова идёт в источник.
func (l *Loader) Products(ctx context.Context) []Product {
	if p, ok := l.fresh(); ok {
		return p
	}

	v, _, _ := l.sf.Do("catalog", func() (interface{}, error) {
		items, err := l.src.Products(ctx)
		if err != nil {
			if stale := l.last(); stale != nil {
				l.log.WithError(err).Warn("catalog source failed, serving last loaded products")
				return stale, nil
			}
			l.log.WithError(err).Warn("catalog source failed, using fallback products")
			return l.trim(l.fallback), nil
		}
		items = l.trim(items)

		l.mu.Lock()
		l.cached = items
		l.cachedAt = l.now()
		l.mu.Unlock()
		return items, nil
	})
	return clone(v.([]Product))
}

// Find ищет товар в текущем каталоге
func (l *Loader) Find(ctx context.Context, id int) (Product, bool) {
	return Find(l.Products(ctx), id)
}

func (l *Loader) fresh() ([]Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cached == nil || l.ttl <= 0 || l.now().Sub(l.cachedAt) > l.ttl {
		return nil, false
	}
	return clone(l.cached), true
}

// last — последний удачный ответ, даже просроченный; nil, если его не было
func (l *Loader) last() []Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cached == nil {
		return nil
	}
	return clone(l.cached)
}

func (l *Loader) trim(items []Product) []Product {
	if l.limit > 0 && len(items) > l.limit {
		items = items[:l.limit]
	}
	return clone(items)
}

func clone(items []Product) []Product {
	out := make([]Product, len(items))
	copy(out, items)
	return out
}
