package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrMalformed — ответ удалённого каталога не похож на список товаров
var ErrMalformed = errors.New("catalog: malformed response")

// Remote — каталог по HTTP (JSON-массив), за circuit breaker.
type Remote struct {
	url     string
	client  *http.Client
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

func NewRemote(url string, timeout time.Duration, log logrus.FieldLogger) *Remote {
	st := gobreaker.Settings{
		Name:        "CatalogCircuitBreaker",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("%s state changed from %s to %s", name, from, to)
		},
	}
	return &Remote{
		url:     url,
		client:  &http.Client{},
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

func (r *Remote) Products(ctx context.Context) ([]Product, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]Product), nil
}

func (r *Remote) fetch(ctx context.Context) ([]Product, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", r.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Errorf("GET %s: status %d", r.url, resp.StatusCode)
	}
	return decodeProducts(resp.Body)
}

// remoteProduct — то, что присылают внешние API: title или name
type remoteProduct struct {
	ID          *int             `json:"id"`
	Title       string           `json:"title"`
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
}

func decodeProducts(body io.Reader) ([]Product, error) {
	var raw []remoteProduct
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	out := make([]Product, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for _, rp := range raw {
		title := rp.Title
		if title == "" {
			title = rp.Name
		}
		if rp.ID == nil || rp.Price == nil || title == "" || seen[*rp.ID] {
			continue
		}
		seen[*rp.ID] = true
		out = append(out, Product{
			ID:          *rp.ID,
			Title:       title,
			Price:       *rp.Price,
			Image:       rp.Image,
			Description: rp.Description,
			Category:    rp.Category,
		})
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no usable products")
	}
	return out, nil
}
