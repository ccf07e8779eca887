// Package web — витрина поверх gin: страницы, действия корзины, JSON API.
package web

import (
	"context"
	"fmt"
	"html/template"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/views"
)

type ViewData map[string]any

// Options — зависимости сервера, собираются в cmd/server
type Options struct {
	SessionSecret string
	SessionName   string
	Log           *logrus.Logger
	Catalog       *catalog.Loader
	Slots         Slots
	// Ping проверяет хранилище для /health; nil — проверять нечего
	Ping func(ctx context.Context) error
}

type Server struct {
	opts     Options
	log      *logrus.Logger
	tmpl     *template.Template
	orderRef func() string
}

func NewServer(opts Options) (*Server, error) {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.SessionName == "" {
		opts.SessionName = "sf_session"
	}
	tmpl, err := views.Parse(template.FuncMap{
		"price": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"isURL": func(s string) bool {
			return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/")
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Server{
		opts: opts,
		log:  opts.Log,
		tmpl: tmpl,
		orderRef: func() string {
			return fmt.Sprintf("ORD-%06d", rand.IntN(1000000))
		},
	}, nil
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	store := cookie.NewStore([]byte(s.opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(s.opts.SessionName, store))
	r.SetHTMLTemplate(s.tmpl)

	r.GET("/health", s.health)

	r.GET("/", s.index)
	r.GET("/products", s.products)

	r.GET("/cart", s.cartPage)
	r.POST("/cart/:action", s.cartAction)
	r.POST("/checkout", s.checkout)

	api := r.Group("/api")
	api.GET("/cart", s.apiCart)
	api.POST("/cart/:action", s.apiCartAction)
	api.POST("/checkout", s.apiCheckout)

	return r
}

func (s *Server) health(c *gin.Context) {
	if s.opts.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "storage": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// openCart поднимает корзину текущего профиля; владелец — этот запрос
func (s *Server) openCart(c *gin.Context) *cart.Store {
	return cart.Open(c.Request.Context(), s.opts.Slots.For(c), reqLog(c))
}
