package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"

	"storefront/internal/cart"
	"storefront/internal/catalog"
)

// cartAction — одно действие UI над корзиной
type cartAction struct {
	needsID      bool
	needsProduct bool
	run          func(ctx context.Context, st *cart.Store, id int, p catalog.Product) string
}

// cartActions — таблица "событие UI → операция корзины"
var cartActions = map[string]cartAction{
	"add": {
		needsID:      true,
		needsProduct: true,
		run: func(ctx context.Context, st *cart.Store, _ int, p catalog.Product) string {
			st.Add(ctx, p)
			return p.Title + " added to cart!"
		},
	},
	"increase": {
		needsID: true,
		run: func(ctx context.Context, st *cart.Store, id int, _ catalog.Product) string {
			st.ChangeQuantity(ctx, id, 1)
			return ""
		},
	},
	"decrease": {
		needsID: true,
		run: func(ctx context.Context, st *cart.Store, id int, _ catalog.Product) string {
			st.ChangeQuantity(ctx, id, -1)
			return ""
		},
	},
	"remove": {
		needsID: true,
		run: func(ctx context.Context, st *cart.Store, id int, _ catalog.Product) string {
			_, had := st.Line(id)
			st.Remove(ctx, id)
			if !had {
				return ""
			}
			return "Item removed from cart"
		},
	},
	"clear": {
		run: func(ctx context.Context, st *cart.Store, _ int, _ catalog.Product) string {
			st.Clear(ctx)
			return "Cart cleared"
		},
	},
}

// actionError — ошибка запроса с HTTP-статусом
type actionError struct {
	status int
	msg    string
}

func (e *actionError) Error() string { return e.msg }

func statusOf(err error) int {
	var ae *actionError
	if errors.As(err, &ae) {
		return ae.status
	}
	return http.StatusInternalServerError
}

// applyAction проверяет запрос, поднимает корзину и выполняет действие.
func (s *Server) applyAction(c *gin.Context, name string) (*cart.Store, string, error) {
	act, ok := cartActions[name]
	if !ok {
		return nil, "", &actionError{http.StatusNotFound, "unknown action"}
	}

	var id int
	if act.needsID {
		var err error
		if id, err = productID(c); err != nil {
			return nil, "", &actionError{http.StatusBadRequest, err.Error()}
		}
	}

	var p catalog.Product
	if act.needsProduct {
		if p, ok = s.opts.Catalog.Find(c.Request.Context(), id); !ok {
			return nil, "", &actionError{http.StatusNotFound, "product not found"}
		}
	}

	st := s.openCart(c)
	msg := act.run(c.Request.Context(), st, id, p)
	reqLog(c).WithField("action", name).WithField("product_id", id).
		WithField("items", st.ItemCount()).Debug("cart updated")
	return st, msg, nil
}

// productID берёт product_id из JSON-тела или из формы
func productID(c *gin.Context) (int, error) {
	if c.ContentType() == binding.MIMEJSON {
		var body struct {
			ProductID *int `json:"product_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return 0, errors.Wrap(err, "bad json")
		}
		if body.ProductID == nil {
			return 0, errors.New("no product")
		}
		return *body.ProductID, nil
	}

	raw := strings.TrimSpace(c.PostForm("product_id"))
	if raw == "" {
		return 0, errors.New("no product")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("bad product id %q", raw)
	}
	return id, nil
}
