package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
)

// withCart добавляет в ViewData корзину и непрочитанные уведомления
func withCart(c *gin.Context, st *cart.Store, data ViewData) ViewData {
	if data == nil {
		data = ViewData{}
	}
	data["CartLines"] = st.Lines()
	data["CartCount"] = st.ItemCount()
	data["CartTotal"] = st.Total()
	data["CartEmpty"] = st.Empty()
	data["Flashes"] = takeFlashes(c)
	return data
}

func flash(c *gin.Context, msg string) {
	if msg == "" {
		return
	}
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	if err := sess.Save(); err != nil {
		reqLog(c).WithError(err).Warn("flash not saved")
	}
}

func takeFlashes(c *gin.Context) []string {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// redirectTarget — только локальные пути, иначе /cart
func redirectTarget(c *gin.Context) string {
	to := strings.TrimSpace(c.PostForm("redirect"))
	if !strings.HasPrefix(to, "/") || strings.ContainsRune(to, '\\') {
		return "/cart"
	}
	u, err := url.Parse(to)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(to, "//") {
		return "/cart"
	}
	return to
}

func (s *Server) index(c *gin.Context) {
	items := s.opts.Catalog.Products(c.Request.Context())
	st := s.openCart(c)
	c.HTML(http.StatusOK, "list.tmpl", withCart(c, st, ViewData{"Items": items}))
}

func (s *Server) products(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Catalog.Products(c.Request.Context()))
}

func (s *Server) cartPage(c *gin.Context) {
	st := s.openCart(c)
	c.HTML(http.StatusOK, "cart.tmpl", withCart(c, st, ViewData{"Title": "Cart"}))
}

func (s *Server) cartAction(c *gin.Context) {
	_, msg, err := s.applyAction(c, c.Param("action"))
	if err != nil {
		c.String(statusOf(err), err.Error())
		return
	}
	flash(c, msg)
	c.Redirect(http.StatusSeeOther, redirectTarget(c))
}

// checkout — заказ никуда не уходит: показываем итог и очищаем корзину
func (s *Server) checkout(c *gin.Context) {
	st := s.openCart(c)
	if st.Empty() {
		flash(c, "Your cart is empty!")
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	data := ViewData{
		"Title":      "Order placed",
		"OrderID":    s.orderRef(),
		"OrderTotal": st.Total(),
		"Lines":      st.Lines(),
	}
	st.Clear(c.Request.Context())
	reqLog(c).WithField("order", data["OrderID"]).Info("checkout")
	c.HTML(http.StatusOK, "checkout.tmpl", withCart(c, st, data))
}
