package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
)

// cartView — то, что адаптер перечитывает после каждой операции
type cartView struct {
	Lines     []cart.Line     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Message   string          `json:"message,omitempty"`
}

func snapshot(st *cart.Store, msg string) cartView {
	return cartView{
		Lines:     st.Lines(),
		Total:     st.Total(),
		ItemCount: st.ItemCount(),
		Message:   msg,
	}
}

func (s *Server) apiCart(c *gin.Context) {
	c.JSON(http.StatusOK, snapshot(s.openCart(c), ""))
}

func (s *Server) apiCartAction(c *gin.Context) {
	st, msg, err := s.applyAction(c, c.Param("action"))
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot(st, msg))
}

func (s *Server) apiCheckout(c *gin.Context) {
	st := s.openCart(c)
	if st.Empty() {
		c.JSON(http.StatusConflict, gin.H{"error": "Your cart is empty!"})
		return
	}
	order := gin.H{
		"order_id":   s.orderRef(),
		"total":      st.Total(),
		"item_count": st.ItemCount(),
		"lines":      st.Lines(),
	}
	st.Clear(c.Request.Context())
	reqLog(c).WithField("order", order["order_id"]).Info("checkout")
	c.JSON(http.StatusOK, order)
}
