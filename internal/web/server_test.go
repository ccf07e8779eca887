package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/catalog"
	"storefront/internal/storage"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

type testEnv struct {
	t      *testing.T
	srv    *Server
	router *gin.Engine
	mem    *storage.Memory
	jar    *cookiejar.Jar
	base   *url.URL
}

func newEnv(t *testing.T, slots func(mem *storage.Memory) Slots) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := storage.NewMemory()
	srv, err := NewServer(Options{
		SessionSecret: "test-secret",
		SessionName:   "test_session",
		Log:           quietLog(),
		Catalog:       catalog.NewLoader(catalog.Fallback(), catalog.Fallback(), 8, 0, quietLog()),
		Slots:         slots(mem),
		Ping:          mem.Ping,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.orderRef = func() string { return "ORD-000042" }

	jar, _ := cookiejar.New(nil)
	base, _ := url.Parse("http://example.com/")
	return &testEnv{t: t, srv: srv, router: srv.Router(), mem: mem, jar: jar, base: base}
}

func keyed(mem *storage.Memory) Slots { return KeyedSlots(mem, "cart") }
func session(*storage.Memory) Slots { return SessionSlots("cart") }

func (e *testEnv) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range e.jar.Cookies(e.base) {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	e.jar.SetCookies(e.base, w.Result().Cookies())
	return w
}

func (e *testEnv) form(path, body string) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, path, "application/x-www-form-urlencoded", body)
}

func (e *testEnv) api(path, body string) cartView {
	e.t.Helper()
	w := e.do(http.MethodPost, path, "application/json", body)
	if w.Code != http.StatusOK {
		e.t.Fatalf("POST %s = %d %s", path, w.Code, w.Body.String())
	}
	return decodeView(e.t, w.Body)
}

func decodeView(t *testing.T, r io.Reader) cartView {
	t.Helper()
	var v cartView
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	return v
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestIndexRendersCatalog(t *testing.T) {
	e := newEnv(t, keyed)
	w := e.do(http.MethodGet, "/", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Classic Leather Jacket", "Waterproof Backpack", "$199.99", `class="cart-count">0<`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestProductsJSON(t *testing.T) {
	e := newEnv(t, keyed)
	w := e.do(http.MethodGet, "/products", "", "")
	var items []catalog.Product
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 8 || items[0].ID != 1 {
		t.Fatalf("products = %+v", items)
	}
}

func TestScenarioThroughAPI(t *testing.T) {
	for name, slots := range map[string]func(*storage.Memory) Slots{"keyed": keyed, "session": session} {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, slots)

			steps := []struct {
				path  string
				count int
				total string
			}{
				{"/api/cart/add", 1, "199.99"},
				{"/api/cart/add", 2, "399.98"},
				{"/api/cart/decrease", 1, "199.99"},
				{"/api/cart/remove", 0, "0"},
			}
			for _, st := range steps {
				v := e.api(st.path, `{"product_id": 1}`)
				if v.ItemCount != st.count || !v.Total.Equal(dec(st.total)) {
					t.Fatalf("%s: count %d total %s, want %d %s", st.path, v.ItemCount, v.Total, st.count, st.total)
				}
			}

			w := e.do(http.MethodGet, "/api/cart", "", "")
			if v := decodeView(t, w.Body); len(v.Lines) != 0 {
				t.Fatalf("cart not empty: %+v", v.Lines)
			}
		})
	}
}

func TestCartSurvivesRequests(t *testing.T) {
	for name, slots := range map[string]func(*storage.Memory) Slots{"keyed": keyed, "session": session} {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, slots)
			e.api("/api/cart/add", `{"product_id": 3}`)
			e.api("/api/cart/add", `{"product_id": 5}`)
			e.api("/api/cart/increase", `{"product_id": 3}`)

			v := decodeView(t, e.do(http.MethodGet, "/api/cart", "", "").Body)
			if len(v.Lines) != 2 || v.Lines[0].ID != 3 || v.Lines[0].Quantity != 2 || v.Lines[1].ID != 5 {
				t.Fatalf("lines = %+v", v.Lines)
			}
			if !v.Total.Equal(dec("584.97")) {
				t.Fatalf("total = %s", v.Total)
			}
		})
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	e := newEnv(t, keyed)
	e.api("/api/cart/add", `{"product_id": 2}`)

	other, _ := cookiejar.New(nil)
	e.jar = other
	v := decodeView(t, e.do(http.MethodGet, "/api/cart", "", "").Body)
	if v.ItemCount != 0 {
		t.Fatalf("new profile sees %d items", v.ItemCount)
	}
}

func TestFormActionsRedirectAndFlash(t *testing.T) {
	e := newEnv(t, keyed)

	w := e.form("/cart/add", "product_id=2&redirect=/")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("add = %d -> %q", w.Code, w.Header().Get("Location"))
	}

	page := e.do(http.MethodGet, "/cart", "", "").Body.String()
	for _, want := range []string{"Wireless Bluetooth Headphones added to cart!", `<span class="quantity">1</span>`, "$129.99"} {
		if !strings.Contains(page, want) {
			t.Errorf("cart page missing %q", want)
		}
	}
	if again := e.do(http.MethodGet, "/cart", "", "").Body.String(); strings.Contains(again, "added to cart!") {
		t.Error("flash shown twice")
	}

	w = e.form("/cart/remove", "product_id=2&redirect=//evil.example")
	if w.Header().Get("Location") != "/cart" {
		t.Fatalf("redirect = %q, want /cart", w.Header().Get("Location"))
	}
	page = e.do(http.MethodGet, "/cart", "", "").Body.String()
	if !strings.Contains(page, "Item removed from cart") || !strings.Contains(page, "Your cart is empty") {
		t.Fatalf("cart page after remove:\n%s", page)
	}

	e.form("/cart/remove", "product_id=2")
	if page = e.do(http.MethodGet, "/cart", "", "").Body.String(); strings.Contains(page, "Item removed from cart") {
		t.Error("remove of absent line flashed")
	}
}

func TestRedirectStaysLocal(t *testing.T) {
	tests := []struct {
		redirect string
		want     string
	}{
		{"/", "/"},
		{"/cart?x=1", "/cart?x=1"},
		{"", "/cart"},
		{"//evil.example", "/cart"},
		{`/\evil.example`, "/cart"},
		{`/\/evil.example`, "/cart"},
		{"https://evil.example/", "/cart"},
		{"cart", "/cart"},
	}
	for _, tt := range tests {
		t.Run(tt.redirect, func(t *testing.T) {
			e := newEnv(t, keyed)
			body := url.Values{"product_id": {"1"}, "redirect": {tt.redirect}}.Encode()
			w := e.form("/cart/add", body)
			if w.Code != http.StatusSeeOther {
				t.Fatalf("code = %d", w.Code)
			}
			if got := w.Header().Get("Location"); got != tt.want {
				t.Fatalf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown action", "/cart/explode", "product_id=1", http.StatusNotFound},
		{"missing id", "/cart/add", "", http.StatusBadRequest},
		{"bad id", "/cart/increase", "product_id=abc", http.StatusBadRequest},
		{"unknown product", "/cart/add", "product_id=999", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, keyed)
			if w := e.form(tt.path, tt.body); w.Code != tt.want {
				t.Fatalf("code = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	t.Run("api json without id", func(t *testing.T) {
		e := newEnv(t, keyed)
		w := e.do(http.MethodPost, "/api/cart/remove", "application/json", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("code = %d", w.Code)
		}
	})
}

func TestAbsentIDIsNoop(t *testing.T) {
	e := newEnv(t, keyed)
	e.api("/api/cart/add", `{"product_id": 1}`)
	v := e.api("/api/cart/remove", `{"product_id": 7}`)
	if v.ItemCount != 1 {
		t.Fatalf("remove of absent id changed cart: %+v", v)
	}
	v = e.api("/api/cart/decrease", `{"product_id": 7}`)
	if v.ItemCount != 1 {
		t.Fatalf("decrease of absent id changed cart: %+v", v)
	}
}

func TestCheckout(t *testing.T) {
	e := newEnv(t, keyed)

	w := e.do(http.MethodPost, "/checkout", "", "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("empty checkout = %d", w.Code)
	}
	if page := e.do(http.MethodGet, "/cart", "", "").Body.String(); !strings.Contains(page, "Your cart is empty!") {
		t.Fatal("empty checkout flash missing")
	}

	e.form("/cart/add", "product_id=1")
	e.form("/cart/add", "product_id=1")
	e.form("/cart/add", "product_id=5")

	w = e.do(http.MethodPost, "/checkout", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("checkout = %d", w.Code)
	}
	page := w.Body.String()
	for _, want := range []string{"#ORD-000042", "$484.97", `class="cart-count">0<`} {
		if !strings.Contains(page, want) {
			t.Errorf("checkout page missing %q", want)
		}
	}

	v := decodeView(t, e.do(http.MethodGet, "/api/cart", "", "").Body)
	if v.ItemCount != 0 {
		t.Fatalf("cart not cleared after checkout: %+v", v)
	}
}

func TestAPICheckoutErasesSlot(t *testing.T) {
	e := newEnv(t, keyed)

	if w := e.do(http.MethodPost, "/api/checkout", "", ""); w.Code != http.StatusConflict {
		t.Fatalf("empty api checkout = %d", w.Code)
	}

	e.api("/api/cart/add", `{"product_id": 4}`)
	profile := currentProfile(t, e)
	if _, ok := e.mem.Get(profile, "cart"); !ok {
		t.Fatal("cart not persisted")
	}

	w := e.do(http.MethodPost, "/api/checkout", "", "")
	var order struct {
		OrderID   string          `json:"order_id"`
		Total     decimal.Decimal `json:"total"`
		ItemCount int             `json:"item_count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if order.OrderID != "ORD-000042" || !order.Total.Equal(dec("124.99")) || order.ItemCount != 1 {
		t.Fatalf("order = %+v", order)
	}
	if _, ok := e.mem.Get(profile, "cart"); ok {
		t.Fatal("slot not erased by checkout")
	}
}

// currentProfile достаёт id профиля через отдельный маршрут
func currentProfile(t *testing.T, e *testEnv) string {
	t.Helper()
	e.router.GET("/_profile", func(c *gin.Context) { c.String(http.StatusOK, profileID(c)) })
	return e.do(http.MethodGet, "/_profile", "", "").Body.String()
}

func TestCorruptSlotStartsEmpty(t *testing.T) {
	e := newEnv(t, keyed)
	e.api("/api/cart/add", `{"product_id": 1}`)
	e.mem.Put(currentProfile(t, e), "cart", []byte("{not json"))

	v := decodeView(t, e.do(http.MethodGet, "/api/cart", "", "").Body)
	if v.ItemCount != 0 || len(v.Lines) != 0 {
		t.Fatalf("corrupt slot not treated as empty: %+v", v)
	}
	v = e.api("/api/cart/add", `{"product_id": 2}`)
	if v.ItemCount != 1 {
		t.Fatalf("cart unusable after corrupt slot: %+v", v)
	}
}

func TestHealth(t *testing.T) {
	e := newEnv(t, keyed)
	if w := e.do(http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}

	e.srv.opts.Ping = func(ctx context.Context) error { return errors.New("redis down") }
	e.router = e.srv.Router()
	w := e.do(http.MethodGet, "/health", "", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "redis down") {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	e := newEnv(t, keyed)
	w := e.do(http.MethodGet, "/health", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header missing")
	}
}
