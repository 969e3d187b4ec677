package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/api/middleware"
	"github.com/angelmondragon/grocerylist-backend/internal/cart"
	"github.com/angelmondragon/grocerylist-backend/internal/categories"
	"github.com/angelmondragon/grocerylist-backend/internal/items"
	"github.com/angelmondragon/grocerylist-backend/pkg/config"
	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"github.com/angelmondragon/grocerylist-backend/pkg/migrate"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Code    string          `json:"code"`
}

type harness struct {
	router http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dsn := "file:controllers_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, migrate.AutoMigrateSQLite(conn))

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	client := db.NewFromConn(conn)

	categorySvc, err := categories.NewService(categories.NewRepository(conn))
	require.NoError(t, err)
	cartRepo := cart.NewRepository(conn)
	itemSvc, err := items.NewService(items.NewRepository(conn), client, cartRepo, logg)
	require.NoError(t, err)
	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	cartSvc, err := cart.NewService(cartRepo, client, cart.NewLocalLocker(time.Second), logg, cart.WithClock(clock))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.UserContext("default_user", logg))
	r.Get("/api/ping", Ping())
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", ListCategories(categorySvc, logg))
		r.Post("/", CreateCategory(categorySvc, logg))
		r.Get("/{id}", GetCategory(categorySvc, logg))
		r.Put("/{id}", UpdateCategory(categorySvc, logg))
		r.Delete("/{id}", DeleteCategory(categorySvc, logg))
	})
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", ListItems(itemSvc, logg))
		r.Post("/", CreateItem(itemSvc, logg))
		r.Get("/grouped", ListGroupedItems(itemSvc, logg))
		r.Get("/{id}", GetItem(itemSvc, logg))
		r.Put("/{id}", UpdateItem(itemSvc, logg))
		r.Delete("/{id}", DeleteItem(itemSvc, logg))
	})
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", GetCart(cartSvc, logg))
		r.Delete("/", ClearCart(cartSvc, logg))
		r.Get("/export", ExportCart(cartSvc, logg))
		r.Post("/items", AddCartItem(cartSvc, logg))
		r.Put("/items/{itemId}", UpdateCartItem(cartSvc, logg))
		r.Delete("/items/{itemId}", RemoveCartItem(cartSvc, logg))
	})
	return &harness{router: r}
}

func (h *harness) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (h *harness) createCategory(t *testing.T, name string) string {
	t.Helper()
	rec, env := h.do(t, http.MethodPost, "/api/categories", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dto struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	return dto.ID
}

func (h *harness) createItem(t *testing.T, body string) string {
	t.Helper()
	rec, env := h.do(t, http.MethodPost, "/api/items", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dto struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	return dto.ID
}

func TestCategoryEndpoints(t *testing.T) {
	h := newHarness(t)

	id := h.createCategory(t, "Snacks")

	rec, env := h.do(t, http.MethodPost, "/api/categories", `{"name":"snacks"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category already exists", env.Message)

	rec, env = h.do(t, http.MethodPost, "/api/categories", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category name is required", env.Message)

	rec, env = h.do(t, http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	rec, env = h.do(t, http.MethodPut, "/api/categories/"+id, `{"description":"crunchy"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"description":"crunchy"`)

	rec, env = h.do(t, http.MethodGet, "/api/categories/not-an-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", env.Message)

	rec, env = h.do(t, http.MethodDelete, "/api/categories/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Category deleted successfully", env.Message)

	rec, _ = h.do(t, http.MethodGet, "/api/categories/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryDeleteBlockedByItems(t *testing.T) {
	h := newHarness(t)
	dairy := h.createCategory(t, "Dairy")
	h.createItem(t, `{"name":"Milk","category":"`+dairy+`"}`)
	h.createItem(t, `{"name":"Cheese","category":"`+dairy+`"}`)

	rec, env := h.do(t, http.MethodDelete, "/api/categories/"+dairy, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete category. 2 item(s) are using this category", env.Message)
}

func TestItemEndpoints(t *testing.T) {
	h := newHarness(t)
	fruits := h.createCategory(t, "Fruits")

	rec, env := h.do(t, http.MethodPost, "/api/items", `{"name":"Apple","category":"`+fruits+`","estimatedPrice":1.25}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created items.ItemDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "piece", string(created.Unit))
	assert.True(t, created.IsCustom)
	require.NotNil(t, created.EstimatedPrice)
	assert.Equal(t, 1.25, *created.EstimatedPrice)
	assert.Equal(t, "Fruits", created.Category.Name)

	rec, env = h.do(t, http.MethodPost, "/api/items", `{"name":"Pear","category":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category does not exist", env.Message)

	rec, env = h.do(t, http.MethodPost, "/api/items", `{"name":"Pear"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category is required", env.Message)

	rec, _ = h.do(t, http.MethodPost, "/api/items", `{"name":"Pear","category":"`+fruits+`","colour":"green"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = h.do(t, http.MethodPut, "/api/items/"+created.ID.String(), `{"estimatedPrice":null,"unit":"kg"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated items.ItemDTO
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Nil(t, updated.EstimatedPrice)
	assert.Equal(t, "kg", string(updated.Unit))

	rec, env = h.do(t, http.MethodGet, "/api/items?category="+fruits, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	rec, env = h.do(t, http.MethodGet, "/api/items/grouped", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var groups []items.ItemGroup
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Fruits", groups[0].CategoryName)

	rec, env = h.do(t, http.MethodGet, "/api/items/123", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", env.Message)

	rec, env = h.do(t, http.MethodDelete, "/api/items/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item deleted successfully", env.Message)
}

func TestCartEndpoints(t *testing.T) {
	h := newHarness(t)
	fruits := h.createCategory(t, "Fruits")
	apple := h.createItem(t, `{"name":"Apple","category":"`+fruits+`","unit":"kg","estimatedPrice":2}`)

	rec, env := h.do(t, http.MethodGet, "/api/cart/export", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart is empty", env.Message)

	rec, env = h.do(t, http.MethodPost, "/api/cart/items", `{"itemId":"`+apple+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Item added to cart", env.Message)

	rec, env = h.do(t, http.MethodPost, "/api/cart/items", `{"itemId":"`+apple+`","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var current cart.CartDTO
	require.NoError(t, json.Unmarshal(env.Data, &current))
	require.Len(t, current.Items, 1)
	assert.Equal(t, 5, current.Items[0].Quantity)
	assert.Equal(t, 10.0, current.TotalEstimatedPrice)
	assert.Equal(t, "default_user", current.UserID)

	rec, env = h.do(t, http.MethodPost, "/api/cart/items", `{"itemId":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Item ID is required", env.Message)

	rec, env = h.do(t, http.MethodPost, "/api/cart/items", `{"itemId":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", env.Message)

	rec, env = h.do(t, http.MethodPut, "/api/cart/items/"+apple, `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be at least 1", env.Message)

	rec, env = h.do(t, http.MethodPut, "/api/cart/items/"+apple, `{"quantity":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart item updated", env.Message)

	rec, env = h.do(t, http.MethodGet, "/api/cart/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var export cart.ExportDTO
	require.NoError(t, json.Unmarshal(env.Data, &export))
	assert.Equal(t, 1, export.ItemCount)
	assert.Contains(t, export.Text, "  ☐ Apple - 1 kg\n")
	assert.Contains(t, export.Text, "Date: 6/1/2025\n")

	rec, env = h.do(t, http.MethodGet, "/api/cart", "", middleware.UserIDHeader, "roommate")
	require.Equal(t, http.StatusOK, rec.Code)
	var other cart.CartDTO
	require.NoError(t, json.Unmarshal(env.Data, &other))
	assert.Empty(t, other.Items)

	rec, env = h.do(t, http.MethodDelete, "/api/cart/items/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found in cart", env.Message)

	rec, env = h.do(t, http.MethodDelete, "/api/cart/items/"+apple, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item removed from cart", env.Message)

	rec, env = h.do(t, http.MethodDelete, "/api/cart", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart cleared successfully", env.Message)
}

func TestPingReportsUser(t *testing.T) {
	h := newHarness(t)
	rec, env := h.do(t, http.MethodGet, "/api/ping", "", middleware.UserIDHeader, "kitchen")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"userId":"kitchen"`)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	healthy := pingFunc(func(context.Context) error { return nil })
	broken := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthReady(cfg, logger.Nop(), map[string]Pinger{"db": healthy, "redis": nil}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get(envHeader))

	rec = httptest.NewRecorder()
	HealthReady(cfg, logger.Nop(), map[string]Pinger{"db": healthy, "redis": broken}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
