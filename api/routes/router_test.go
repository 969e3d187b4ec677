package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/internal/cart"
	"github.com/angelmondragon/grocerylist-backend/internal/categories"
	"github.com/angelmondragon/grocerylist-backend/internal/items"
	"github.com/angelmondragon/grocerylist-backend/pkg/config"
	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"github.com/angelmondragon/grocerylist-backend/pkg/metrics"
	"github.com/angelmondragon/grocerylist-backend/pkg/migrate"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type memoryStore struct {
	data map[string]string
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "test:idempotency:" + scope + ":" + id
}

type testServer struct {
	handler http.Handler
	conn    *gorm.DB
}

func newTestServer(t *testing.T, redisP stubPinger, store *memoryStore) *testServer {
	t.Helper()
	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, migrate.AutoMigrateSQLite(conn))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := db.NewFromConn(conn)
	reg := prometheus.NewRegistry()

	categorySvc, err := categories.NewService(categories.NewRepository(conn))
	require.NoError(t, err)
	cartRepo := cart.NewRepository(conn)
	itemSvc, err := items.NewService(items.NewRepository(conn), client, cartRepo, logg)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cartRepo, client, cart.NewLocalLocker(time.Second), logg,
		cart.WithMetrics(metrics.NewCartMetrics(reg)))
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{Env: "test", DefaultUserID: "default_user"}}
	handler := NewRouter(cfg, logg, client, redisP, store, metrics.NewHTTPMetrics(reg), reg, categorySvc, itemSvc, cartSvc)
	return &testServer{handler: handler, conn: conn}
}

func (s *testServer) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, &memoryStore{data: map[string]string{}})

	assert.Equal(t, http.StatusOK, srv.request(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, srv.request(http.MethodGet, "/health/ready", "", nil).Code)

	broken := newTestServer(t, stubPinger{err: fmt.Errorf("down")}, &memoryStore{data: map[string]string{}})
	assert.Equal(t, http.StatusServiceUnavailable, broken.request(http.MethodGet, "/health/ready", "", nil).Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, &memoryStore{data: map[string]string{}})
	rec := srv.request(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}

func TestAddToCartReplaysWithIdempotencyKey(t *testing.T) {
	store := &memoryStore{data: map[string]string{}}
	srv := newTestServer(t, stubPinger{}, store)

	category := &models.Category{Name: "Fruits"}
	require.NoError(t, srv.conn.Create(category).Error)
	item := &models.Item{Name: "Apple", CategoryID: category.ID}
	require.NoError(t, srv.conn.Create(item).Error)

	body := `{"itemId":"` + item.ID.String() + `","quantity":2}`
	headers := map[string]string{"Idempotency-Key": "retry-1", "Content-Type": "application/json"}

	first := srv.request(http.MethodPost, "/api/cart/items", body, headers)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := srv.request(http.MethodPost, "/api/cart/items", body, headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	rec := srv.request(http.MethodGet, "/api/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data cart.CartDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, 2, env.Data.Items[0].Quantity)
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	srv := newTestServer(t, stubPinger{}, &memoryStore{data: map[string]string{}})
	srv.request(http.MethodGet, "/api/categories", "", nil)
	srv.request(http.MethodDelete, "/api/cart", "", nil)

	rec := srv.request(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/categories`)
	assert.Contains(t, rec.Body.String(), `cart_operations_total{operation="clear",outcome="success"} 1`)
}
