package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/inventory-api/internal/api"
	"github.com/vietanh2810/inventory-api/internal/config"
	"github.com/vietanh2810/inventory-api/internal/db"
	"github.com/vietanh2810/inventory-api/internal/domain"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gormDB, err := db.Open(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "inventory.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gormDB) })
	require.NoError(t, db.Migrate(context.Background(), gormDB))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			BaseURL:            "localhost:8000",
			Port:               "8000",
			AllowedCORSDomains: []string{"http://localhost:3000"},
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
	}

	return &testServer{t: t, router: api.NewServer(conf, gormDB).Router, db: gormDB}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) create(name, description string, price float64, quantity int) domain.Item {
	s.t.Helper()

	body := fmt.Sprintf(`{"name":%q,"description":%q,"price":%v,"quantity":%d}`, name, description, price, quantity)
	rec := s.do(http.MethodPost, "/items/", body)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	return decode[domain.Item](s.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	return decode[map[string]string](t, rec)["detail"]
}

func TestHandleCreateItem(t *testing.T) {
	s := newTestServer(t)

	t.Run("created item can be fetched", func(t *testing.T) {
		created := s.create("Widget", "A small blue widget", 9.99, 3)
		assert.NotZero(t, created.ID)

		rec := s.do(http.MethodGet, fmt.Sprintf("/items/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		want := domain.Item{ID: created.ID, Name: "Widget", Description: "A small blue widget", Price: 9.99, Quantity: 3}
		if diff := cmp.Diff(want, decode[domain.Item](t, rec)); diff != "" {
			t.Errorf("GET /items/{id} mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing field", body: `{"name":"Widget","description":"d","price":1.5}`},
		{name: "price is a string", body: `{"name":"Widget","description":"d","price":"cheap","quantity":1}`},
		{name: "quantity is fractional", body: `{"name":"Widget","description":"d","price":1.5,"quantity":1.5}`},
		{name: "malformed json", body: `{"name":`},
		{name: "empty body", body: ""},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/items/", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.NotEmpty(t, detail(t, rec))
		})
	}
}

func TestHandleListItems(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 15; i++ {
		s.create(fmt.Sprintf("item-%02d", i), "bulk", float64(i), i)
	}

	t.Run("defaults to first ten", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/", "")
		require.Equal(t, http.StatusOK, rec.Code)

		items := decode[[]domain.Item](t, rec)
		require.Len(t, items, 10)
		assert.Equal(t, "item-00", items[0].Name)
	})

	t.Run("second page holds the rest", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/?skip=10&limit=10", "")
		require.Equal(t, http.StatusOK, rec.Code)

		items := decode[[]domain.Item](t, rec)
		require.Len(t, items, 5)
		assert.Equal(t, "item-10", items[0].Name)
	})

	t.Run("blank params fall back to defaults", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/?skip=&limit=", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		items := decode[[]domain.Item](t, rec)
		require.Len(t, items, 10)
		assert.Equal(t, "item-00", items[0].Name)
	})

	t.Run("skip past the end is an empty array", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/?skip=100", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	for _, query := range []string{"skip=-1", "limit=-1", "skip=abc"} {
		t.Run("rejects "+query, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/items/?"+query, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestHandleGetItem(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing item", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/99999", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Item not found"}`, rec.Body.String())
	})

	t.Run("non integer id", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/abc", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandleUpdateItem(t *testing.T) {
	s := newTestServer(t)

	t.Run("only supplied fields change", func(t *testing.T) {
		created := s.create("Widget", "A small blue widget", 9.99, 3)

		rec := s.do(http.MethodPut, fmt.Sprintf("/items/%d", created.ID), `{"price":12.5,"quantity":0}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		want := domain.Item{ID: created.ID, Name: "Widget", Description: "A small blue widget", Price: 12.5, Quantity: 0}
		if diff := cmp.Diff(want, decode[domain.Item](t, rec)); diff != "" {
			t.Errorf("PUT response mismatch (-want +got):\n%s", diff)
		}

		rec = s.do(http.MethodGet, fmt.Sprintf("/items/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		if diff := cmp.Diff(want, decode[domain.Item](t, rec)); diff != "" {
			t.Errorf("GET after PUT mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty body object returns current item", func(t *testing.T) {
		created := s.create("Gadget", "green", 5, 1)

		rec := s.do(http.MethodPut, fmt.Sprintf("/items/%d", created.ID), `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created, decode[domain.Item](t, rec))
	})

	t.Run("missing item", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/items/99999", `{"name":"x"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Item not found", detail(t, rec))
	})

	t.Run("wrong type", func(t *testing.T) {
		created := s.create("Gizmo", "red", 5, 1)

		rec := s.do(http.MethodPut, fmt.Sprintf("/items/%d", created.ID), `{"price":"free"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandleDeleteItem(t *testing.T) {
	s := newTestServer(t)

	t.Run("deleted item is gone", func(t *testing.T) {
		created := s.create("Widget", "blue", 1, 1)

		rec := s.do(http.MethodDelete, fmt.Sprintf("/items/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Item deleted successfully"}`, rec.Body.String())

		rec = s.do(http.MethodGet, fmt.Sprintf("/items/%d", created.ID), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Item not found"}`, rec.Body.String())
	})

	t.Run("missing item", func(t *testing.T) {
		rec := s.do(http.MethodDelete, "/items/99999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleSearchItems(t *testing.T) {
	s := newTestServer(t)
	widget := s.create("Widget", "A small blue widget", 15, 3)
	gadget := s.create("Gadget", "Large green box", 25, 3)
	cheap := s.create("Cheap widget", "100% plastic", 5, 7)

	names := func(items []domain.Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "no filters", query: "", want: []string{widget.Name, gadget.Name, cheap.Name}},
		{name: "name substring ignores case", query: "name=WID", want: []string{widget.Name, cheap.Name}},
		{name: "description substring", query: "description=green", want: []string{gadget.Name}},
		{name: "inclusive price range", query: "min_price=10&max_price=20", want: []string{widget.Name}},
		{name: "range bounds are inclusive", query: "min_price=15&max_price=25", want: []string{widget.Name, gadget.Name}},
		{name: "exact quantity", query: "quantity=3", want: []string{widget.Name, gadget.Name}},
		{name: "filters combine", query: "name=widget&quantity=7", want: []string{cheap.Name}},
		{name: "percent is literal", query: "description=100%25", want: []string{cheap.Name}},
		{name: "no match", query: "name=nothing", want: []string{}},
		{name: "blank filters are ignored", query: "name=&min_price=&quantity=", want: []string{widget.Name, gadget.Name, cheap.Name}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/items/search/?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			assert.Equal(t, tt.want, names(decode[[]domain.Item](t, rec)))
		})
	}

	t.Run("exact non-ascii name", func(t *testing.T) {
		cafe := s.create("CAFÉ", "espresso bar", 3, 1)

		rec := s.do(http.MethodGet, "/items/search/?name="+url.QueryEscape("CAFÉ"), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, []string{cafe.Name}, names(decode[[]domain.Item](t, rec)))
	})

	t.Run("rejects non numeric price", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/items/search/?min_price=cheap", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestServerFallbacks(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown route", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := s.do(http.MethodPatch, "/items/1", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())
	})

	t.Run("health check", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("health check reports closed database", func(t *testing.T) {
		closed := newTestServer(t)
		require.NoError(t, db.Close(closed.db))

		rec := closed.do(http.MethodGet, "/", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("metrics scrape counts served requests", func(t *testing.T) {
		fresh := newTestServer(t)
		require.Equal(t, http.StatusOK, fresh.do(http.MethodGet, "/items/", "").Code)

		rec := fresh.do(http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/items/",status="200"} 1`)
		assert.Contains(t, rec.Body.String(), "http_request_duration_seconds_bucket")
	})

	t.Run("response carries request id", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/", "")
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}
