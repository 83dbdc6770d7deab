package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/afero"

	"pdvlocal/internal/http/handlers"
	applog "pdvlocal/internal/log"
	"pdvlocal/internal/repos"
	"pdvlocal/internal/services"
	"pdvlocal/internal/store"
)

const (
	kinder   = "7812345678901" // 25.00
	coca     = "7812345678902" // 80.00
	unknown  = "0000000000000"
	friendly = "Something went wrong. Please try again."
)

// toggleStore fails every Save while failing is set.
type toggleStore struct {
	store.Store
	mu      sync.Mutex
	failing bool
}

func (s *toggleStore) Save(ctx context.Context, image []byte) error {
	s.mu.Lock()
	failing := s.failing
	s.mu.Unlock()
	if failing {
		return errors.Join(store.ErrStoreUnavailable, errors.New("disk full"))
	}
	return s.Store.Save(ctx, image)
}

func (s *toggleStore) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

// newApp wires the real routes over a fresh in-memory store, like main does.
// extra routes are mounted ahead of the not-found fallback.
func newApp(t *testing.T, extra ...func(app *fiber.App)) (*fiber.App, *toggleStore) {
	t.Helper()
	st := &toggleStore{Store: store.NewFileStore(afero.NewMemMapFs(), "/pdv", store.CodecNone)}
	engine, err := services.Bootstrap(context.Background(), st, repos.DefaultCatalog)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	session := services.NewSaleSession(engine, st)
	t.Cleanup(func() { _ = session.Close() })

	app := fiber.New(fiber.Config{
		Views: handlers.NewViews("../../../web/templates"),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": friendly,
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString(friendly)
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 64 << 10
	app.Use(requestid.New())
	handlers.NewDeps(session).Register(app)
	for _, mount := range extra {
		mount(app)
	}
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app, st
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()
	return do(t, app, httptest.NewRequest("GET", target, nil))
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, app, req)
}

func postJSON(t *testing.T, app *fiber.App, target, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func decode(t *testing.T, body string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), v); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}

type saleJSON struct {
	SaleID int64 `json:"sale_id"`
	Open   bool  `json:"open"`
	Lines  []struct {
		Code     string  `json:"code"`
		Quantity int     `json:"quantity"`
		Subtotal float64 `json:"subtotal"`
	} `json:"lines"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
}

type scanJSON struct {
	Scan struct {
		SaleID   int64   `json:"sale_id"`
		Quantity int     `json:"quantity"`
		Subtotal float64 `json:"subtotal"`
	} `json:"scan"`
	Sale saleJSON `json:"sale"`
}

type receiptJSON struct {
	SaleID       int64   `json:"sale_id"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
	Items        int     `json:"items"`
}
