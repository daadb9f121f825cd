package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"souq/internal/config"
	"souq/internal/http/handlers"
	"souq/internal/repos"
)

func testConfig() config.Config {
	return config.Config{
		DBDSN:           ":memory:",
		JWTSecret:       "test-secret",
		UserTokenHours:  1,
		AdminTokenHours: 1,
	}
}

// newTestApp builds a fiber app over a seeded in-memory database with the
// routes the tests exercise.
func newTestApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	cfg := testConfig()
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db, cfg)
	user := handlers.RequireUser(deps.Auth)
	admin := handlers.RequireAdmin(deps.Auth)

	app := fiber.New()

	api := app.Group("/api")
	api.Post("/users", deps.Users.Register)
	api.Post("/users/login", deps.Users.Login)
	api.Get("/product", deps.Products.List)
	api.Get("/product/:id/similar", deps.Products.Similar)
	api.Get("/product/:id", deps.Products.Get)
	api.Get("/banner", deps.Banners.List)
	api.Get("/banner/product/:id", deps.Banners.GetResolved)
	api.Get("/banner/:id", deps.Banners.Get)
	api.Get("/voucher/code/:code", deps.Vouchers.GetByCode)
	api.Put("/voucher/use/:code", deps.Vouchers.Use)
	api.Post("/orders", user, deps.Orders.Create)

	adm := app.Group("/api/admin")
	adm.Post("/login", deps.Admins.Login)
	sec := app.Group("/api/admin", admin)
	sec.Get("/product", deps.Products.ListAdmin)
	sec.Get("/product/withPrimaryImageAndRating", deps.Products.ListCards)
	sec.Get("/orders/:orderId/products", deps.Orders.Products)
	sec.Get("/orders/:id", deps.Orders.GetAdmin)
	sec.Get("/voucher", deps.Vouchers.ListAdmin)

	return app, deps
}

func jsonReq(method, target string, body any, token string) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

// adminToken logs in as the bootstrap admin.
func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/admin/login", fiber.Map{
		"username": "admin", "password": "Admin-ChangeMe1!",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatal("admin login returned no token")
	}
	return body.Token
}

// userToken registers a fresh user and returns their token.
func userToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/users", fiber.Map{
		"name": "Tester", "username": "tester", "email": email, "password": "Passw0rd!x",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatal("register returned no token")
	}
	return body.Token
}
