package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"souq/internal/repos"
)

func TestSeededAdminPasswordIsHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hash string
	if err := db.Get(&hash, `SELECT password FROM admin WHERE username = 'admin'`); err != nil {
		t.Fatalf("select admin: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if strings.Contains(hash, "ChangeMe") {
		t.Fatal("hash contains plaintext password")
	}
}

func TestAdminLoginPaths(t *testing.T) {
	app, _ := newTestApp(t)

	// unknown account -> 404
	resp, err := app.Test(jsonReq("POST", "/api/admin/login", fiber.Map{
		"username": "nobody", "password": "whatever123",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown admin: want 404, got %d", resp.StatusCode)
	}

	// wrong password -> 401
	resp, err = app.Test(jsonReq("POST", "/api/admin/login", fiber.Map{
		"username": "admin", "password": "wrong-password",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password: want 401, got %d", resp.StatusCode)
	}

	// good credentials -> token
	if tok := adminToken(t, app); tok == "" {
		t.Fatal("no token")
	}
}

func TestUserRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)
	userToken(t, app, "alice@souq.test")

	// wrong password -> 401
	resp, err := app.Test(jsonReq("POST", "/api/users/login", fiber.Map{
		"email": "alice@souq.test", "password": "not-the-password",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password: want 401, got %d", resp.StatusCode)
	}

	// unknown email -> 404
	resp, err = app.Test(jsonReq("POST", "/api/users/login", fiber.Map{
		"email": "ghost@souq.test", "password": "Passw0rd!x",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown email: want 404, got %d", resp.StatusCode)
	}

	// good credentials -> token and no password leak
	resp, err = app.Test(jsonReq("POST", "/api/users/login", fiber.Map{
		"email": "alice@souq.test", "password": "Passw0rd!x",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d", resp.StatusCode)
	}
	var body struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatal("no token on login")
	}
	if _, leaked := body.User["password"]; leaked {
		t.Fatal("password hash leaked in login response")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/users", fiber.Map{
		"email": "not-an-email", "password": "Passw0rd!x",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email: want 400, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("POST", "/api/users", fiber.Map{
		"email": "bob@souq.test", "password": "short",
	}, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password: want 400, got %d", resp.StatusCode)
	}
}

func TestLoginThrottle(t *testing.T) {
	_, deps := newTestApp(t)
	app := fiber.New()
	app.Post("/api/users/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), deps.Users.Login)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(jsonReq("POST", "/api/users/login", fiber.Map{
			"email": "ghost@souq.test", "password": "wrong-pass1",
		}, ""))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("attempt %d: want 404, got %d", i, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/api/users/login", strings.NewReader("{}")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429 after throttle, got %d", resp.StatusCode)
	}
}
