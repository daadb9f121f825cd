package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"souq/internal/http/handlers"
	"souq/internal/repos"
)

// Minimal app with the production body limits: a high server cap and the
// 1 MiB middleware limit that exempts the upload route.
func newBodySizeApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig()
	cfg.MediaDir = t.TempDir()
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()
	app.Server().MaxRequestBodySize = 20 << 20
	app.Use(handlers.BodyLimit(1<<20, "/api/admin/upload"))

	app.Post("/api/users", deps.Users.Register)
	app.Group("/api/admin").Post("/login", deps.Admins.Login)
	sec := app.Group("/api/admin", handlers.RequireAdmin(deps.Auth))
	sec.Post("/upload", deps.Uploads.Post)
	return app
}

func bigMultipart(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "product.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0xAB}, size)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, w.FormDataContentType()
}

// SR-SIZE-01: oversized JSON bodies are rejected before any handler runs.
func TestJSONBodyOverLimitRejected(t *testing.T) {
	app := newBodySizeApp(t)

	big := bytes.Repeat([]byte("a"), (1<<20)+1024)
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413 for oversized JSON body, got %d", resp.StatusCode)
	}
}

// SR-SIZE-02: the upload route is exempt, so a multi-MiB image goes through.
func TestUploadRouteAcceptsLargeFile(t *testing.T) {
	app := newBodySizeApp(t)
	atok := adminToken(t, app)

	body, contentType := bigMultipart(t, 2<<20)
	req := httptest.NewRequest("POST", "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+atok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 for large upload, got %d", resp.StatusCode)
	}
	var out struct {
		Success bool   `json:"success"`
		Link    string `json:"link"`
	}
	decodeBody(t, resp, &out)
	if !out.Success || out.Link == "" {
		t.Fatalf("upload response: %+v", out)
	}
}
