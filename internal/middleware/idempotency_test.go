package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/clearbook/clearbook/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var served int
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/transactions", func(c *fiber.Ctx) error {
		served++
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted", "served": served})
	})
	return app
}

func postWithKey(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transactions", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app := setupTestApp(t)

	status, _ := postWithKey(t, app, "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, status)
	}
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	app := setupTestApp(t)

	status1, body1 := postWithKey(t, app, "abc123")
	if status1 != fiber.StatusAccepted {
		t.Fatalf("first request status = %d", status1)
	}

	status2, body2 := postWithKey(t, app, "abc123")
	if status2 != fiber.StatusAccepted {
		t.Fatalf("replay status = %d", status2)
	}
	if body1 != body2 {
		t.Fatalf("replay body %q differs from original %q", body2, body1)
	}
	if !strings.Contains(body1, `"served":1`) {
		t.Fatalf("unexpected body: %s", body1)
	}
}

func TestIdempotencyDistinctKeysHitHandler(t *testing.T) {
	app := setupTestApp(t)

	_, body1 := postWithKey(t, app, "key-1")
	_, body2 := postWithKey(t, app, "key-2")
	if body1 == body2 {
		t.Fatalf("distinct keys returned identical bodies: %s", body1)
	}
}

func TestIdempotencySkipsReads(t *testing.T) {
	app := setupTestApp(t)
	app.Get("/resource", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(fiber.MethodGet, "/resource", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET without key should pass, got %d", resp.StatusCode)
	}
}
