package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("gw-secret"))
	app.Get("/open", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/me", UserContextMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	app.Get("/admin", UserContextMiddleware(), RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendString("admin")
	})
	return app
}

func status(t *testing.T, app *fiber.App, path string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestGatewayAuth(t *testing.T) {
	app := newApp()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "Bearer nope", fiber.StatusUnauthorized},
		{"bearer", "Bearer gw-secret", fiber.StatusOK},
		{"raw", "gw-secret", fiber.StatusOK},
	}
	for _, tc := range cases {
		headers := map[string]string{}
		if tc.header != "" {
			headers["Authorization"] = tc.header
		}
		if got := status(t, app, "/open", headers); got != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestUserContext(t *testing.T) {
	app := newApp()
	auth := "Bearer gw-secret"

	if got := status(t, app, "/me", map[string]string{"Authorization": auth}); got != fiber.StatusUnauthorized {
		t.Fatalf("missing user = %d, want 401", got)
	}
	if got := status(t, app, "/me", map[string]string{"Authorization": auth, "X-User-ID": "u1"}); got != fiber.StatusOK {
		t.Fatalf("with user = %d, want 200", got)
	}
}

func TestRequireRole(t *testing.T) {
	app := newApp()
	auth := "Bearer gw-secret"

	if got := status(t, app, "/admin", map[string]string{"Authorization": auth, "X-User-ID": "u1", "X-User-Roles": "user"}); got != fiber.StatusForbidden {
		t.Fatalf("non-admin = %d, want 403", got)
	}
	if got := status(t, app, "/admin", map[string]string{"Authorization": auth, "X-User-ID": "u1", "X-User-Roles": "user, admin"}); got != fiber.StatusOK {
		t.Fatalf("admin = %d, want 200", got)
	}
}
