package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

func newTestApp() (*fiber.App, config.Config) {
	cfg := config.Config{SecretKey: "0123456789abcdef0123456789abcdef", CookieName: "sid", SessionTTL: time.Hour}
	app := fiber.New()
	app.Use(NewSessionMiddleware(cfg).SessionMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(SessionIDKey).(string))
	})
	return app, cfg
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	app, cfg := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Fatal("no session id assigned")
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cfg.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}

	claims, err := utils.ValidateToken(cfg.SecretKey, cookie.Value)
	if err != nil || claims.SessionID != string(body) {
		t.Fatalf("cookie claims = %+v, %v", claims, err)
	}
}

func TestSessionMiddlewareReusesValidCookie(t *testing.T) {
	app, cfg := newTestApp()

	token, _ := utils.GenerateToken(cfg.SecretKey, "existing-session", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "existing-session" {
		t.Errorf("session = %q", body)
	}
	if len(resp.Cookies()) != 0 {
		t.Error("cookie reissued for a valid session")
	}
}

func TestSessionMiddlewareReplacesForgedCookie(t *testing.T) {
	app, cfg := newTestApp()

	forged, _ := utils.GenerateToken("another-secret", "victim", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: forged})

	resp, _ := app.Test(req)
	body, _ := io.ReadAll(resp.Body)
	if string(body) == "victim" || len(body) == 0 {
		t.Errorf("session = %q", body)
	}
}
