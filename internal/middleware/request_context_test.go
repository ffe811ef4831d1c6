package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newEchoApp() *fiber.App {
	app := fiber.New()
	app.Use(NewRequestContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFromContext(c.UserContext()))
	})
	return app
}

func TestRequestContext(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantID   string
	}{
		{name: "propagates incoming id", incoming: "abc-123", wantID: "abc-123"},
		{name: "trims incoming id", incoming: "  abc-123 ", wantID: "abc-123"},
		{name: "generates missing id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}

			resp, err := newEchoApp().Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			header := resp.Header.Get(RequestIDHeader)
			if string(body) != header {
				t.Errorf("context id %q differs from header %q", body, header)
			}

			if tt.wantID != "" {
				if header != tt.wantID {
					t.Errorf("header = %q, want %q", header, tt.wantID)
				}
				return
			}
			if _, err := uuid.Parse(header); err != nil {
				t.Errorf("generated id %q is not a uuid: %v", header, err)
			}
		})
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}
