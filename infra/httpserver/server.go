package httpserver

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"isucari/app"
	"isucari/internal/middleware"
)

type Handlers struct {
	NewItems         *app.GetNewItemsHandler
	NewCategoryItems *app.GetNewCategoryItemsHandler
	UserItems        *app.GetUserItemsHandler
	Settings         *app.GetSettingsHandler
	Initialize       *app.InitializeHandler
}

func New(h Handlers) *fiber.App {
	server := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		ErrorHandler: writeError,
	})

	server.Use(recover.New())
	server.Use(middleware.NewRequestContextMiddleware())

	server.Get("/initialize", handle[app.InitializeRequest, app.InitializeResponse](h.Initialize))
	server.Post("/initialize", handle[app.InitializeRequest, app.InitializeResponse](h.Initialize))
	server.Get("/new_items.json", handle[app.GetNewItemsRequest, app.GetNewItemsResponse](h.NewItems))
	server.Get("/new_items/:root_category_id.json", handle[app.GetNewCategoryItemsRequest, app.GetNewCategoryItemsResponse](h.NewCategoryItems))
	server.Get("/users/:user_id.json", handle[app.GetUserItemsRequest, app.GetUserItemsResponse](h.UserItems))
	server.Get("/settings", handle[app.GetSettingsRequest, app.GetSettingsResponse](h.Settings))

	return server
}
