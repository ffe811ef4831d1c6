package httpserver

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"isucari/pkg/httperror"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// queryKeysSetter is implemented by requests that need to know which query
// keys were sent, including keys sent with an empty value.
type queryKeysSetter interface {
	SetQueryKeys(has func(key string) bool)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"json decode error",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		if r, ok := any(&req).(queryKeysSetter); ok {
			args := c.Context().QueryArgs()
			r.SetQueryKeys(func(key string) bool { return args.Has(key) })
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

// writeError renders {"error": message}. Details and causes are logged only.
func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		fields := []zap.Field{
			zap.String("code", httpErr.Code),
			zap.String("path", c.Path()),
			zap.Error(httpErr),
		}
		if httpErr.Details != nil {
			fields = append(fields, zap.Any("details", httpErr.Details))
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", fields...)
		} else {
			zap.L().Warn("Handler returned client error", fields...)
		}

		return c.Status(httpErr.Status).JSON(fiber.Map{
			"error": httpErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
