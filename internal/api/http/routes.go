package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tminusrain/parade-forecast/internal/forecast"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if !service.Ready() {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status":       status,
			"engine":       service.EngineName(),
			"model_loaded": service.Ready(),
		})
	})

	v1.Post("/forecast", func(c *fiber.Ctx) error {
		var req forecast.Request
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := service.Forecast(req)
		if err != nil {
			return mapForecastError(err)
		}

		return c.JSON(res)
	})

	v1.Get("/forecasts/recent", func(c *fiber.Ctx) error {
		limit := 20
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			limit = n
		}

		results := service.Recent(limit)
		return c.JSON(fiber.Map{
			"count":     len(results),
			"forecasts": results,
		})
	})
}

// mapForecastError converts the three domain error kinds into distinct HTTP
// statuses: validation → 400, missing artifacts → 503, everything internal
// (schema mismatch included) → 500. The fiber ErrorHandler renders the body.
func mapForecastError(err error) error {
	var validationErr *forecast.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Error())
	}
	if errors.Is(err, forecast.ErrModelUnavailable) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "forecast model is unavailable")
	}
	var schemaErr *forecast.SchemaMismatchError
	if errors.As(err, &schemaErr) {
		return fiber.NewError(fiber.StatusInternalServerError, schemaErr.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to compute forecast")
}
