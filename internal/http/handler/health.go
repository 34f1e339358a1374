package handler

import (
	"github.com/gofiber/fiber/v2"

	"coverapi/internal/service"
)

const serviceName = "coverapi"

// Root handles GET / with basic service information.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": serviceName,
			"message": "insurance coverage analysis API",
			"docs":    "/docs",
			"health":  "/health",
		})
	}
}

// HealthCheck handles GET /health. It reports process liveness only and never
// touches the model endpoint, so it stays cheap enough for probe loops.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": serviceName,
		})
	}
}

// LivenessProbe handles GET /live and GET /healthz. It always answers
// immediately; a failure here means the process itself is gone.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	}
}

// ReadinessProbe handles GET /ready. The service is ready once the model
// endpoint answers; until then orchestrators should hold traffic back, so an
// unready service gets a 503.
func ReadinessProbe(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.CheckModel(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not_ready",
				"reason": "model endpoint unreachable",
			})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}

// DetailedHealthCheck handles GET /health/detailed. It additionally verifies
// connectivity to the model endpoint and reports per-component status. A
// degraded model still yields 200; callers read the status field.
func DetailedHealthCheck(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		modelStatus := "healthy"
		status := "healthy"
		if err := svc.CheckModel(c.UserContext()); err != nil {
			modelStatus = "unreachable"
			status = "degraded"
		}

		return c.JSON(fiber.Map{
			"status":  status,
			"service": serviceName,
			"components": fiber.Map{
				"http":           "healthy",
				"model_endpoint": modelStatus,
			},
		})
	}
}
