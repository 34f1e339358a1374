package main

import (
	"context"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"coverapi/internal/config"
	handlers "coverapi/internal/http/handler"
	"coverapi/internal/http/middleware"
	"coverapi/internal/llm"
	"coverapi/internal/otel"
	"coverapi/internal/pdf"
	"coverapi/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Tracing is best-effort; a missing collector must not block startup
	shutdownTracing, err := otel.Init(context.Background(), logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize tracing")
	}
	defer shutdownTracing(context.Background())

	client, err := llm.New(cfg.Model, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize model client")
	}

	extractor := pdf.NewExtractor(logger)
	svc := service.NewAnalysisService(extractor, client, cfg.Upload, logger)

	app := fiber.New(fiber.Config{
		// Two PDFs plus form fields and multipart framing
		BodyLimit:    int(cfg.Upload.MaxFileSizeBytes)*2 + 1<<20,
		ErrorHandler: handlers.ErrorHandler(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.WithError(err).Fatal("failed to register metrics")
	}

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMw.Handler())

	handlers.RegisterRoutes(app, svc, reg)

	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("starting server")

	if err := app.Listen(addr); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}
