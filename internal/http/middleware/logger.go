package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Logger logs one structured line per request to stdout.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.Local)
}

// LoggerWithWriter logs one JSON line per completed request to w. Timestamps
// are rendered in loc. Fields: request_id, method, path, status, latency, ts.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{
		// The default "time" key is replaced so log lines line up with the
		// rest of the service's output.
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
		TimestampFormat: time.RFC3339Nano,
	})

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)

		log.WithFields(logrus.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    time.Since(start).String(),
		}).WithTime(start.In(loc)).Info("request completed")

		return err
	}
}
