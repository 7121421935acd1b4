// Package webapi exposes the HTTP surface: signup and login, balance reads,
// synchronous and deferred transaction submission, and the history view.
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ksoliman/banksim/infra/initializer"
	"github.com/ksoliman/banksim/pkg/middleware"
	"github.com/ksoliman/banksim/webapi/common"
)

// SetupApp builds the Fiber application and mounts every route.
func SetupApp(deps *initializer.Deps) *fiber.App {
	cfg := deps.Cfg

	app := fiber.New(fiber.Config{
		AppName:      "banksim",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseJSON(c, fe.Code, fe.Message, nil)
			}
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError,
				"Internal Server Error", err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("banksim API is running")
	})

	// Rate limiting on the credential endpoints only. Uses X-Forwarded-For
	// when behind a proxy, falling back to X-Real-IP, then the direct IP.
	throttle := limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests,
				"Too Many Requests", "rate limit exceeded")
		},
	})

	app.Post("/auth/register", throttle, Register(deps.Users))
	app.Post("/auth/login", throttle, Login(deps.Auth))

	protected := middleware.JwtProtected(cfg.Jwt)
	app.Get("/account", protected, GetBalance(deps.Ledger))
	app.Post("/account/transactions", protected, SubmitTransaction(deps.Ledger))
	app.Post("/account/transactions/async", protected, SubmitTransactionAsync(deps.Ledger))
	app.Get("/account/transactions", protected, GetHistory(deps.History))

	return app
}
