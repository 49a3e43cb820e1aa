// Package webapi provides the HTTP surface of the card service, organized
// into sub-packages per domain:
// - auth: login endpoint
// - card: card lifecycle and transfer endpoints
// - user: registration and profile endpoints
package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dkurilov/bankcards/pkg/config"
	authsvc "github.com/dkurilov/bankcards/pkg/service/auth"
	cardsvc "github.com/dkurilov/bankcards/pkg/service/card"
	transfersvc "github.com/dkurilov/bankcards/pkg/service/transfer"
	usersvc "github.com/dkurilov/bankcards/pkg/service/user"
	authweb "github.com/dkurilov/bankcards/webapi/auth"
	cardweb "github.com/dkurilov/bankcards/webapi/card"
	"github.com/dkurilov/bankcards/webapi/common"
	userweb "github.com/dkurilov/bankcards/webapi/user"
)

// Services bundles the application services the HTTP layer depends on.
type Services struct {
	Auth     *authsvc.Service
	User     *usersvc.Service
	Card     *cardsvc.Service
	Transfer *transfersvc.Service
}

// SetupApp initializes fiber with rate limiting, panic recovery, request
// logging and all routes.
func SetupApp(cfg *config.App, svcs Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ProblemDetailsJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	// Uses X-Forwarded-For when behind a proxy, falling back to X-Real-IP,
	// then the direct peer address.
	app.Use(limiter.New(limiter.Config{
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
			return common.ProblemDetailsJSON(c, fiber.StatusTooManyRequests,
				"Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Card service is up")
	})

	authweb.Routes(app, svcs.Auth)
	userweb.Routes(app, svcs.User, cfg.Jwt)
	cardweb.Routes(app, svcs.Card, svcs.Transfer, cfg.Jwt)

	return app
}
