package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/services"
)

const authCookieName = "token"

// retrieveToken picks the bearer credential out of the request. Carrier
// priority: session cookie, then a token field in the body, then the
// Authorization header.
func retrieveToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(authCookieName); len(cookie) > 0 {
		return cookie
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err == nil && len(body.Token) > 0 {
		return body.Token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// authMiddleware resolves a presented token into a full account and attaches
// it to the request locals. Requests without a token pass through
// unauthenticated, the per-handler gate decides whether that is acceptable.
// A presented but invalid token is rejected outright.
func authMiddleware(cfg *conf.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := retrieveToken(c)
		if len(token) == 0 {
			return c.Next()
		}

		accountID, err := services.VerifyToken(cfg, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		account, err := services.GetAccountWithCache(accountID)
		if err != nil {
			// The token outlived its account.
			return fiber.NewError(fiber.StatusUnauthorized, "identity not found")
		}

		account.Password = ""
		c.Locals("user", account)

		return c.Next()
	}
}
