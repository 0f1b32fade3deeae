package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

const SessionIDKey = "session_id"

type SessionMiddleware struct {
	cfg config.Config
}

func NewSessionMiddleware(cfg config.Config) *SessionMiddleware {
	return &SessionMiddleware{cfg: cfg}
}

// SessionMiddleware resolves the caller's session from the signed cookie and
// issues a fresh one when it is missing or invalid.
func (m *SessionMiddleware) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString := c.Cookies(m.cfg.CookieName); tokenString != "" {
			claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
			if err == nil {
				c.Locals(SessionIDKey, claims.SessionID)
				return c.Next()
			}
			log.Printf("Session token rejected: %v", err)
		}

		sessionID := uuid.NewString()
		token, err := utils.GenerateToken(m.cfg.SecretKey, sessionID, m.cfg.SessionTTL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to create session",
			})
		}

		c.Cookie(&fiber.Cookie{
			Name:     m.cfg.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(m.cfg.SessionTTL),
			HTTPOnly: true,
			Secure:   c.Protocol() == "https",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}
