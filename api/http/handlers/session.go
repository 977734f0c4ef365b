package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/ats/pkg/auth"
)

var errNoSession = errors.New("no authenticated session")

// sessionFromCtx собирает auth.Session из Locals, выставленных JWT-middleware.
func sessionFromCtx(c *fiber.Ctx) (auth.Session, error) {
	userIDStr, _ := c.Locals("userId").(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return auth.Session{}, errNoSession
	}
	role, _ := c.Locals("role").(string)
	isSuper, _ := c.Locals("isSuperuser").(bool)
	return auth.Session{
		UserID:      uid,
		Role:        auth.Role(role),
		IsSuperuser: isSuper,
	}, nil
}
