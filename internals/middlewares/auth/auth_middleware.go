package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userModel "thinkfinity_backend/internals/features/users/model"
	helper "thinkfinity_backend/internals/helpers"
)

const LocalsAuthUser = "auth_user"

// Actions that are readable without a session (public explore page).
var skipActions = map[string]struct{}{
	"get_explore_classes": {},
}

// AuthUser is the identity resolved from a session token.
type AuthUser struct {
	ID           uint64
	UUID         string
	Username     string
	Email        string
	ProfileImage *string
}

// AuthMiddleware resolves the opaque bearer token to a user via a
// non-expired `sessions` row. No refresh semantics: an absent or expired
// token is a hard 401.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := skipActions[c.Query("action")]; ok {
			return c.Next()
		}

		token := helper.GetRawAccessToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		var session userModel.SessionModel
		err := db.Preload("User").
			Where("token = ? AND expires_at > ?", token, time.Now()).
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
			}
			log.Printf("[ERROR] session lookup: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Token verification failed")
		}

		c.Locals(LocalsAuthUser, &AuthUser{
			ID:           session.User.ID,
			UUID:         session.User.UUID,
			Username:     session.User.Username,
			Email:        session.User.Email,
			ProfileImage: session.User.ProfileImage,
		})
		return c.Next()
	}
}

// CurrentUser returns the identity stored by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*AuthUser, error) {
	u, ok := c.Locals(LocalsAuthUser).(*AuthUser)
	if !ok || u == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	return u, nil
}
