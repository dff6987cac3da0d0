// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"strings"

	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	UserIDKey   = "user_id"
	TokenCookie = "token"
)

// TokenVerifier resolves a signed token to its user. Implemented by the auth service.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (uuid.UUID, error)
}

// BearerOrCookie extracts the token from the Authorization header, falling back
// to the httpOnly cookie.
func BearerOrCookie(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ctx.Cookies(TokenCookie)
}

func JwtMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerOrCookie(ctx)
		if tokenStr == "" {
			return apperror.Unauthorized("Missing token")
		}

		userID, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			return apperror.Unauthorized("Invalid token")
		}

		ctx.Locals(UserIDKey, userID)
		return ctx.Next()
	}
}
