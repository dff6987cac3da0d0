package serverutils

import (
	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"
	"github.com/ProbablyAY/SparkCo/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ValidateRequest runs the struct validation tags on a request DTO.
func ValidateRequest(req interface{}) error {
	return validation.Struct(req)
}

// ParseBody decodes a JSON body and validates it.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("invalid request body")
	}
	return ValidateRequest(req)
}

// ParamUUID reads a path parameter as a UUID. A malformed id cannot name an
// existing row, so it is reported as not found.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound("%s not found", name)
	}
	return id, nil
}

// UserID returns the caller set by JwtMiddleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := ctx.Locals(UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("unauthorized")
	}
	return id, nil
}
