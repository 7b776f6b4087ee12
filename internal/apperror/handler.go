package apperror

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the central Fiber error handler. Every failure path in the
// application funnels through here and comes out as the shared
// {success:false, error:message} envelope. Store-level error signals are
// translated once, so repositories and controllers never build failure
// responses themselves.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "There was a server error, try again"

		var appErr *Error
		var valErrs validator.ValidationErrors
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode
			message = appErr.Message

		case errors.As(err, &valErrs):
			status = fiber.StatusBadRequest
			message = validationMessage(valErrs)

		case errors.Is(err, primitive.ErrInvalidHex):
			status = fiber.StatusNotFound
			message = "Resource not found"

		case errors.Is(err, mongo.ErrNoDocuments):
			status = fiber.StatusNotFound
			message = "Resource not found"

		case mongo.IsDuplicateKeyError(err):
			status = fiber.StatusBadRequest
			message = duplicateKeyMessage(err)

		case errors.Is(err, jwt.ErrTokenExpired):
			status = fiber.StatusUnauthorized
			message = "Your session has expired, please log in again"

		case errors.Is(err, jwt.ErrSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed):
			status = fiber.StatusUnauthorized
			message = "Invalid authentication token"

		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

// validationMessage aggregates one message per failed field.
func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please add a %s", field)
	case "email":
		return "Please enter a valid email address"
	case "url":
		return "Please enter a valid URL with HTTP or HTTPS"
	case "max":
		if isNumericKind(fe.Kind()) {
			return fmt.Sprintf("%s cannot be more than %s", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s characters", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Please add at least one %s value", field)
		}
		if isNumericKind(fe.Kind()) {
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s is not a valid value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// duplicateKeyMessage picks one canonical message per unique index so a
// Group name conflict never reads like a User email conflict.
func duplicateKeyMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "group_1_user_1"):
		return "You have already submitted a review for this group"
	case strings.Contains(msg, "email"):
		return "email already exists"
	case strings.Contains(msg, "name"):
		return "name already exists"
	}
	return "Duplicate field value entered"
}
