package apperror

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func testApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: Handler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func doRequest(t *testing.T, err error) (int, envelope) {
	t.Helper()
	resp, reqErr := testApp(err).Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestHandlerTranslations(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "App Error Passes Through",
			err:        New("Group not found with id:abc", fiber.StatusNotFound),
			wantStatus: fiber.StatusNotFound,
			wantError:  "Group not found with id:abc",
		},
		{
			name:       "Invalid ObjectID Is Not Found",
			err:        primitive.ErrInvalidHex,
			wantStatus: fiber.StatusNotFound,
			wantError:  "Resource not found",
		},
		{
			name:       "Missing Document Is Not Found",
			err:        mongo.ErrNoDocuments,
			wantStatus: fiber.StatusNotFound,
			wantError:  "Resource not found",
		},
		{
			name:       "Expired Token",
			err:        jwt.ErrTokenExpired,
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Your session has expired, please log in again",
		},
		{
			name:       "Malformed Token",
			err:        jwt.ErrTokenMalformed,
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "Invalid authentication token",
		},
		{
			name:       "Unknown Error Is Opaque 500",
			err:        io.ErrUnexpectedEOF,
			wantStatus: fiber.StatusInternalServerError,
			wantError:  "There was a server error, try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doRequest(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantError, env.Error)
		})
	}
}

func TestHandlerValidationMessages(t *testing.T) {
	type form struct {
		Name   string `validate:"required"`
		Email  string `validate:"omitempty,email"`
		Rating int    `validate:"omitempty,min=1,max=10"`
		Title  string `validate:"omitempty,max=5"`
	}

	v := validator.New()

	tests := []struct {
		name      string
		input     form
		wantError string
	}{
		{
			name:      "Required",
			input:     form{},
			wantError: "Please add a name",
		},
		{
			name:      "Email Format",
			input:     form{Name: "x", Email: "not-an-email"},
			wantError: "Please enter a valid email address",
		},
		{
			name:      "Numeric Max",
			input:     form{Name: "x", Rating: 11},
			wantError: "rating cannot be more than 10",
		},
		{
			name:      "String Max",
			input:     form{Name: "x", Title: "too long"},
			wantError: "title cannot be more than 5 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			require.Error(t, err)

			status, env := doRequest(t, err)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tt.wantError, env.Error)
		})
	}
}

func TestDuplicateKeyMessage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"E11000 duplicate key error collection: hobbyhub.reviews index: group_1_user_1", "You have already submitted a review for this group"},
		{"E11000 duplicate key error collection: hobbyhub.users index: email_1", "email already exists"},
		{"E11000 duplicate key error collection: hobbyhub.groups index: name_1", "name already exists"},
		{"E11000 duplicate key error index: something_else", "Duplicate field value entered"},
	}
	for _, tt := range tests {
		if got := duplicateKeyMessage(errString(tt.raw)); got != tt.want {
			t.Errorf("duplicateKeyMessage(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
