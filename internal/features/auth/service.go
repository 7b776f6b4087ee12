package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/email"
	"hobbyhub/internal/features/user"
	"hobbyhub/internal/validation"
	"hobbyhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const resetTokenTTL = 10 * time.Minute

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

type DetailsInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type AuthService interface {
	Register(ctx context.Context, in *RegisterInput) (*models.User, error)
	Login(ctx context.Context, emailAddr, password string) (*models.User, error)
	UpdateDetails(ctx context.Context, actor *models.User, in *DetailsInput) (*models.User, error)
	UpdatePassword(ctx context.Context, actor *models.User, current, next string) error
	ForgotPassword(ctx context.Context, emailAddr, resetURL string) error
	ResetPassword(ctx context.Context, rawToken, password string) (*models.User, error)
}

type AuthServiceImpl struct {
	Users  user.UserRepository
	Mailer email.Mailer
	Log    *zap.Logger
}

func NewAuthService(users user.UserRepository, mailer email.Mailer, log *zap.Logger) AuthService {
	return &AuthServiceImpl{Users: users, Mailer: mailer, Log: log}
}

func (s *AuthServiceImpl) Register(ctx context.Context, in *RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	usr := &models.User{
		Name:     in.Name,
		Email:    strings.ToLower(in.Email),
		Role:     in.Role,
		Password: in.Password,
	}
	if usr.Role == "" {
		usr.Role = models.RoleUser
	}

	hash, err := utils.HashPassword(usr.Password)
	if err != nil {
		return nil, err
	}
	usr.Password = hash

	if err := s.Users.Create(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, emailAddr, password string) (*models.User, error) {
	if emailAddr == "" || password == "" {
		return nil, apperror.New("Please enter an email and password", http.StatusBadRequest)
	}

	usr, err := s.Users.FindByEmail(ctx, strings.ToLower(emailAddr))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.New("Invalid credentials, try again", http.StatusUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(usr.Password, password) {
		return nil, apperror.New("Invalid credentials, try again", http.StatusUnauthorized)
	}
	return usr, nil
}

func (s *AuthServiceImpl) UpdateDetails(ctx context.Context, actor *models.User, in *DetailsInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.Name != nil {
		actor.Name = *in.Name
		set["name"] = actor.Name
	}
	if in.Email != nil {
		actor.Email = strings.ToLower(*in.Email)
		set["email"] = actor.Email
	}

	if err := s.Users.Update(ctx, actor.ID, set); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, actor *models.User, current, next string) error {
	if !utils.CheckPassword(actor.Password, current) {
		return apperror.New("Password is incorrect", http.StatusUnauthorized)
	}
	if len(next) < 8 {
		return apperror.New("Password must be at least 8 characters", http.StatusBadRequest)
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, actor.ID, hash)
}

// ForgotPassword issues a single-use reset token and mails the reset link.
// If the mail cannot be sent the token is cleared before the error surfaces,
// so no orphaned token lingers on the account.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, emailAddr, resetURL string) error {
	usr, err := s.Users.FindByEmail(ctx, strings.ToLower(emailAddr))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.New("There is no user registered with that email address", http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	token, digest, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}
	if err := s.Users.SetResetToken(ctx, usr.ID, digest, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s/%s",
		resetURL, token,
	)
	if err := s.Mailer.Send(usr.Email, "Password reset token", body); err != nil {
		s.Log.Error("sending reset email failed", zap.Error(err))
		if clearErr := s.Users.ClearResetToken(ctx, usr.ID); clearErr != nil {
			s.Log.Error("clearing reset token failed", zap.Error(clearErr))
		}
		return apperror.New("Email could not be sent", http.StatusInternalServerError)
	}
	return nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, rawToken, password string) (*models.User, error) {
	digest := utils.HashResetToken(rawToken)

	usr, err := s.Users.FindByResetToken(ctx, digest, time.Now())
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.New("Invalid token", http.StatusBadRequest)
	}
	if err != nil {
		return nil, err
	}

	if len(password) < 8 {
		return nil, apperror.New("Password must be at least 8 characters", http.StatusBadRequest)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdatePassword(ctx, usr.ID, hash); err != nil {
		return nil, err
	}
	return usr, nil
}
