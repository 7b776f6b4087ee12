package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/query"
	"hobbyhub/internal/validation"
	"hobbyhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

type UserService interface {
	List(ctx context.Context, queries map[string]string) (*query.Result, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, in *UpdateInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

func (s *UserServiceImpl) List(ctx context.Context, queries map[string]string) (*query.Result, error) {
	params, err := query.Parse(queries)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, params)
}

func (s *UserServiceImpl) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	usr, err := s.Repo.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Newf(http.StatusNotFound, "User not found with id:%s", id)
	}
	return usr, err
}

func (s *UserServiceImpl) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := validation.Struct(user); err != nil {
		return err
	}

	hash, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hash
	user.Email = strings.ToLower(user.Email)

	return s.Repo.Create(ctx, user)
}

func (s *UserServiceImpl) Update(ctx context.Context, id string, in *UpdateInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	usr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.Name != nil {
		usr.Name = *in.Name
		set["name"] = usr.Name
	}
	if in.Email != nil {
		usr.Email = strings.ToLower(*in.Email)
		set["email"] = usr.Email
	}
	if in.Role != nil {
		usr.Role = *in.Role
		set["role"] = usr.Role
	}

	if err := s.Repo.Update(ctx, usr.ID, set); err != nil {
		return nil, err
	}
	return usr, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	usr, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Repo.Delete(ctx, usr.ID)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.Newf(http.StatusNotFound, "Resource not found with id:%s", id)
	}
	return oid, nil
}
