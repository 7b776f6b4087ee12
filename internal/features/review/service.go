package review

import (
	"context"
	"errors"
	"net/http"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/authz"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/query"
	"hobbyhub/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupSource answers existence questions about parent groups.
type GroupSource interface {
	Owner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error)
}

type ReviewService interface {
	List(ctx context.Context, queries map[string]string, groupID string) (*query.Result, error)
	Get(ctx context.Context, id string) (*Review, error)
	Create(ctx context.Context, actor *models.User, groupID string, review *Review) error
	Update(ctx context.Context, actor *models.User, id string, in *UpdateInput) (*Review, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

type ReviewServiceImpl struct {
	Repo   ReviewRepository
	Groups GroupSource
}

func NewReviewService(repo ReviewRepository, groups GroupSource) ReviewService {
	return &ReviewServiceImpl{Repo: repo, Groups: groups}
}

func (s *ReviewServiceImpl) List(ctx context.Context, queries map[string]string, groupID string) (*query.Result, error) {
	params, err := query.Parse(queries)
	if err != nil {
		return nil, err
	}

	if groupID != "" {
		oid, err := parseID(groupID)
		if err != nil {
			return nil, err
		}
		params.Filter["group"] = oid
	}

	return s.Repo.List(ctx, params)
}

func (s *ReviewServiceImpl) Get(ctx context.Context, id string) (*Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	review, err := s.Repo.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Newf(http.StatusNotFound, "Review not found with id:%s", id)
	}
	return review, err
}

func (s *ReviewServiceImpl) Create(ctx context.Context, actor *models.User, groupID string, review *Review) error {
	oid, err := parseID(groupID)
	if err != nil {
		return err
	}

	if _, err := s.Groups.Owner(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.Newf(http.StatusNotFound, "Group not found with id:%s", groupID)
		}
		return err
	}

	if err := validation.Struct(review); err != nil {
		return err
	}

	review.Group = oid
	review.User = actor.ID

	// The unique (group,user) index rejects a second review from the same
	// user; the duplicate-key translation gives the 400.
	if err := s.Repo.Create(ctx, review); err != nil {
		return err
	}
	return s.Repo.RecalcAverageRating(ctx, oid)
}

func (s *ReviewServiceImpl) Update(ctx context.Context, actor *models.User, id string, in *UpdateInput) (*Review, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkMutate(actor, review.User, "update this review"); err != nil {
		return nil, err
	}

	ratingChanged := false
	if in.Title != nil {
		review.Title = *in.Title
	}
	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Rating != nil {
		review.Rating = *in.Rating
		ratingChanged = true
	}

	if err := validation.Struct(review); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, review); err != nil {
		return nil, err
	}

	if ratingChanged {
		if err := s.Repo.RecalcAverageRating(ctx, review.Group); err != nil {
			return nil, err
		}
	}
	return review, nil
}

func (s *ReviewServiceImpl) Delete(ctx context.Context, actor *models.User, id string) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkMutate(actor, review.User, "delete this review"); err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, review.ID); err != nil {
		return err
	}
	return s.Repo.RecalcAverageRating(ctx, review.Group)
}

func checkMutate(actor *models.User, owner primitive.ObjectID, action string) error {
	switch authz.CanMutate(actor, owner, models.RoleUser) {
	case authz.DeniedRole:
		return apperror.Newf(http.StatusForbidden, "User role '%s' is not authorized to %s", actor.Role, action)
	case authz.DeniedOwnership:
		return apperror.Newf(http.StatusForbidden, "User %s is not authorized to %s", actor.ID.Hex(), action)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.Newf(http.StatusNotFound, "Resource not found with id:%s", id)
	}
	return oid, nil
}
