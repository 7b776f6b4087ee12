package meetup

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

// GroupSource answers existence/ownership questions about parent groups.
// Implemented by the group repository; declared here to avoid a cycle.
type GroupSource interface {
	Owner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error)
}

type MeetupService interface {
	List(ctx context.Context, queries map[string]string, groupID string) (*query.Result, error)
	Get(ctx context.Context, id string) (*Meetup, error)
	Create(ctx context.Context, actor *models.User, groupID string, meetup *Meetup) error
	Update(ctx context.Context, actor *models.User, id string, in *UpdateInput) (*Meetup, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

type MeetupServiceImpl struct {
	Repo   MeetupRepository
	Groups GroupSource
}

func NewMeetupService(repo MeetupRepository, groups GroupSource) MeetupService {
	return &MeetupServiceImpl{Repo: repo, Groups: groups}
}

// List serves both /meetups and the nested /groups/:groupId/meetups route;
// the nested form filters by the parent group.
func (s *MeetupServiceImpl) List(ctx context.Context, queries map[string]string, groupID string) (*query.Result, error) {
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

func (s *MeetupServiceImpl) Get(ctx context.Context, id string) (*Meetup, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	meetup, err := s.Repo.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Newf(http.StatusNotFound, "Meetup not found with id:%s", id)
	}
	return meetup, err
}

func (s *MeetupServiceImpl) Create(ctx context.Context, actor *models.User, groupID string, meetup *Meetup) error {
	oid, err := parseID(groupID)
	if err != nil {
		return err
	}

	owner, err := s.Groups.Owner(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.Newf(http.StatusNotFound, "Group not found with id:%s", groupID)
	}
	if err != nil {
		return err
	}

	// Only the group's owner (or an admin) may add meetups to it.
	if err := checkMutate(actor, owner, "add meetups to this group"); err != nil {
		return err
	}

	if meetup.NewMembers == nil {
		open := true
		meetup.NewMembers = &open
	}
	if err := validation.Struct(meetup); err != nil {
		return err
	}

	meetup.Group = oid
	meetup.User = actor.ID

	if err := s.Repo.Create(ctx, meetup); err != nil {
		return err
	}
	return s.Repo.RecalcAverageCost(ctx, oid)
}

func (s *MeetupServiceImpl) Update(ctx context.Context, actor *models.User, id string, in *UpdateInput) (*Meetup, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	meetup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkMutate(actor, meetup.User, "update this meetup"); err != nil {
		return nil, err
	}

	costChanged := false
	if in.Title != nil {
		meetup.Title = *in.Title
	}
	if in.Description != nil {
		meetup.Description = *in.Description
	}
	if in.Hours != nil {
		meetup.Hours = *in.Hours
	}
	if in.Cost != nil {
		meetup.Cost = in.Cost
		costChanged = true
	}
	if in.MinExperience != nil {
		meetup.MinExperience = *in.MinExperience
	}
	if in.NewMembers != nil {
		meetup.NewMembers = in.NewMembers
	}

	if err := validation.Struct(meetup); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, meetup); err != nil {
		return nil, err
	}

	if costChanged {
		if err := s.Repo.RecalcAverageCost(ctx, meetup.Group); err != nil {
			return nil, err
		}
	}
	return meetup, nil
}

func (s *MeetupServiceImpl) Delete(ctx context.Context, actor *models.User, id string) error {
	meetup, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkMutate(actor, meetup.User, "delete this meetup"); err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, meetup.ID); err != nil {
		return err
	}
	return s.Repo.RecalcAverageCost(ctx, meetup.Group)
}

func checkMutate(actor *models.User, owner primitive.ObjectID, action string) error {
	switch authz.CanMutate(actor, owner, models.RolePublisher, models.RoleAdmin) {
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
