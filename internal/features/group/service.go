package group

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/authz"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/geocoder"
	"hobbyhub/internal/query"
	"hobbyhub/internal/validation"
	"hobbyhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const earthRadiusMiles = 3963.2

// MeetupCascader deletes the meetups belonging to a group. Implemented by
// the meetup repository; declared here to keep the dependency one-way.
type MeetupCascader interface {
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error
}

// ReviewCascader deletes the reviews belonging to a group.
type ReviewCascader interface {
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error
}

type GroupService interface {
	List(ctx context.Context, queries map[string]string) (*query.Result, error)
	Get(ctx context.Context, id string) (*Group, error)
	Create(ctx context.Context, actor *models.User, group *Group) error
	Update(ctx context.Context, actor *models.User, id string, in *UpdateInput) (*Group, error)
	Delete(ctx context.Context, actor *models.User, id string) error
	InRadius(ctx context.Context, zipcode, distance string) ([]Group, error)
	GetOwned(ctx context.Context, actor *models.User, id string) (*Group, error)
	SetPhoto(ctx context.Context, id primitive.ObjectID, filename string) error
}

type GroupServiceImpl struct {
	Repo     GroupRepository
	Geocoder geocoder.Geocoder
	Meetups  MeetupCascader
	Reviews  ReviewCascader
	Config   *config.Config
}

func NewGroupService(repo GroupRepository, geo geocoder.Geocoder, meetups MeetupCascader, reviews ReviewCascader, cfg *config.Config) GroupService {
	return &GroupServiceImpl{
		Repo:     repo,
		Geocoder: geo,
		Meetups:  meetups,
		Reviews:  reviews,
		Config:   cfg,
	}
}

func (s *GroupServiceImpl) List(ctx context.Context, queries map[string]string) (*query.Result, error) {
	params, err := query.Parse(queries)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, params)
}

func (s *GroupServiceImpl) Get(ctx context.Context, id string) (*Group, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	group, err := s.Repo.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Newf(http.StatusNotFound, "Group not found with id:%s", id)
	}
	return group, err
}

func (s *GroupServiceImpl) Create(ctx context.Context, actor *models.User, group *Group) error {
	// A non-admin user may publish exactly one group.
	if actor.Role != models.RoleAdmin {
		if _, err := s.Repo.FindByUser(ctx, actor.ID); err == nil {
			return apperror.Newf(http.StatusBadRequest, "The user with ID %s has already published a group", actor.ID.Hex())
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
	}

	if strings.TrimSpace(group.Address) == "" {
		return apperror.New("Please add an address", http.StatusBadRequest)
	}
	if err := validation.Struct(group); err != nil {
		return err
	}

	loc, err := s.Geocoder.Geocode(ctx, group.Address)
	if err != nil {
		return err
	}

	group.Location = locationFrom(loc)
	group.Address = ""
	group.Slug = utils.Slugify(group.Name)
	group.Photo = DefaultPhoto
	group.AverageCost = nil
	group.AverageRating = nil
	group.User = actor.ID

	return s.Repo.Create(ctx, group)
}

func (s *GroupServiceImpl) Update(ctx context.Context, actor *models.User, id string, in *UpdateInput) (*Group, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	group, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		group.Name = *in.Name
		group.Slug = utils.Slugify(*in.Name)
	}
	if in.Description != nil {
		group.Description = *in.Description
	}
	if in.Website != nil {
		group.Website = *in.Website
	}
	if in.Phone != nil {
		group.Phone = *in.Phone
	}
	if in.Email != nil {
		group.Email = *in.Email
	}
	if in.Focus != nil {
		group.Focus = *in.Focus
	}
	if in.Teaching != nil {
		group.Teaching = *in.Teaching
	}
	if in.OwnLibrary != nil {
		group.OwnLibrary = *in.OwnLibrary
	}
	if in.PurchaseMin != nil {
		group.PurchaseMin = *in.PurchaseMin
	}
	if in.AcceptNew != nil {
		group.AcceptNew = *in.AcceptNew
	}

	if err := validation.Struct(group); err != nil {
		return nil, err
	}

	// Address changes re-derive the stored location.
	if in.Address != nil && strings.TrimSpace(*in.Address) != "" {
		loc, err := s.Geocoder.Geocode(ctx, *in.Address)
		if err != nil {
			return nil, err
		}
		group.Location = locationFrom(loc)
	}

	if err := s.Repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupServiceImpl) Delete(ctx context.Context, actor *models.User, id string) error {
	group, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, group.ID); err != nil {
		return err
	}

	// Cascade: a group owns its meetups and reviews.
	if err := s.Meetups.DeleteByGroup(ctx, group.ID); err != nil {
		return err
	}
	if err := s.Reviews.DeleteByGroup(ctx, group.ID); err != nil {
		return err
	}

	s.removePhoto(group)
	return nil
}

func (s *GroupServiceImpl) InRadius(ctx context.Context, zipcode, distance string) ([]Group, error) {
	miles, err := strconv.ParseFloat(distance, 64)
	if err != nil || miles <= 0 {
		return nil, apperror.New("Distance must be a positive number of miles", http.StatusBadRequest)
	}

	loc, err := s.Geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}

	return s.Repo.FindWithinRadius(ctx, loc.Latitude, loc.Longitude, miles/earthRadiusMiles)
}

// GetOwned loads a group and verifies the actor may mutate it.
func (s *GroupServiceImpl) GetOwned(ctx context.Context, actor *models.User, id string) (*Group, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch authz.CanMutate(actor, group.User, models.RolePublisher, models.RoleAdmin) {
	case authz.DeniedRole:
		return nil, apperror.Newf(http.StatusForbidden, "User role '%s' is not authorized to modify this group", actor.Role)
	case authz.DeniedOwnership:
		return nil, apperror.Newf(http.StatusForbidden, "User %s is not authorized to modify this group", actor.ID.Hex())
	}
	return group, nil
}

func (s *GroupServiceImpl) SetPhoto(ctx context.Context, id primitive.ObjectID, filename string) error {
	return s.Repo.SetPhoto(ctx, id, filename)
}

func (s *GroupServiceImpl) removePhoto(group *Group) {
	if group.Photo == "" || group.Photo == DefaultPhoto {
		return
	}
	path := filepath.Join(s.Config.FileUploadPath, group.Photo)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		// The document is already gone; a stray file is not worth failing over.
		return
	}
}

func locationFrom(loc *geocoder.Result) *Location {
	return &Location{
		Type:             "Point",
		Coordinates:      []float64{loc.Longitude, loc.Latitude},
		FormattedAddress: loc.FormattedAddress,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.Zipcode,
		Country:          loc.Country,
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.Newf(http.StatusNotFound, "Resource not found with id:%s", id)
	}
	return oid, nil
}
