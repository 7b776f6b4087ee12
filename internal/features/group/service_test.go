package group

import (
	"context"
	"testing"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/config"
	"hobbyhub/internal/geocoder"
	"hobbyhub/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeGroupRepo struct {
	byID    map[primitive.ObjectID]*Group
	deleted []primitive.ObjectID
	radius  float64
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{byID: map[primitive.ObjectID]*Group{}}
}

func (f *fakeGroupRepo) Create(_ context.Context, g *Group) error {
	g.ID = primitive.NewObjectID()
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id primitive.ObjectID) (*Group, error) {
	if g, ok := f.byID[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeGroupRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*Group, error) {
	for _, g := range f.byID {
		if g.User == userID {
			return g, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeGroupRepo) Owner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	g, err := f.FindByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return g.User, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, g *Group) error {
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGroupRepo) List(context.Context, *query.Params) (*query.Result, error) {
	return &query.Result{}, nil
}

func (f *fakeGroupRepo) FindWithinRadius(_ context.Context, _, _, radius float64) ([]Group, error) {
	f.radius = radius
	return nil, nil
}

func (f *fakeGroupRepo) SetPhoto(_ context.Context, id primitive.ObjectID, filename string) error {
	f.byID[id].Photo = filename
	return nil
}

func (f *fakeGroupRepo) EnsureIndexes(context.Context) error { return nil }

type fakeGeocoder struct {
	result *geocoder.Result
	calls  int
}

func (f *fakeGeocoder) Geocode(context.Context, string) (*geocoder.Result, error) {
	f.calls++
	return f.result, nil
}

type fakeCascader struct {
	deleted []primitive.ObjectID
}

func (f *fakeCascader) DeleteByGroup(_ context.Context, groupID primitive.ObjectID) error {
	f.deleted = append(f.deleted, groupID)
	return nil
}

func newTestService() (*GroupServiceImpl, *fakeGroupRepo, *fakeGeocoder, *fakeCascader, *fakeCascader) {
	repo := newFakeGroupRepo()
	geo := &fakeGeocoder{result: &geocoder.Result{
		Latitude:         42.35,
		Longitude:        -71.05,
		FormattedAddress: "123 Main St, Boston, MA 02108, US",
		City:             "Boston",
		State:            "MA",
		Zipcode:          "02108",
		Country:          "US",
	}}
	meetups := &fakeCascader{}
	reviews := &fakeCascader{}
	svc := &GroupServiceImpl{
		Repo:     repo,
		Geocoder: geo,
		Meetups:  meetups,
		Reviews:  reviews,
		Config:   &config.Config{FileUploadPath: "/tmp"},
	}
	return svc, repo, geo, meetups, reviews
}

func validGroup() *Group {
	return &Group{
		Name:        "Pine Valley Gamers",
		Description: "Weekly eurogame nights",
		Address:     "123 Main St, Boston MA",
		Focus:       []string{"Eurogames"},
	}
}

func publisher() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: models.RolePublisher}
}

func TestGroupCreateDerivesFields(t *testing.T) {
	svc, _, geo, _, _ := newTestService()
	actor := publisher()
	g := validGroup()

	require.NoError(t, svc.Create(context.Background(), actor, g))

	assert.Equal(t, "pine-valley-gamers", g.Slug)
	assert.Equal(t, DefaultPhoto, g.Photo)
	assert.Equal(t, actor.ID, g.User)
	assert.Empty(t, g.Address, "input address must not be persisted")
	require.NotNil(t, g.Location)
	assert.Equal(t, "Point", g.Location.Type)
	assert.Equal(t, []float64{-71.05, 42.35}, g.Location.Coordinates)
	assert.Equal(t, 1, geo.calls)
}

func TestGroupCreateRequiresAddress(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	g := validGroup()
	g.Address = "  "

	err := svc.Create(context.Background(), publisher(), g)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Please add an address", appErr.Message)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestGroupCreateOnePerPublisher(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	actor := publisher()

	require.NoError(t, svc.Create(context.Background(), actor, validGroup()))

	second := validGroup()
	second.Name = "Second Group"
	err := svc.Create(context.Background(), actor, second)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "has already published a group")
}

func TestGroupCreateAdminUnlimited(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	require.NoError(t, svc.Create(context.Background(), admin, validGroup()))
	second := validGroup()
	second.Name = "Second Group"
	require.NoError(t, svc.Create(context.Background(), admin, second))
}

func TestGroupUpdateReslugsOnRename(t *testing.T) {
	svc, _, geo, _, _ := newTestService()
	actor := publisher()
	g := validGroup()
	require.NoError(t, svc.Create(context.Background(), actor, g))
	geocodesAfterCreate := geo.calls

	name := "Harbor City Tabletop"
	updated, err := svc.Update(context.Background(), actor, g.ID.Hex(), &UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "harbor-city-tabletop", updated.Slug)
	assert.Equal(t, geocodesAfterCreate, geo.calls, "rename alone must not re-geocode")
}

func TestGroupUpdateRegeocodesOnNewAddress(t *testing.T) {
	svc, _, geo, _, _ := newTestService()
	actor := publisher()
	g := validGroup()
	require.NoError(t, svc.Create(context.Background(), actor, g))
	before := geo.calls

	addr := "456 Elm St, Lowell MA"
	_, err := svc.Update(context.Background(), actor, g.ID.Hex(), &UpdateInput{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, before+1, geo.calls)
}

func TestGroupMutationDeniedForNonOwner(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	owner := publisher()
	g := validGroup()
	require.NoError(t, svc.Create(context.Background(), owner, g))

	intruder := publisher()
	_, err := svc.Update(context.Background(), intruder, g.ID.Hex(), &UpdateInput{})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestGroupDeleteCascades(t *testing.T) {
	svc, repo, _, meetups, reviews := newTestService()
	actor := publisher()
	g := validGroup()
	require.NoError(t, svc.Create(context.Background(), actor, g))

	require.NoError(t, svc.Delete(context.Background(), actor, g.ID.Hex()))
	assert.Equal(t, []primitive.ObjectID{g.ID}, repo.deleted)
	assert.Equal(t, []primitive.ObjectID{g.ID}, meetups.deleted)
	assert.Equal(t, []primitive.ObjectID{g.ID}, reviews.deleted)
}

func TestGroupInRadiusConvertsMilesToRadians(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	_, err := svc.InRadius(context.Background(), "02108", "10")
	require.NoError(t, err)
	assert.InDelta(t, 10/earthRadiusMiles, repo.radius, 1e-9)
}

func TestGroupInRadiusRejectsBadDistance(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	for _, distance := range []string{"", "abc", "0", "-5"} {
		_, err := svc.InRadius(context.Background(), "02108", distance)
		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr, "distance %q", distance)
		assert.Equal(t, 400, appErr.StatusCode)
	}
}

func TestGroupGetUnknownIDIs404(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "not-a-hex-id")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}
