package review

import (
	"context"
	"testing"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/common/models"
	"hobbyhub/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeReviewRepo struct {
	byID    map[primitive.ObjectID]*Review
	recalcs []primitive.ObjectID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byID: map[primitive.ObjectID]*Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, r *Review) error {
	r.ID = primitive.NewObjectID()
	f.byID[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id primitive.ObjectID) (*Review, error) {
	if r, ok := f.byID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeReviewRepo) Update(_ context.Context, r *Review) error {
	f.byID[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeReviewRepo) DeleteByGroup(_ context.Context, groupID primitive.ObjectID) error {
	for id, r := range f.byID {
		if r.Group == groupID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeReviewRepo) List(context.Context, *query.Params) (*query.Result, error) {
	return &query.Result{}, nil
}

func (f *fakeReviewRepo) RecalcAverageRating(_ context.Context, groupID primitive.ObjectID) error {
	f.recalcs = append(f.recalcs, groupID)
	return nil
}

func (f *fakeReviewRepo) EnsureIndexes(context.Context) error { return nil }

type fakeGroupSource struct {
	owners map[primitive.ObjectID]primitive.ObjectID
}

func (f *fakeGroupSource) Owner(_ context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	if owner, ok := f.owners[id]; ok {
		return owner, nil
	}
	return primitive.NilObjectID, mongo.ErrNoDocuments
}

func validReview() *Review {
	return &Review{
		Title:  "Great group",
		Text:   "Friendly crowd, well organized evenings",
		Rating: 8,
	}
}

func member() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
}

func setup() (*ReviewServiceImpl, *fakeReviewRepo, primitive.ObjectID) {
	repo := newFakeReviewRepo()
	groupID := primitive.NewObjectID()
	groups := &fakeGroupSource{owners: map[primitive.ObjectID]primitive.ObjectID{
		groupID: primitive.NewObjectID(),
	}}
	return &ReviewServiceImpl{Repo: repo, Groups: groups}, repo, groupID
}

func TestReviewCreate(t *testing.T) {
	svc, repo, groupID := setup()
	actor := member()
	r := validReview()

	require.NoError(t, svc.Create(context.Background(), actor, groupID.Hex(), r))
	assert.Equal(t, groupID, r.Group)
	assert.Equal(t, actor.ID, r.User)
	assert.Equal(t, []primitive.ObjectID{groupID}, repo.recalcs)
}

func TestReviewCreateUnknownGroup(t *testing.T) {
	svc, _, _ := setup()

	err := svc.Create(context.Background(), member(), primitive.NewObjectID().Hex(), validReview())
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestReviewCreateRejectsBadRating(t *testing.T) {
	svc, _, groupID := setup()
	r := validReview()
	r.Rating = 11

	err := svc.Create(context.Background(), member(), groupID.Hex(), r)
	require.Error(t, err)
}

func TestReviewUpdateOnlyAuthor(t *testing.T) {
	svc, _, groupID := setup()
	author := member()
	r := validReview()
	require.NoError(t, svc.Create(context.Background(), author, groupID.Hex(), r))

	title := "Changed my mind"
	_, err := svc.Update(context.Background(), member(), r.ID.Hex(), &UpdateInput{Title: &title})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)

	updated, err := svc.Update(context.Background(), author, r.ID.Hex(), &UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Changed my mind", updated.Title)
}

func TestReviewUpdateRecalcsOnlyWhenRatingChanges(t *testing.T) {
	svc, repo, groupID := setup()
	author := member()
	r := validReview()
	require.NoError(t, svc.Create(context.Background(), author, groupID.Hex(), r))
	after := len(repo.recalcs)

	text := "Still friendly, new venue"
	_, err := svc.Update(context.Background(), author, r.ID.Hex(), &UpdateInput{Text: &text})
	require.NoError(t, err)
	assert.Len(t, repo.recalcs, after)

	rating := 9
	_, err = svc.Update(context.Background(), author, r.ID.Hex(), &UpdateInput{Rating: &rating})
	require.NoError(t, err)
	assert.Len(t, repo.recalcs, after+1)
}

func TestReviewDeleteAdminBypassesOwnership(t *testing.T) {
	svc, repo, groupID := setup()
	author := member()
	r := validReview()
	require.NoError(t, svc.Create(context.Background(), author, groupID.Hex(), r))

	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	require.NoError(t, svc.Delete(context.Background(), admin, r.ID.Hex()))
	assert.Equal(t, []primitive.ObjectID{groupID, groupID}, repo.recalcs)
}

func TestAverageRating(t *testing.T) {
	assert.Nil(t, averageRating(nil))

	got := averageRating([]float64{8, 9})
	require.NotNil(t, got)
	assert.Equal(t, 8.5, *got)

	got = averageRating([]float64{7})
	require.NotNil(t, got)
	assert.Equal(t, 7.0, *got)
}
