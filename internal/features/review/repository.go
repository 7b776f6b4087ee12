package review

import (
	"context"
	"time"

	"hobbyhub/internal/database"
	"hobbyhub/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error
	List(ctx context.Context, params *query.Params) (*query.Result, error)
	RecalcAverageRating(ctx context.Context, groupID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type ReviewRepositoryImpl struct {
	collection *mongo.Collection
	groups     *mongo.Collection
}

func NewReviewRepository(db *database.MongodbDB) ReviewRepository {
	return &ReviewRepositoryImpl{
		collection: db.DB.Collection("reviews"),
		groups:     db.DB.Collection("groups"),
	}
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *Review) error {
	review.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return err
	}

	review.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ReviewRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	var review Review
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) Update(ctx context.Context, review *Review) error {
	update := bson.M{
		"$set": bson.M{
			"title":  review.Title,
			"text":   review.Text,
			"rating": review.Rating,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": review.ID}, update)
	return err
}

func (r *ReviewRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ReviewRepositoryImpl) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"group": groupID})
	return err
}

func (r *ReviewRepositoryImpl) List(ctx context.Context, params *query.Params) (*query.Result, error) {
	populate := &query.Populate{
		Path:   "group",
		Coll:   r.groups,
		Select: []string{"name", "description"},
	}
	return query.Run(ctx, r.collection, params, populate)
}

// RecalcAverageRating re-derives the parent group's averageRating as the
// mean of its review ratings, removed when no reviews remain.
func (r *ReviewRepositoryImpl) RecalcAverageRating(ctx context.Context, groupID primitive.ObjectID) error {
	opts := options.Find().SetProjection(bson.D{{Key: "rating", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"group": groupID}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Rating float64 `bson:"rating"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}

	ratings := make([]float64, len(docs))
	for i, doc := range docs {
		ratings[i] = doc.Rating
	}

	avg := averageRating(ratings)
	if avg == nil {
		_, err = r.groups.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{"$unset": bson.M{"averageRating": ""}})
		return err
	}

	_, err = r.groups.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{"$set": bson.M{"averageRating": *avg}})
	return err
}

func averageRating(ratings []float64) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := 0.0
	for _, rating := range ratings {
		sum += rating
	}
	avg := sum / float64(len(ratings))
	return &avg
}

func (r *ReviewRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "group", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
