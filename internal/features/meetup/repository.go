package meetup

import (
	"context"
	"math"
	"time"

	"hobbyhub/internal/database"
	"hobbyhub/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MeetupRepository interface {
	Create(ctx context.Context, meetup *Meetup) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Meetup, error)
	Update(ctx context.Context, meetup *Meetup) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error
	List(ctx context.Context, params *query.Params) (*query.Result, error)
	RecalcAverageCost(ctx context.Context, groupID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type MeetupRepositoryImpl struct {
	collection *mongo.Collection
	groups     *mongo.Collection
}

func NewMeetupRepository(db *database.MongodbDB) MeetupRepository {
	return &MeetupRepositoryImpl{
		collection: db.DB.Collection("meetups"),
		groups:     db.DB.Collection("groups"),
	}
}

func (r *MeetupRepositoryImpl) Create(ctx context.Context, meetup *Meetup) error {
	meetup.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, meetup)
	if err != nil {
		return err
	}

	meetup.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MeetupRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Meetup, error) {
	var meetup Meetup
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meetup); err != nil {
		return nil, err
	}
	return &meetup, nil
}

func (r *MeetupRepositoryImpl) Update(ctx context.Context, meetup *Meetup) error {
	update := bson.M{
		"$set": bson.M{
			"title":         meetup.Title,
			"description":   meetup.Description,
			"hours":         meetup.Hours,
			"cost":          meetup.Cost,
			"minExperience": meetup.MinExperience,
			"newMembers":    meetup.NewMembers,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": meetup.ID}, update)
	return err
}

func (r *MeetupRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MeetupRepositoryImpl) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"group": groupID})
	return err
}

func (r *MeetupRepositoryImpl) List(ctx context.Context, params *query.Params) (*query.Result, error) {
	populate := &query.Populate{
		Path:   "group",
		Coll:   r.groups,
		Select: []string{"name", "description"},
	}
	return query.Run(ctx, r.collection, params, populate)
}

// RecalcAverageCost re-derives the parent group's averageCost from its
// current meetups: the ceiling of the mean cost, removed when no meetups
// remain. Tolerates eventual consistency across concurrent meetup writes.
func (r *MeetupRepositoryImpl) RecalcAverageCost(ctx context.Context, groupID primitive.ObjectID) error {
	opts := options.Find().SetProjection(bson.D{{Key: "cost", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"group": groupID}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Cost float64 `bson:"cost"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}

	costs := make([]float64, len(docs))
	for i, doc := range docs {
		costs[i] = doc.Cost
	}

	avg := averageCost(costs)
	if avg == nil {
		_, err = r.groups.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{"$unset": bson.M{"averageCost": ""}})
		return err
	}

	_, err = r.groups.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{"$set": bson.M{"averageCost": *avg}})
	return err
}

// averageCost is the ceiling of the mean, or nil for an empty set.
func averageCost(costs []float64) *float64 {
	if len(costs) == 0 {
		return nil
	}
	sum := 0.0
	for _, cost := range costs {
		sum += cost
	}
	avg := math.Ceil(sum / float64(len(costs)))
	return &avg
}

func (r *MeetupRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "group", Value: 1}},
	})
	return err
}
