package group

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

type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*Group, error)
	Owner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error)
	Update(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *query.Params) (*query.Result, error)
	FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]Group, error)
	SetPhoto(ctx context.Context, id primitive.ObjectID, filename string) error
	EnsureIndexes(ctx context.Context) error
}

type GroupRepositoryImpl struct {
	collection *mongo.Collection
}

func NewGroupRepository(db *database.MongodbDB) GroupRepository {
	return &GroupRepositoryImpl{
		collection: db.DB.Collection("groups"),
	}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *Group) error {
	group.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		return err
	}

	group.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *GroupRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	var group Group
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) FindByUser(ctx context.Context, userID primitive.ObjectID) (*Group, error) {
	var group Group
	if err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) Owner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	var doc struct {
		User primitive.ObjectID `bson:"user"`
	}
	opts := options.FindOne().SetProjection(bson.D{{Key: "user", Value: 1}})
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return primitive.NilObjectID, err
	}
	return doc.User, nil
}

func (r *GroupRepositoryImpl) Update(ctx context.Context, group *Group) error {
	// CreatedAt and the derived averages are not replaced here: averages are
	// maintained by the meetup/review repositories.
	update := bson.M{
		"$set": bson.M{
			"name":        group.Name,
			"slug":        group.Slug,
			"description": group.Description,
			"website":     group.Website,
			"phone":       group.Phone,
			"email":       group.Email,
			"location":    group.Location,
			"focus":       group.Focus,
			"teaching":    group.Teaching,
			"ownLibrary":  group.OwnLibrary,
			"purchaseMin": group.PurchaseMin,
			"acceptNew":   group.AcceptNew,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": group.ID}, update)
	return err
}

func (r *GroupRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *GroupRepositoryImpl) List(ctx context.Context, params *query.Params) (*query.Result, error) {
	return query.Run(ctx, r.collection, params, nil)
}

// FindWithinRadius returns groups whose location lies inside the spherical
// cap centered on (lat, lng). radius is a fraction of Earth's radius.
func (r *GroupRepositoryImpl) FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]Group, error) {
	filter := bson.M{
		"location.coordinates": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GroupRepositoryImpl) SetPhoto(ctx context.Context, id primitive.ObjectID, filename string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"photo": filename}})
	return err
}

func (r *GroupRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2dsphere"}},
		},
	})
	return err
}
