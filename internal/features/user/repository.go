package user

import (
	"context"
	"time"

	"hobbyhub/internal/common/models"
	"hobbyhub/internal/database"
	"hobbyhub/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expire time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *query.Params) (*query.Result, error)
	EnsureIndexes(ctx context.Context) error
}

type UserRepositoryImpl struct {
	collection *mongo.Collection
}

func NewUserRepository(db *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		collection: db.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetToken matches the stored digest and requires the expiry to still
// be in the future.
func (r *UserRepositoryImpl) FindByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	filter := bson.M{
		"resetPasswordToken":  digest,
		"resetPasswordExpire": bson.M{"$gt": now},
	}

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	update := bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *UserRepositoryImpl) SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expire time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"resetPasswordToken":  digest,
			"resetPasswordExpire": expire,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *UserRepositoryImpl) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *UserRepositoryImpl) List(ctx context.Context, params *query.Params) (*query.Result, error) {
	result, err := query.Run(ctx, r.collection, params, nil)
	if err != nil {
		return nil, err
	}
	// password and reset fields never leave the server, even when selected
	for _, doc := range result.Data {
		delete(doc, "password")
		delete(doc, "resetPasswordToken")
		delete(doc, "resetPasswordExpire")
	}
	return result, nil
}

func (r *UserRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
