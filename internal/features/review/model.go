package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a rating and comment left on a Group by a User. A user may
// review a given group once; the repository enforces that with a unique
// compound index.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title" validate:"required,max=100"`
	Text      string             `bson:"text" json:"text" validate:"required,max=1000"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=10"`
	Group     primitive.ObjectID `bson:"group" json:"group"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type UpdateInput struct {
	Title  *string `json:"title" validate:"omitempty,max=100"`
	Text   *string `json:"text" validate:"omitempty,max=1000"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=10"`
}
