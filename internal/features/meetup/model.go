package meetup

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meetup is a recurring event belonging to exactly one Group. Cost is a
// pointer so "missing" and "free" stay distinguishable for validation.
type Meetup struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title" validate:"required,max=50"`
	Description   string             `bson:"description" json:"description" validate:"required,max=500"`
	Hours         string             `bson:"hours" json:"hours" validate:"required"`
	Cost          *float64           `bson:"cost" json:"cost" validate:"required,gte=0"`
	MinExperience string             `bson:"minExperience" json:"minExperience" validate:"required,oneof=beginner intermediate advanced"`
	NewMembers    *bool              `bson:"newMembers" json:"newMembers"`
	Group         primitive.ObjectID `bson:"group" json:"group"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpdateInput carries a partial meetup update; nil fields are untouched.
type UpdateInput struct {
	Title         *string  `json:"title" validate:"omitempty,max=50"`
	Description   *string  `json:"description" validate:"omitempty,max=500"`
	Hours         *string  `json:"hours"`
	Cost          *float64 `json:"cost" validate:"omitempty,gte=0"`
	MinExperience *string  `json:"minExperience" validate:"omitempty,oneof=beginner intermediate advanced"`
	NewMembers    *bool    `json:"newMembers"`
}
