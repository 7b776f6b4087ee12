package group

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPhoto is the placeholder filename assigned until an owner uploads
// a real photo. It is never deleted from disk.
const DefaultPhoto = "no-photo.jpg"

// Location is a GeoJSON point plus the normalized address parts returned by
// the geocoding service. It is always derived, never taken from the client.
type Location struct {
	Type             string    `bson:"type,omitempty" json:"type,omitempty"`
	Coordinates      []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Group is a hobby-group listing. Address is input-only: it feeds the
// geocoder and is replaced by Location before the document is persisted.
// AverageCost and AverageRating are derived from the group's meetups and
// reviews respectively.
type Group struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name" validate:"required,max=50"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description" validate:"required,max=500"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address       string             `bson:"-" json:"address,omitempty"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Focus         []string           `bson:"focus" json:"focus" validate:"required,min=1,dive,oneof='Eurogames' 'Ameritrash' 'Train Games' 'Party Games' 'Miniature Games' 'RPGs' 'Campaign Games' 'Other'"`
	AverageRating *float64           `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	AverageCost   *float64           `bson:"averageCost,omitempty" json:"averageCost,omitempty"`
	Photo         string             `bson:"photo" json:"photo"`
	Teaching      bool               `bson:"teaching" json:"teaching"`
	OwnLibrary    bool               `bson:"ownLibrary" json:"ownLibrary"`
	PurchaseMin   bool               `bson:"purchaseMin" json:"purchaseMin"`
	AcceptNew     bool               `bson:"acceptNew" json:"acceptNew"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpdateInput carries a partial update. Nil fields are left untouched; a new
// Address triggers re-geocoding and a new Name re-derives the slug.
type UpdateInput struct {
	Name        *string   `json:"name" validate:"omitempty,max=50"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Website     *string   `json:"website" validate:"omitempty,url"`
	Phone       *string   `json:"phone" validate:"omitempty,max=20"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Address     *string   `json:"address"`
	Focus       *[]string `json:"focus" validate:"omitempty,min=1,dive,oneof='Eurogames' 'Ameritrash' 'Train Games' 'Party Games' 'Miniature Games' 'RPGs' 'Campaign Games' 'Other'"`
	Teaching    *bool     `json:"teaching"`
	OwnLibrary  *bool     `json:"ownLibrary"`
	PurchaseMin *bool     `json:"purchaseMin"`
	AcceptNew   *bool     `json:"acceptNew"`
}
