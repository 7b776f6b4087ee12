package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User is the account document. The password hash and the password-reset
// fields never leave the server: they carry `json:"-"`.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name                string             `bson:"name" json:"name" validate:"required"`
	Email               string             `bson:"email" json:"email" validate:"required,email"`
	Role                string             `bson:"role" json:"role" validate:"omitempty,oneof=user publisher admin"`
	Password            string             `bson:"password" json:"-" validate:"required,min=8"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}
