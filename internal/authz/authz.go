// Package authz holds the ownership/role predicate evaluated by services
// before any mutation of an existing resource.
package authz

import (
	"hobbyhub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Decision int

const (
	Allowed Decision = iota
	DeniedRole
	DeniedOwnership
)

// CanMutate decides whether actor may mutate a resource owned by owner.
// Admins may mutate anything; everyone else must hold one of the listed
// roles and own the resource.
func CanMutate(actor *models.User, owner primitive.ObjectID, roles ...string) Decision {
	if actor == nil {
		return DeniedRole
	}
	if actor.Role == models.RoleAdmin {
		return Allowed
	}
	allowed := false
	for _, role := range roles {
		if actor.Role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return DeniedRole
	}
	if actor.ID != owner {
		return DeniedOwnership
	}
	return Allowed
}
