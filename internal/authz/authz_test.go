package authz

import (
	"testing"

	"hobbyhub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanMutate(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name  string
		actor *models.User
		want  Decision
	}{
		{
			name: "Owner With Allowed Role",
			actor: &models.User{ID: owner, Role: models.RolePublisher},
			want: Allowed,
		},
		{
			name: "Admin Bypasses Ownership",
			actor: &models.User{ID: other, Role: models.RoleAdmin},
			want: Allowed,
		},
		{
			name: "Role Not In Allow List",
			actor: &models.User{ID: owner, Role: models.RoleUser},
			want: DeniedRole,
		},
		{
			name: "Right Role Wrong Owner",
			actor: &models.User{ID: other, Role: models.RolePublisher},
			want: DeniedOwnership,
		},
		{
			name: "Nil Actor",
			want: DeniedRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanMutate(tt.actor, owner, models.RolePublisher)
			if got != tt.want {
				t.Errorf("CanMutate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanMutateRoleDeniedBeforeOwnership(t *testing.T) {
	// A wrong role on a non-owned resource reads as a role problem, not an
	// ownership one.
	actor := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	if got := CanMutate(actor, primitive.NewObjectID(), models.RolePublisher); got != DeniedRole {
		t.Errorf("CanMutate() = %v, want DeniedRole", got)
	}
}
