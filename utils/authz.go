package utils

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/urbannest/real_estate_platform/backend/models"
)

// CanMutate is the single ownership rule for listing update and delete:
// the owning agent may act on the resource, and admins may act on anything.
func CanMutate(actor *models.User, ownerID primitive.ObjectID) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || actor.Role == models.RoleAdmin
}

// CanCreateListing gates creation by role alone; there is no owner yet.
func CanCreateListing(actor *models.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAgent || actor.Role == models.RoleAdmin
}
