package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/urbannest/real_estate_platform/backend/models"
)

func TestCanMutate(t *testing.T) {
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"owner may mutate", &models.User{ID: ownerID, Role: models.RoleAgent}, true},
		{"admin may mutate anything", &models.User{ID: otherID, Role: models.RoleAdmin}, true},
		{"other agent may not", &models.User{ID: otherID, Role: models.RoleAgent}, false},
		{"buyer may not", &models.User{ID: otherID, Role: models.RoleBuyer}, false},
		{"nil actor may not", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.actor, ownerID))
		})
	}
}

func TestCanCreateListing(t *testing.T) {
	assert.True(t, CanCreateListing(&models.User{Role: models.RoleAgent}))
	assert.True(t, CanCreateListing(&models.User{Role: models.RoleAdmin}))
	assert.False(t, CanCreateListing(&models.User{Role: models.RoleBuyer}))
	assert.False(t, CanCreateListing(nil))
}
