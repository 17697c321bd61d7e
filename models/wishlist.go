package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishlistItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WishlistEntry is a wishlist item with its property joined in for listing.
type WishlistEntry struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Property  *Property          `bson:"propertyDetails,omitempty" json:"property,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
