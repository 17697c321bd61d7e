package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/urbannest/real_estate_platform/backend/middleware"
	"github.com/urbannest/real_estate_platform/backend/models"
	"github.com/urbannest/real_estate_platform/backend/utils"
)

type addWishlistInput struct {
	PropertyID string `json:"propertyId"`
}

// AddToWishlist is idempotent: a pair that already exists answers 200 with
// the existing entry. The unique (user, property) index backs this up, so a
// concurrent duplicate insert also lands on the 200 path.
func AddToWishlist(wishlists Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)

		var in addWishlistInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid request data")
		}
		if in.PropertyID == "" {
			return utils.NewApiError(http.StatusBadRequest, "Property ID is required")
		}
		propertyID, err := primitive.ObjectIDFromHex(in.PropertyID)
		if err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid property ID format")
		}

		pair := bson.M{"user": user.ID, "property": propertyID}

		var existing models.WishlistItem
		err = wishlists.FindOne(r.Context(), pair).Decode(&existing)
		if err == nil {
			utils.WriteJSON(w, http.StatusOK, existing, "Property already in wishlist")
			return nil
		}
		if err != mongo.ErrNoDocuments {
			return err
		}

		now := time.Now()
		item := models.WishlistItem{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Property:  propertyID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := wishlists.InsertOne(r.Context(), item); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Lost the race to a concurrent add; return the winner.
				if err := wishlists.FindOne(r.Context(), pair).Decode(&existing); err != nil {
					return err
				}
				utils.WriteJSON(w, http.StatusOK, existing, "Property already in wishlist")
				return nil
			}
			return err
		}

		utils.WriteJSON(w, http.StatusCreated, item, "Property added to wishlist")
		return nil
	})
}

func RemoveFromWishlist(wishlists Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)

		propertyID, err := primitive.ObjectIDFromHex(mux.Vars(r)["propertyId"])
		if err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid property ID format")
		}

		res, err := wishlists.DeleteOne(r.Context(), bson.M{
			"user":     user.ID,
			"property": propertyID,
		})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return utils.NewApiError(http.StatusNotFound, "Property not found in wishlist")
		}

		utils.WriteJSON(w, http.StatusOK, nil, "Property removed from wishlist")
		return nil
	})
}

func GetUserWishlist(wishlists Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"user": user.ID}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "properties",
				"localField":   "property",
				"foreignField": "_id",
				"as":           "propertyDetails",
			}}},
			{{Key: "$unwind", Value: bson.M{"path": "$propertyDetails", "preserveNullAndEmptyArrays": true}}},
		}

		cursor, err := wishlists.Aggregate(r.Context(), pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(r.Context())

		entries := []models.WishlistEntry{}
		if err := cursor.All(r.Context(), &entries); err != nil {
			return err
		}

		utils.WriteJSON(w, http.StatusOK, entries, "Wishlist fetched successfully")
		return nil
	})
}
