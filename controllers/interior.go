package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/urbannest/real_estate_platform/backend/middleware"
	"github.com/urbannest/real_estate_platform/backend/models"
	"github.com/urbannest/real_estate_platform/backend/storage"
	"github.com/urbannest/real_estate_platform/backend/utils"
)

const interiorCachePrefix = "interiors"

func CreateInterior(redisClient *redis.Client, interiors Collection, store storage.ImageStore) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)
		if !utils.CanCreateListing(user) {
			return utils.NewApiError(http.StatusForbidden, "Only agents or admins can create interior listings")
		}

		if err := r.ParseMultipartForm(50 << 20); err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid form data")
		}
		if tooManyFiles(r, "images") {
			return utils.NewApiError(http.StatusBadRequest, "At most 10 images are allowed")
		}

		title := strings.TrimSpace(r.FormValue("title"))
		description := strings.TrimSpace(r.FormValue("description"))
		category := strings.TrimSpace(r.FormValue("category"))
		mobileNumber := strings.TrimSpace(r.FormValue("mobileNumber"))
		priceStr := strings.TrimSpace(r.FormValue("price"))

		if title == "" || description == "" || priceStr == "" || category == "" || mobileNumber == "" {
			return utils.NewApiError(http.StatusBadRequest, "All fields are required")
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Price must be a number")
		}

		now := time.Now()
		interior := models.Interior{
			ID:           primitive.NewObjectID(),
			Title:        title,
			Description:  description,
			MobileNumber: mobileNumber,
			Price:        price,
			Images:       uploadAll(r, store, "images"),
			Category:     category,
			Agent:        user.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := interiors.InsertOne(r.Context(), interior); err != nil {
			log.Printf("Insert failed: %v", err)
			return err
		}

		go invalidateListCache(redisClient, interiorCachePrefix)

		utils.WriteJSON(w, http.StatusCreated, interior, "Interior listing created successfully")
		return nil
	})
}

func GetAllInteriors(redisClient *redis.Client, interiors Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		cacheKey := listCacheKey(interiorCachePrefix, r.URL.Query())

		if cached, err := redisClient.Get(r.Context(), cacheKey).Result(); err == nil {
			utils.WriteJSON(w, http.StatusOK, json.RawMessage(cached), "Interiors fetched successfully")
			return nil
		} else if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		pipeline := mongo.Pipeline{}
		for _, stage := range agentLookupStages() {
			pipeline = append(pipeline, stage)
		}

		cursor, err := interiors.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching interiors: %v", err)
			return err
		}
		defer cursor.Close(r.Context())

		interiors := []models.InteriorWithAgent{}
		if err := cursor.All(r.Context(), &interiors); err != nil {
			return err
		}

		resultBytes, err := json.Marshal(interiors)
		if err != nil {
			return err
		}
		if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		utils.WriteJSON(w, http.StatusOK, json.RawMessage(resultBytes), "Interiors fetched successfully")
		return nil
	})
}

func GetInteriorByID(interiors Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		objID, apiErr := pathObjectID(r, "id")
		if apiErr != nil {
			return apiErr
		}

		pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": objID}}}}
		for _, stage := range agentLookupStages() {
			pipeline = append(pipeline, stage)
		}

		cursor, err := interiors.Aggregate(r.Context(), pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(r.Context())

		var interiors []models.InteriorWithAgent
		if err := cursor.All(r.Context(), &interiors); err != nil {
			return err
		}
		if len(interiors) == 0 {
			return utils.NewApiError(http.StatusNotFound, "Interior listing not found")
		}

		utils.WriteJSON(w, http.StatusOK, interiors[0], "Interior fetched successfully")
		return nil
	})
}

func UpdateInterior(redisClient *redis.Client, interiors Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)
		objID, apiErr := pathObjectID(r, "id")
		if apiErr != nil {
			return apiErr
		}

		var interior models.Interior
		err := interiors.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&interior)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return utils.NewApiError(http.StatusNotFound, "Interior listing not found")
			}
			return err
		}

		if !utils.CanMutate(user, interior.Agent) {
			return utils.NewApiError(http.StatusForbidden, "You are not authorized to update this interior listing")
		}

		var in interiorUpdateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid update data")
		}

		applyInteriorUpdate(&interior, in)
		interior.UpdatedAt = time.Now()

		if _, err := interiors.ReplaceOne(r.Context(), bson.M{"_id": objID}, interior); err != nil {
			log.Printf("Update failed for interior %s: %v", objID.Hex(), err)
			return err
		}

		go invalidateListCache(redisClient, interiorCachePrefix)

		utils.WriteJSON(w, http.StatusOK, interior, "Interior listing updated successfully")
		return nil
	})
}

func DeleteInterior(redisClient *redis.Client, interiors Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)
		objID, apiErr := pathObjectID(r, "id")
		if apiErr != nil {
			return apiErr
		}

		var interior models.Interior
		err := interiors.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&interior)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return utils.NewApiError(http.StatusNotFound, "Interior listing not found")
			}
			return err
		}

		if !utils.CanMutate(user, interior.Agent) {
			return utils.NewApiError(http.StatusForbidden, "You are not authorized to delete this interior listing")
		}

		if _, err := interiors.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Delete failed for interior %s: %v", objID.Hex(), err)
			return err
		}

		go invalidateListCache(redisClient, interiorCachePrefix)

		utils.WriteJSON(w, http.StatusOK, nil, "Interior listing deleted successfully")
		return nil
	})
}

func GetAgentInteriors(interiors Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := interiors.Find(r.Context(), bson.M{"agent": user.ID}, findOptions)
		if err != nil {
			return err
		}
		defer cursor.Close(r.Context())

		interiors := []models.Interior{}
		if err := cursor.All(r.Context(), &interiors); err != nil {
			return err
		}

		utils.WriteJSON(w, http.StatusOK, interiors, "Agent interiors fetched successfully")
		return nil
	})
}

type interiorUpdateInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	MobileNumber string  `json:"mobileNumber"`
}

// applyInteriorUpdate follows the same keep-on-zero rule as properties.
func applyInteriorUpdate(i *models.Interior, in interiorUpdateInput) {
	i.Title = coalesce(in.Title, i.Title)
	i.Description = coalesce(in.Description, i.Description)
	i.Category = coalesce(in.Category, i.Category)
	i.MobileNumber = coalesce(in.MobileNumber, i.MobileNumber)
	if in.Price != 0 {
		i.Price = in.Price
	}
}
