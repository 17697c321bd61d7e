package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
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

const propertyCachePrefix = "properties"

// agentLookupStages joins the owning agent into listing results, stripped of
// credential fields.
func agentLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "agent",
			"foreignField": "_id",
			"as":           "agentInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$agentInfo", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{"agentInfo.password": 0, "agentInfo.refreshToken": 0}}},
	}
}

func CreateProperty(redisClient *redis.Client, properties Collection, store storage.ImageStore) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)
		if !utils.CanCreateListing(user) {
			return utils.NewApiError(http.StatusForbidden, "Only agents or admins can create properties")
		}

		if err := r.ParseMultipartForm(50 << 20); err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid form data")
		}
		if tooManyFiles(r, "photos") {
			return utils.NewApiError(http.StatusBadRequest, "At most 10 photos are allowed")
		}

		title := strings.TrimSpace(r.FormValue("title"))
		description := strings.TrimSpace(r.FormValue("description"))
		location := strings.TrimSpace(r.FormValue("location"))
		propertyType := strings.TrimSpace(r.FormValue("propertyType"))
		mobileNumber := strings.TrimSpace(r.FormValue("mobileNumber"))
		priceStr := strings.TrimSpace(r.FormValue("price"))

		if title == "" || description == "" || priceStr == "" || location == "" || propertyType == "" || mobileNumber == "" {
			return utils.NewApiError(http.StatusBadRequest, "All fields are required")
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Price must be a number")
		}
		if !models.ValidPropertyType(propertyType) {
			return utils.NewApiError(http.StatusBadRequest, "Invalid property type")
		}
		status := r.FormValue("status")
		if status == "" {
			status = models.StatusAvailable
		}
		if !models.ValidStatus(status) {
			return utils.NewApiError(http.StatusBadRequest, "Invalid status")
		}

		now := time.Now()
		property := models.Property{
			ID:           primitive.NewObjectID(),
			Title:        title,
			Description:  description,
			Price:        price,
			Location:     location,
			MobileNumber: mobileNumber,
			PropertyType: propertyType,
			Status:       status,
			Photos:       uploadAll(r, store, "photos"),
			Features:     models.StringList(r.Form["features"]),
			Bedrooms:     formInt(r, "bedrooms"),
			Bathrooms:    formInt(r, "bathrooms"),
			Area:         formFloat(r, "area"),
			Agent:        user.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if property.Features == nil {
			property.Features = models.StringList{}
		}

		if _, err := properties.InsertOne(r.Context(), property); err != nil {
			log.Printf("Insert failed: %v", err)
			return err
		}

		go invalidateListCache(redisClient, propertyCachePrefix)

		utils.WriteJSON(w, http.StatusCreated, property, "Property created successfully")
		return nil
	})
}

func GetAllProperties(redisClient *redis.Client, properties Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		cacheKey := listCacheKey(propertyCachePrefix, r.URL.Query())

		if cached, err := redisClient.Get(r.Context(), cacheKey).Result(); err == nil {
			utils.WriteJSON(w, http.StatusOK, json.RawMessage(cached), "Properties fetched successfully")
			return nil
		} else if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		pipeline := mongo.Pipeline{}
		for _, stage := range agentLookupStages() {
			pipeline = append(pipeline, stage)
		}

		cursor, err := properties.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching properties: %v", err)
			return err
		}
		defer cursor.Close(r.Context())

		properties := []models.PropertyWithAgent{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			return err
		}

		resultBytes, err := json.Marshal(properties)
		if err != nil {
			return err
		}
		if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		utils.WriteJSON(w, http.StatusOK, json.RawMessage(resultBytes), "Properties fetched successfully")
		return nil
	})
}

func GetPropertyByID(properties Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		objID, apiErr := pathObjectID(r, "id")
		if apiErr != nil {
			return apiErr
		}

		pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": objID}}}}
		for _, stage := range agentLookupStages() {
			pipeline = append(pipeline, stage)
		}

		cursor, err := properties.Aggregate(r.Context(), pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(r.Context())

		var properties []models.PropertyWithAgent
		if err := cursor.All(r.Context(), &properties); err != nil {
			return err
		}
		if len(properties) == 0 {
			return utils.NewApiError(http.StatusNotFound, "Property not found")
		}

		utils.WriteJSON(w, http.StatusOK, properties[0], "Property fetched successfully")
		return nil
	})
}

func UpdateProperty(redisClient *redis.Client, properties Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)
		objID, apiErr := pathObjectID(r, "id")
		if apiErr != nil {
			return apiErr
		}

		var property models.Property
		err := properties.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return utils.NewApiError(http.StatusNotFound, "Property not found")
			}
			return err
		}

		if !utils.CanMutate(user, property.Agent) {
			return utils.NewApiError(http.StatusForbidden, "You are not authorized to update this property")
		}

		var in propertyUpdateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return utils.NewApiError(http.StatusBadRequest, "Invalid update data")
		}
		if in.PropertyType != "" && !models.ValidPropertyType(in.PropertyType) {
			return utils.NewApiError(http.StatusBadRequest, "Invalid property type")
		}
		if in.Status != "" && !models.ValidStatus(in.Status) {
			return utils.NewApiError(http.StatusBadRequest, "Invalid status")
		}

		applyPropertyUpdate(&property, in)
		property.UpdatedAt = time.Now()

		if _, err := properties.ReplaceOne(r.Context(), bson.M{"_id": objID}, property); err != nil {
			log.Printf("Update failed for property %s: %v", objID.Hex(), err)
			return err
		}

		go invalidateListCache(redisClient, propertyCachePrefix)

		utils.WriteJSON(w, http.StatusOK, property, "Property updated successfully")
		return nil
	})
}

func DeleteProperty(redisClient *redis.Client, properties Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)
		objID, apiErr := pathObjectID(r, "id")
		if apiErr != nil {
			return apiErr
		}

		var property models.Property
		err := properties.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return utils.NewApiError(http.StatusNotFound, "Property not found")
			}
			return err
		}

		if !utils.CanMutate(user, property.Agent) {
			return utils.NewApiError(http.StatusForbidden, "You are not authorized to delete this property")
		}

		if _, err := properties.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Delete failed for property %s: %v", objID.Hex(), err)
			return err
		}

		go invalidateListCache(redisClient, propertyCachePrefix)

		utils.WriteJSON(w, http.StatusOK, nil, "Property deleted successfully")
		return nil
	})
}

func GetAgentProperties(properties Collection) http.HandlerFunc {
	return utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		user := middleware.CurrentUser(r)

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := properties.Find(r.Context(), bson.M{"agent": user.ID}, findOptions)
		if err != nil {
			return err
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			return err
		}

		utils.WriteJSON(w, http.StatusOK, properties, "Agent properties fetched successfully")
		return nil
	})
}

type propertyUpdateInput struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Price        float64            `json:"price"`
	Location     string             `json:"location"`
	MobileNumber string             `json:"mobileNumber"`
	PropertyType string             `json:"propertyType"`
	Status       string             `json:"status"`
	Bedrooms     int                `json:"bedrooms"`
	Bathrooms    int                `json:"bathrooms"`
	Area         float64            `json:"area"`
	Features     *models.StringList `json:"features"`
}

// applyPropertyUpdate keeps the stored value for any zero-valued field, so a
// field cannot be cleared through PATCH. Features, when present, replace the
// stored list wholesale. The agent reference is never touched.
func applyPropertyUpdate(p *models.Property, in propertyUpdateInput) {
	p.Title = coalesce(in.Title, p.Title)
	p.Description = coalesce(in.Description, p.Description)
	p.Location = coalesce(in.Location, p.Location)
	p.MobileNumber = coalesce(in.MobileNumber, p.MobileNumber)
	p.PropertyType = coalesce(in.PropertyType, p.PropertyType)
	p.Status = coalesce(in.Status, p.Status)
	if in.Price != 0 {
		p.Price = in.Price
	}
	if in.Bedrooms != 0 {
		p.Bedrooms = in.Bedrooms
	}
	if in.Bathrooms != 0 {
		p.Bathrooms = in.Bathrooms
	}
	if in.Area != 0 {
		p.Area = in.Area
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
}

func coalesce(incoming, existing string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}

func pathObjectID(r *http.Request, name string) (primitive.ObjectID, *utils.ApiError) {
	hex := mux.Vars(r)[name]
	objID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, utils.NewApiError(http.StatusBadRequest, "Invalid id")
	}
	return objID, nil
}

func formInt(r *http.Request, field string) int {
	n, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0
	}
	return n
}

func formFloat(r *http.Request, field string) float64 {
	f, err := strconv.ParseFloat(r.FormValue(field), 64)
	if err != nil {
		return 0
	}
	return f
}
