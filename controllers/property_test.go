package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/urbannest/real_estate_platform/backend/middleware"
	"github.com/urbannest/real_estate_platform/backend/models"
)

func sampleProperty() models.Property {
	return models.Property{
		ID:           primitive.NewObjectID(),
		Title:        "Seaside flat",
		Description:  "Two rooms by the water",
		Price:        250000,
		Location:     "Brighton",
		MobileNumber: "555-0101",
		PropertyType: models.PropertyTypeApartment,
		Status:       models.StatusAvailable,
		Features:     models.StringList{"balcony"},
		Bedrooms:     2,
		Bathrooms:    1,
		Area:         75,
		Agent:        primitive.NewObjectID(),
	}
}

func TestApplyPropertyUpdateKeepsValuesForZeroFields(t *testing.T) {
	p := sampleProperty()
	before := p

	applyPropertyUpdate(&p, propertyUpdateInput{
		Title:    "",
		Price:    0,
		Bedrooms: 0,
	})

	assert.Equal(t, before.Title, p.Title)
	assert.Equal(t, before.Price, p.Price)
	assert.Equal(t, before.Bedrooms, p.Bedrooms)
	assert.Equal(t, before.Features, p.Features)
	assert.Equal(t, before.Agent, p.Agent)
}

func TestApplyPropertyUpdateSetsNonZeroFields(t *testing.T) {
	p := sampleProperty()
	agent := p.Agent

	applyPropertyUpdate(&p, propertyUpdateInput{
		Title:  "Renovated seaside flat",
		Price:  275000,
		Status: models.StatusSold,
		Area:   80,
	})

	assert.Equal(t, "Renovated seaside flat", p.Title)
	assert.Equal(t, float64(275000), p.Price)
	assert.Equal(t, models.StatusSold, p.Status)
	assert.Equal(t, float64(80), p.Area)
	// untouched fields survive
	assert.Equal(t, "Brighton", p.Location)
	assert.Equal(t, agent, p.Agent)
}

func TestApplyPropertyUpdateReplacesFeaturesWhenPresent(t *testing.T) {
	p := sampleProperty()

	features := models.StringList{"garage", "garden"}
	applyPropertyUpdate(&p, propertyUpdateInput{Features: &features})
	assert.Equal(t, models.StringList{"garage", "garden"}, p.Features)

	empty := models.StringList{}
	applyPropertyUpdate(&p, propertyUpdateInput{Features: &empty})
	assert.Equal(t, models.StringList{}, p.Features)

	applyPropertyUpdate(&p, propertyUpdateInput{})
	assert.Equal(t, models.StringList{}, p.Features, "absent features leave the list unchanged")
}

func TestPropertyUpdateInputDecoding(t *testing.T) {
	var in propertyUpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","features":"pool"}`), &in))
	require.NotNil(t, in.Features)
	assert.Equal(t, models.StringList{"pool"}, *in.Features)

	in = propertyUpdateInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"features":null}`), &in))
	assert.Nil(t, in.Features, "null features behave as absent")

	in = propertyUpdateInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &in))
	assert.Nil(t, in.Features)
}

func TestApplyInteriorUpdateKeepsValuesForZeroFields(t *testing.T) {
	i := models.Interior{
		Title:        "Walnut kitchen",
		Description:  "Full set",
		MobileNumber: "555-0102",
		Price:        12000,
		Category:     "kitchen",
	}

	applyInteriorUpdate(&i, interiorUpdateInput{Category: "", Price: 0})
	assert.Equal(t, "kitchen", i.Category)
	assert.Equal(t, float64(12000), i.Price)

	applyInteriorUpdate(&i, interiorUpdateInput{Category: "bedroom", Price: 9000})
	assert.Equal(t, "bedroom", i.Category)
	assert.Equal(t, float64(9000), i.Price)
}

func TestCreatePropertyForbiddenForBuyer(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Flat"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/properties", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleBuyer})

	rec := httptest.NewRecorder()
	CreateProperty(nil, nil, nil)(rec, req)

	require.Equal(t, 403, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Only agents or admins can create properties", body["message"])
}

func TestCreatePropertyRequiresAllFields(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Flat"))
	require.NoError(t, mw.WriteField("description", "  ")) // whitespace only
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/properties", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent})

	rec := httptest.NewRecorder()
	CreateProperty(nil, nil, nil)(rec, req)

	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "All fields are required")
}

func TestCreatePropertyRejectsUnknownType(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title":        "Flat",
		"description":  "Nice",
		"price":        "100000",
		"location":     "Leeds",
		"propertyType": "castle",
		"mobileNumber": "555-0101",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/properties", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent})

	rec := httptest.NewRecorder()
	CreateProperty(nil, nil, nil)(rec, req)

	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid property type")
}

func TestUpdatePropertyUnknownID(t *testing.T) {
	properties := &fakeCollection{} // nothing stored

	req := httptest.NewRequest("PATCH", "/api/v1/properties/x", strings.NewReader(`{"title":"New"}`))
	req = mux.SetURLVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})

	rec := httptest.NewRecorder()
	UpdateProperty(nil, properties)(rec, req)

	require.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property not found")
	assert.Equal(t, 0, properties.replaceCalls)
}

func TestUpdatePropertyForbiddenForNonOwner(t *testing.T) {
	stored := sampleProperty()
	properties := &fakeCollection{
		findOneFn: func(filter interface{}) *mongo.SingleResult { return foundResult(stored) },
	}

	req := httptest.NewRequest("PATCH", "/api/v1/properties/x", strings.NewReader(`{"title":"Hijacked"}`))
	req = mux.SetURLVars(req, map[string]string{"id": stored.ID.Hex()})
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent})

	rec := httptest.NewRecorder()
	UpdateProperty(nil, properties)(rec, req)

	require.Equal(t, 403, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized to update this property")
	assert.Equal(t, 0, properties.replaceCalls, "listing must be untouched")
}

func TestUpdatePropertyOwnerPatchKeepsOmittedFields(t *testing.T) {
	stored := sampleProperty()
	var replaced models.Property
	properties := &fakeCollection{
		findOneFn: func(filter interface{}) *mongo.SingleResult { return foundResult(stored) },
		replaceOneFn: func(filter, replacement interface{}) (*mongo.UpdateResult, error) {
			replaced = replacement.(models.Property)
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}

	req := httptest.NewRequest("PATCH", "/api/v1/properties/x", strings.NewReader(`{"title":"Renovated"}`))
	req = mux.SetURLVars(req, map[string]string{"id": stored.ID.Hex()})
	req = middleware.WithUser(req, &models.User{ID: stored.Agent, Role: models.RoleAgent})

	rec := httptest.NewRecorder()
	UpdateProperty(nil, properties)(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Equal(t, 1, properties.replaceCalls)
	assert.Equal(t, "Renovated", replaced.Title)
	assert.Equal(t, stored.Price, replaced.Price, "omitted fields keep their stored values")
	assert.Equal(t, stored.Agent, replaced.Agent)
}

func TestDeletePropertyUnknownID(t *testing.T) {
	properties := &fakeCollection{}

	req := httptest.NewRequest("DELETE", "/api/v1/properties/x", nil)
	req = mux.SetURLVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})

	rec := httptest.NewRecorder()
	DeleteProperty(nil, properties)(rec, req)

	require.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property not found")
	assert.Equal(t, 0, properties.deleteCalls)
}

func TestDeletePropertyForbiddenForNonOwner(t *testing.T) {
	stored := sampleProperty()
	properties := &fakeCollection{
		findOneFn: func(filter interface{}) *mongo.SingleResult { return foundResult(stored) },
	}

	req := httptest.NewRequest("DELETE", "/api/v1/properties/x", nil)
	req = mux.SetURLVars(req, map[string]string{"id": stored.ID.Hex()})
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent})

	rec := httptest.NewRecorder()
	DeleteProperty(nil, properties)(rec, req)

	require.Equal(t, 403, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized to delete this property")
	assert.Equal(t, 0, properties.deleteCalls, "listing must be untouched")
}

func TestDeletePropertyAdminOverridesOwnership(t *testing.T) {
	stored := sampleProperty()
	properties := &fakeCollection{
		findOneFn: func(filter interface{}) *mongo.SingleResult { return foundResult(stored) },
		deleteOneFn: func(filter interface{}) (*mongo.DeleteResult, error) {
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		},
	}

	req := httptest.NewRequest("DELETE", "/api/v1/properties/x", nil)
	req = mux.SetURLVars(req, map[string]string{"id": stored.ID.Hex()})
	req = middleware.WithUser(req, &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})

	rec := httptest.NewRecorder()
	DeleteProperty(nil, properties)(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property deleted successfully")
	assert.Equal(t, 1, properties.deleteCalls)
}
