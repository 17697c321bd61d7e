package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeCommercial = "commercial"
	PropertyTypeLand       = "land"

	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusRented    = "rented"
)

// StringList accepts either a JSON array of strings or a bare string, which
// becomes a single-element list. Form values with one entry behave the same.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = StringList{one}
	return nil
}

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Location     string             `bson:"location" json:"location"`
	MobileNumber string             `bson:"mobileNumber" json:"mobileNumber"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Status       string             `bson:"status" json:"status"`
	Photos       []string           `bson:"photos" json:"photos"`
	Features     StringList         `bson:"features" json:"features"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	Area         float64            `bson:"area" json:"area"`
	Agent        primitive.ObjectID `bson:"agent" json:"agent"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyWithAgent is a property with the owning agent joined in via $lookup.
type PropertyWithAgent struct {
	Property  `bson:",inline"`
	AgentInfo *AgentSummary `bson:"agentInfo,omitempty" json:"agentInfo,omitempty"`
}

func ValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusSold, StatusRented:
		return true
	}
	return false
}
