package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Interior struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	MobileNumber string             `bson:"mobileNumber" json:"mobileNumber"`
	Price        float64            `bson:"price" json:"price"`
	Images       []string           `bson:"images" json:"images"`
	Category     string             `bson:"category" json:"category"`
	Agent        primitive.ObjectID `bson:"agent" json:"agent"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type InteriorWithAgent struct {
	Interior  `bson:",inline"`
	AgentInfo *AgentSummary `bson:"agentInfo,omitempty" json:"agentInfo,omitempty"`
}
