package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meal is one analyzed (or manually logged) meal, stored in the "meals"
// collection. ID is assigned by the store on insert. UserEmail is the
// owner's identity and never changes after creation; every read and update
// filters by it.
type Meal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	Food      string             `bson:"food" json:"food"`
	Calories  int                `bson:"calories" json:"calories"`
	Protein   int                `bson:"protein" json:"protein"`
	Carbs     int                `bson:"carbs" json:"carbs"`
	Fat       int                `bson:"fat" json:"fat"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NutritionFacts is the normalized macro snapshot for one matched food
// item, all fields rounded and non-negative.
type NutritionFacts struct {
	Name     string
	Calories int
	Protein  int
	Carbs    int
	Fat      int
}
