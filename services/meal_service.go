package services

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sebas202070/SmartDietAI/apperr"
	"github.com/Sebas202070/SmartDietAI/models"
)

// MealService owns the meals collection. Every query filters by the owner
// identity; a meal's owner never changes after insert.
type MealService struct {
	meals *mongo.Collection
}

func NewMealService(db *mongo.Database) *MealService {
	return &MealService{meals: db.Collection("meals")}
}

// Record inserts the meal produced by a successful analysis. CreatedAt is
// stamped here, not supplied by the caller, and the insert happens exactly
// once per analysis: a storage failure is surfaced, never retried.
func (s *MealService) Record(ctx context.Context, owner string, facts *models.NutritionFacts) (*models.Meal, error) {
	meal := &models.Meal{
		UserEmail: owner,
		Food:      facts.Name,
		Calories:  facts.Calories,
		Protein:   facts.Protein,
		Carbs:     facts.Carbs,
		Fat:       facts.Fat,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.meals.InsertOne(ctx, meal)
	if err != nil {
		return nil, goerr.Wrap(apperr.ErrPersistence, "insert failed", goerr.V("cause", err.Error()))
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, goerr.Wrap(apperr.ErrPersistence, "store returned an unexpected id type")
	}
	meal.ID = id
	return meal, nil
}

// List returns the caller's meals, newest first.
func (s *MealService) List(ctx context.Context, owner string) ([]models.Meal, error) {
	cur, err := s.meals.Find(ctx, bson.M{"userEmail": owner},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, goerr.Wrap(apperr.ErrPersistence, "find failed", goerr.V("cause", err.Error()))
	}

	meals := make([]models.Meal, 0)
	if err := cur.All(ctx, &meals); err != nil {
		return nil, goerr.Wrap(apperr.ErrPersistence, "cursor decode failed", goerr.V("cause", err.Error()))
	}
	return meals, nil
}

// MealInput is a manually logged or edited meal body.
type MealInput struct {
	Food     string `json:"food" validate:"required"`
	Calories int    `json:"calories" validate:"min=0"`
	Protein  int    `json:"protein" validate:"min=0"`
	Carbs    int    `json:"carbs" validate:"min=0"`
	Fat      int    `json:"fat" validate:"min=0"`
}

// Create logs a meal without going through the analysis pipeline.
func (s *MealService) Create(ctx context.Context, owner string, in *MealInput) (*models.Meal, error) {
	return s.Record(ctx, owner, &models.NutritionFacts{
		Name:     in.Food,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fat:      in.Fat,
	})
}

// Update patches a meal in place. Ownership is enforced in the update
// filter, so a caller can never touch another user's record, and the owner
// field itself is not patchable.
func (s *MealService) Update(ctx context.Context, owner, id string, in *MealInput) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return goerr.Wrap(apperr.ErrMealNotFound, "invalid meal id", goerr.V("id", id))
	}

	res, err := s.meals.UpdateOne(ctx,
		bson.M{"_id": oid, "userEmail": owner},
		bson.M{"$set": bson.M{
			"food":     in.Food,
			"calories": in.Calories,
			"protein":  in.Protein,
			"carbs":    in.Carbs,
			"fat":      in.Fat,
		}})
	if err != nil {
		return goerr.Wrap(apperr.ErrPersistence, "update failed", goerr.V("cause", err.Error()))
	}
	if res.MatchedCount == 0 {
		return goerr.Wrap(apperr.ErrMealNotFound, "no meal for this owner", goerr.V("id", id))
	}
	return nil
}
