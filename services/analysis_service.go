package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Sebas202070/SmartDietAI/apperr"
	"github.com/Sebas202070/SmartDietAI/models"
)

// Collaborator contracts, narrowed to what the pipeline consumes so tests
// can substitute fakes.
type FoodLabeler interface {
	DescribeFood(ctx context.Context, image []byte, mimeType string) (string, error)
}

type NutritionResolver interface {
	Resolve(ctx context.Context, label string) (*MatchedFood, string, error)
}

type MealRecorder interface {
	Record(ctx context.Context, owner string, facts *models.NutritionFacts) (*models.Meal, error)
}

// AnalysisService runs one image submission through the full pipeline:
// classify, resolve, normalize, persist. The stages are strictly sequential
// and the first failure is terminal; no partial Meal is ever persisted or
// returned.
type AnalysisService struct {
	labeler  FoodLabeler
	resolver NutritionResolver
	recorder MealRecorder
}

func NewAnalysisService(labeler FoodLabeler, resolver NutritionResolver, recorder MealRecorder) *AnalysisService {
	return &AnalysisService{
		labeler:  labeler,
		resolver: resolver,
		recorder: recorder,
	}
}

// Analyze turns an uploaded image into a persisted Meal owned by the
// caller. Identity and payload are checked before any external call.
func (s *AnalysisService) Analyze(ctx context.Context, owner string, image []byte, mimeType string) (*models.Meal, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, goerr.Wrap(apperr.ErrUnauthenticated, "analysis requires a caller identity")
	}
	if len(image) == 0 {
		return nil, goerr.Wrap(apperr.ErrMissingImage, "analysis requires an image payload")
	}

	label, err := s.labeler.DescribeFood(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	slog.Info("image classified", "owner", owner, "label", label)

	food, query, err := s.resolver.Resolve(ctx, label)
	if err != nil {
		return nil, err
	}
	slog.Info("nutrition resolved", "label", label, "query", query, "food", food.FoodName)

	facts, err := Normalize(food)
	if err != nil {
		return nil, err
	}

	// A disconnect observed after the upstream calls must not produce a Meal.
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "request cancelled before persisting")
	}

	meal, err := s.recorder.Record(ctx, owner, facts)
	if err != nil {
		return nil, err
	}
	slog.Info("meal recorded", "owner", owner, "meal_id", meal.ID.Hex(), "food", meal.Food, "calories", meal.Calories)
	return meal, nil
}
