package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sebas202070/SmartDietAI/apperr"
	"github.com/Sebas202070/SmartDietAI/models"
	"github.com/Sebas202070/SmartDietAI/services"
)

type mockLabeler struct {
	calls int
	fn    func(ctx context.Context, image []byte, mimeType string) (string, error)
}

func (m *mockLabeler) DescribeFood(ctx context.Context, image []byte, mimeType string) (string, error) {
	m.calls++
	return m.fn(ctx, image, mimeType)
}

type mockResolver struct {
	calls int
	fn    func(ctx context.Context, label string) (*services.MatchedFood, string, error)
}

func (m *mockResolver) Resolve(ctx context.Context, label string) (*services.MatchedFood, string, error) {
	m.calls++
	return m.fn(ctx, label)
}

type mockRecorder struct {
	calls int
	fn    func(ctx context.Context, owner string, facts *models.NutritionFacts) (*models.Meal, error)
}

func (m *mockRecorder) Record(ctx context.Context, owner string, facts *models.NutritionFacts) (*models.Meal, error) {
	m.calls++
	return m.fn(ctx, owner, facts)
}

func matchedHamburger() *services.MatchedFood {
	return &services.MatchedFood{
		FoodName:          "hamburger",
		Calories:          f64(432.6),
		Protein:           f64(12.2),
		TotalCarbohydrate: f64(55.5),
		TotalFat:          f64(18.4),
	}
}

func TestAnalysisService(t *testing.T) {
	ctx := context.Background()
	image := []byte("fake-image")

	t.Run("missing identity short-circuits before any external call", func(t *testing.T) {
		labeler := &mockLabeler{}
		resolver := &mockResolver{}
		recorder := &mockRecorder{}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		_, err := svc.Analyze(ctx, "  ", image, "image/jpeg")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, apperr.ErrUnauthenticated))
		gt.V(t, labeler.calls).Equal(0)
		gt.V(t, resolver.calls).Equal(0)
		gt.V(t, recorder.calls).Equal(0)
	})

	t.Run("empty image short-circuits before any external call", func(t *testing.T) {
		labeler := &mockLabeler{}
		resolver := &mockResolver{}
		recorder := &mockRecorder{}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		_, err := svc.Analyze(ctx, "user@example.com", nil, "image/jpeg")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, apperr.ErrMissingImage))
		gt.V(t, labeler.calls).Equal(0)
		gt.V(t, resolver.calls).Equal(0)
	})

	t.Run("no food detected never reaches the resolver", func(t *testing.T) {
		labeler := &mockLabeler{fn: func(ctx context.Context, image []byte, mimeType string) (string, error) {
			return "", goerr.Wrap(apperr.ErrNoFoodDetected, "gemini produced no label")
		}}
		resolver := &mockResolver{}
		recorder := &mockRecorder{}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		_, err := svc.Analyze(ctx, "user@example.com", image, "image/jpeg")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, apperr.ErrNoFoodDetected))
		gt.V(t, labeler.calls).Equal(1)
		gt.V(t, resolver.calls).Equal(0)
		gt.V(t, recorder.calls).Equal(0)
	})

	t.Run("resolution failure never reaches the recorder", func(t *testing.T) {
		labeler := &mockLabeler{fn: func(ctx context.Context, image []byte, mimeType string) (string, error) {
			return "Ensalada", nil
		}}
		resolver := &mockResolver{fn: func(ctx context.Context, label string) (*services.MatchedFood, string, error) {
			return nil, "", goerr.Wrap(apperr.ErrNoNutritionMatch, "no query matched", goerr.V("label", label))
		}}
		recorder := &mockRecorder{}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		_, err := svc.Analyze(ctx, "user@example.com", image, "image/jpeg")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, apperr.ErrNoNutritionMatch))
		gt.V(t, recorder.calls).Equal(0)
	})

	t.Run("unusable macro fields never reach the recorder", func(t *testing.T) {
		labeler := &mockLabeler{fn: func(ctx context.Context, image []byte, mimeType string) (string, error) {
			return "Hamburguesa", nil
		}}
		resolver := &mockResolver{fn: func(ctx context.Context, label string) (*services.MatchedFood, string, error) {
			food := matchedHamburger()
			food.TotalFat = nil
			return food, label, nil
		}}
		recorder := &mockRecorder{}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		_, err := svc.Analyze(ctx, "user@example.com", image, "image/jpeg")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, apperr.ErrNormalization))
		gt.V(t, recorder.calls).Equal(0)
	})

	t.Run("persistence failure is distinct from no-match and returns no meal", func(t *testing.T) {
		labeler := &mockLabeler{fn: func(ctx context.Context, image []byte, mimeType string) (string, error) {
			return "Hamburguesa", nil
		}}
		resolver := &mockResolver{fn: func(ctx context.Context, label string) (*services.MatchedFood, string, error) {
			return matchedHamburger(), label, nil
		}}
		recorder := &mockRecorder{fn: func(ctx context.Context, owner string, facts *models.NutritionFacts) (*models.Meal, error) {
			return nil, goerr.Wrap(apperr.ErrPersistence, "insert failed")
		}}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		meal, err := svc.Analyze(ctx, "user@example.com", image, "image/jpeg")
		gt.Error(t, err)
		gt.Nil(t, meal)
		gt.True(t, errors.Is(err, apperr.ErrPersistence))
		gt.False(t, errors.Is(err, apperr.ErrNoNutritionMatch))
	})

	t.Run("success records normalized facts for the caller", func(t *testing.T) {
		labeler := &mockLabeler{fn: func(ctx context.Context, image []byte, mimeType string) (string, error) {
			return "Hamburguesa con papas", nil
		}}
		resolver := &mockResolver{fn: func(ctx context.Context, label string) (*services.MatchedFood, string, error) {
			return matchedHamburger(), "Hamburguesa", nil
		}}

		var gotOwner string
		var gotFacts *models.NutritionFacts
		storedID := primitive.NewObjectID()
		recorder := &mockRecorder{fn: func(ctx context.Context, owner string, facts *models.NutritionFacts) (*models.Meal, error) {
			gotOwner = owner
			gotFacts = facts
			return &models.Meal{
				ID:        storedID,
				UserEmail: owner,
				Food:      facts.Name,
				Calories:  facts.Calories,
				Protein:   facts.Protein,
				Carbs:     facts.Carbs,
				Fat:       facts.Fat,
			}, nil
		}}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		meal, err := svc.Analyze(ctx, "user@example.com", image, "image/jpeg")
		gt.NoError(t, err)
		gt.V(t, gotOwner).Equal("user@example.com")
		gt.V(t, gotFacts.Calories).Equal(433)
		gt.V(t, gotFacts.Carbs).Equal(56)
		gt.V(t, meal.ID).Equal(storedID)
		gt.V(t, meal.UserEmail).Equal("user@example.com")
		gt.V(t, meal.Food).Equal("hamburger")
	})

	t.Run("cancellation observed before persisting prevents the insert", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)

		labeler := &mockLabeler{fn: func(ctx context.Context, image []byte, mimeType string) (string, error) {
			return "Hamburguesa", nil
		}}
		resolver := &mockResolver{fn: func(ctx context.Context, label string) (*services.MatchedFood, string, error) {
			cancel()
			return matchedHamburger(), label, nil
		}}
		recorder := &mockRecorder{}
		svc := services.NewAnalysisService(labeler, resolver, recorder)

		_, err := svc.Analyze(cancelCtx, "user@example.com", image, "image/jpeg")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, context.Canceled))
		gt.V(t, recorder.calls).Equal(0)
	})
}
