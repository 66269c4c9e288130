package services

import (
	"math"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Sebas202070/SmartDietAI/apperr"
	"github.com/Sebas202070/SmartDietAI/models"
	"github.com/Sebas202070/SmartDietAI/utils"
)

// Normalize converts a matched item into integer macro facts, rounding
// half-up. A missing or non-finite field is a data-quality failure, never a
// zero; no partial record is ever emitted.
func Normalize(food *MatchedFood) (*models.NutritionFacts, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"nf_calories", food.Calories},
		{"nf_protein", food.Protein},
		{"nf_total_carbohydrate", food.TotalCarbohydrate},
		{"nf_total_fat", food.TotalFat},
	}
	for _, f := range fields {
		if f.value == nil || math.IsNaN(*f.value) || math.IsInf(*f.value, 0) || *f.value < 0 {
			return nil, goerr.Wrap(apperr.ErrNormalization, "matched item lacks a usable macro field",
				goerr.V("food", food.FoodName), goerr.V("field", f.name))
		}
	}
	return &models.NutritionFacts{
		Name:     food.FoodName,
		Calories: utils.RoundHalfUp(*food.Calories),
		Protein:  utils.RoundHalfUp(*food.Protein),
		Carbs:    utils.RoundHalfUp(*food.TotalCarbohydrate),
		Fat:      utils.RoundHalfUp(*food.TotalFat),
	}, nil
}
