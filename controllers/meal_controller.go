package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Sebas202070/SmartDietAI/middlewares"
	"github.com/Sebas202070/SmartDietAI/models"
	"github.com/Sebas202070/SmartDietAI/services"
)

// MealStore is what this controller needs from the meal service.
type MealStore interface {
	List(ctx context.Context, owner string) ([]models.Meal, error)
	Create(ctx context.Context, owner string, in *services.MealInput) (*models.Meal, error)
	Update(ctx context.Context, owner, id string, in *services.MealInput) error
}

type MealController struct {
	meals    MealStore
	validate *validator.Validate
}

func NewMealController(meals MealStore, validate *validator.Validate) *MealController {
	return &MealController{meals: meals, validate: validate}
}

// ListMeals handles GET /api/meals, newest first.
func (mc *MealController) ListMeals(c *gin.Context) {
	meals, err := mc.meals.List(c.Request.Context(), c.GetString(middlewares.IdentityKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// LogMeal handles POST /api/meals: a manual entry that skips the pipeline.
func (mc *MealController) LogMeal(c *gin.Context) {
	var in services.MealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := mc.validate.Struct(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.meals.Create(c.Request.Context(), c.GetString(middlewares.IdentityKey), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// UpdateMeal handles PATCH /api/meals/:id. Ownership is re-validated in the
// store's update filter.
func (mc *MealController) UpdateMeal(c *gin.Context) {
	var in services.MealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := mc.validate.Struct(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := mc.meals.Update(c.Request.Context(), c.GetString(middlewares.IdentityKey), c.Param("id"), &in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
