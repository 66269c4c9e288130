package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Sebas202070/SmartDietAI/controllers"
	"github.com/Sebas202070/SmartDietAI/middlewares"
)

// SetupRouter wires the authenticated API surface.
func SetupRouter(jwtSecret string, analyze *controllers.AnalyzeController, meals *controllers.MealController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		api.POST("/analyze", analyze.Analyze)

		api.GET("/meals", meals.ListMeals)
		api.POST("/meals", meals.LogMeal)
		api.PATCH("/meals/:id", meals.UpdateMeal)
	}

	return r
}
