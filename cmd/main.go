package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/clog"

	"github.com/Sebas202070/SmartDietAI/config"
	"github.com/Sebas202070/SmartDietAI/controllers"
	"github.com/Sebas202070/SmartDietAI/routes"
	"github.com/Sebas202070/SmartDietAI/services"
)

func main() {
	slog.SetDefault(slog.New(clog.New(
		clog.WithWriter(os.Stdout),
		clog.WithSource(false),
		clog.WithAttrHook(clog.GoerrHook),
	)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := config.ConnectMongo(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}

	vision := services.NewVisionService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ExternalTimeout)
	nutrition := services.NewNutritionService(cfg.NutritionixAppID, cfg.NutritionixAppKey, cfg.LabelSeparator, cfg.ExternalTimeout)
	mealSvc := services.NewMealService(db)
	analysis := services.NewAnalysisService(vision, nutrition, mealSvc)

	r := routes.SetupRouter(cfg.JWTSecret,
		controllers.NewAnalyzeController(analysis),
		controllers.NewMealController(mealSvc, validator.New()),
	)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
