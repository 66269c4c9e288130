package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Sebas202070/SmartDietAI/apperr"
)

// Config carries every credential and knob the service needs. It is loaded
// and validated once at startup; services receive values from here instead
// of reading the environment themselves, so a missing key fails fast rather
// than deep inside a pipeline stage.
type Config struct {
	Port string

	MongoURI      string `validate:"required"`
	MongoDatabase string `validate:"required"`

	JWTSecret string `validate:"required"`

	GeminiAPIKey string `validate:"required"`
	GeminiModel  string

	NutritionixAppID  string `validate:"required"`
	NutritionixAppKey string `validate:"required"`

	// LabelSeparator marks an accompaniment clause in a food label; the text
	// before its first occurrence becomes the fallback nutrition query.
	LabelSeparator string

	// ExternalTimeout bounds each upstream call (vision, nutrition).
	ExternalTimeout time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		MongoDatabase:     getenv("MONGODB_DATABASE", "smartdiet"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		NutritionixAppID:  os.Getenv("NUTRITIONIX_APP_ID"),
		NutritionixAppKey: os.Getenv("NUTRITIONIX_APP_KEY"),
		LabelSeparator:    getenv("LABEL_SEPARATOR", " con "),
		ExternalTimeout:   20 * time.Second,
	}

	if v := os.Getenv("EXTERNAL_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, goerr.Wrap(apperr.ErrConfiguration, "invalid EXTERNAL_TIMEOUT_SECONDS", goerr.V("value", v))
		}
		cfg.ExternalTimeout = time.Duration(secs) * time.Second
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, goerr.Wrap(apperr.ErrConfiguration, "missing required environment variables", goerr.V("detail", err.Error()))
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
