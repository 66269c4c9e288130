package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sebas202070/SmartDietAI/middlewares"
	"github.com/Sebas202070/SmartDietAI/models"
)

// Analyzer is what this controller needs from the analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, owner string, image []byte, mimeType string) (*models.Meal, error)
}

type AnalyzeController struct {
	analysis Analyzer
}

func NewAnalyzeController(analysis Analyzer) *AnalyzeController {
	return &AnalyzeController{analysis: analysis}
}

// Analyze handles POST /api/analyze: one multipart image in, one persisted
// Meal out.
func (ac *AnalyzeController) Analyze(c *gin.Context) {
	email := c.GetString(middlewares.IdentityKey)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file received"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file received"})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	meal, err := ac.analysis.Analyze(c.Request.Context(), email, image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}
