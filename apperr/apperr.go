package apperr

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinels for every terminal outcome of the meal-analysis pipeline.
// Services wrap these with goerr.Wrap and attach diagnostics (attempted
// label, upstream status, upstream body) as goerr variables; controllers map
// them back to response statuses with HTTPStatus.
var (
	ErrUnauthenticated = goerr.New("caller identity is missing")
	ErrMissingImage    = goerr.New("image payload is missing or empty")

	ErrVisionTransport = goerr.New("vision service is unreachable")
	ErrVisionUpstream  = goerr.New("vision service returned an error")
	ErrNoFoodDetected  = goerr.New("no food detected in image")

	ErrNutritionUpstream = goerr.New("nutrition service returned an error")
	ErrNoNutritionMatch  = goerr.New("no nutrition data found")

	ErrNormalization = goerr.New("nutrition data is missing required fields")
	ErrPersistence   = goerr.New("failed to persist meal")
	ErrMealNotFound  = goerr.New("meal not found")
	ErrConfiguration = goerr.New("required configuration is missing")
)

// HTTPStatus maps a pipeline error to the status the inbound boundary
// promises: 401 unauthenticated, 400 for bad input and empty analysis
// outcomes, the upstream status verbatim (or 502) for vision failures, 502
// for nutrition/normalization failures, 500 for everything else.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMissingImage),
		errors.Is(err, ErrNoFoodDetected),
		errors.Is(err, ErrNoNutritionMatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrMealNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrVisionUpstream):
		if status, ok := goerr.Values(err)["status"].(int); ok && status >= http.StatusBadRequest {
			return status
		}
		return http.StatusBadGateway
	case errors.Is(err, ErrVisionTransport),
		errors.Is(err, ErrNutritionUpstream),
		errors.Is(err, ErrNormalization):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
