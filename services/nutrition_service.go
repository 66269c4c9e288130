package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Sebas202070/SmartDietAI/apperr"
	"github.com/Sebas202070/SmartDietAI/utils"
)

const defaultNutritionixBaseURL = "https://trackapi.nutritionix.com"

// NutritionService resolves a free-text food label to macro facts through
// the Nutritionix natural-language endpoint. When the primary query yields
// nothing it retries once with the accompaniment clause stripped; never more
// than two upstream calls per label.
type NutritionService struct {
	appID     string
	appKey    string
	separator string
	baseURL   string
	client    *http.Client
}

type NutritionOption func(*NutritionService)

// WithNutritionBaseURL points the client at a different host, used by tests.
func WithNutritionBaseURL(u string) NutritionOption {
	return func(s *NutritionService) {
		s.baseURL = strings.TrimSuffix(u, "/")
	}
}

func NewNutritionService(appID, appKey, separator string, timeout time.Duration, opts ...NutritionOption) *NutritionService {
	s := &NutritionService{
		appID:     appID,
		appKey:    appKey,
		separator: separator,
		baseURL:   defaultNutritionixBaseURL,
		client:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MatchedFood is one item from the Nutritionix response. Macro fields are
// pointers so an absent field is distinguishable from zero.
type MatchedFood struct {
	FoodName          string   `json:"food_name"`
	Calories          *float64 `json:"nf_calories"`
	Protein           *float64 `json:"nf_protein"`
	TotalCarbohydrate *float64 `json:"nf_total_carbohydrate"`
	TotalFat          *float64 `json:"nf_total_fat"`
}

type nutrientsResponse struct {
	Foods []MatchedFood `json:"foods"`
}

// Resolve runs the primary query with the label verbatim and, when it
// yields no matched item, the one deterministic fallback. The fallback
// fires only if the simplified query is non-empty and differs from the
// label. Returns the first matched item and the query that produced it.
//
// If any attempt failed with a transport or non-success response and no
// later attempt succeeded, that failure is reported; only when every
// attempt answered cleanly with an empty result set does resolution fail
// as no-match, still carrying the original label.
func (s *NutritionService) Resolve(ctx context.Context, label string) (*MatchedFood, string, error) {
	queries := []string{label}
	if simplified := utils.SimplifyLabel(label, s.separator); simplified != "" && simplified != label {
		queries = append(queries, simplified)
	}

	var lastErr error
	for _, q := range queries {
		food, err := s.lookup(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		if food != nil {
			return food, q, nil
		}
	}
	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", goerr.Wrap(apperr.ErrNoNutritionMatch, "no query matched", goerr.V("label", label))
}

// lookup performs a single natural/nutrients call. Returns (nil, nil) when
// the service answered 200 with an empty result set.
func (s *NutritionService) lookup(ctx context.Context, query string) (*MatchedFood, error) {
	b, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal nutritionix payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v2/natural/nutrients", bytes.NewReader(b))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create nutritionix request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", s.appID)
	req.Header.Set("x-app-key", s.appKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(apperr.ErrNutritionUpstream, "failed to call nutritionix",
			goerr.V("query", query), goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(apperr.ErrNutritionUpstream, "failed to read nutritionix response",
			goerr.V("query", query), goerr.V("cause", err.Error()))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(apperr.ErrNutritionUpstream, "nutritionix API error",
			goerr.V("query", query), goerr.V("status", resp.StatusCode), goerr.V("body", string(body)))
	}

	var nr nutrientsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, goerr.Wrap(apperr.ErrNutritionUpstream, "failed to parse nutritionix JSON",
			goerr.V("query", query))
	}
	if len(nr.Foods) == 0 {
		return nil, nil
	}
	return &nr.Foods[0], nil
}
