package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fitTrackAPI/middleware"
)

// ErrFoodNotFound covers both an empty search result and a product with no
// usable energy value.
var ErrFoodNotFound = errors.New("food not found")

// NutritionFacts are per-100g values for a resolved product.
type NutritionFacts struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// NutritionService resolves a free-text food name to per-100g nutrition facts
// via the OpenFoodFacts search endpoint.
type NutritionService struct {
	client  *http.Client
	baseURL string
}

func NewNutritionService(baseURL string, timeout time.Duration) *NutritionService {
	return &NutritionService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Search returns facts for the best match of name. ErrFoodNotFound is the
// not-found signal; any other error is a transient lookup failure the caller
// reports without entering the follow-up state.
func (s *NutritionService) Search(ctx context.Context, name string) (*NutritionFacts, error) {
	params := url.Values{}
	params.Set("search_terms", name)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", "1")
	params.Set("fields", "product_name,nutriments")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/cgi/search.pl?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nutrition request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		middleware.LookupFailures.WithLabelValues("nutrition").Inc()
		return nil, fmt.Errorf("nutrition lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.LookupFailures.WithLabelValues("nutrition").Inc()
		return nil, fmt.Errorf("nutrition lookup returned status %d", resp.StatusCode)
	}

	var payload struct {
		Products []struct {
			ProductName string         `json:"product_name"`
			Nutriments  map[string]any `json:"nutriments"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		middleware.LookupFailures.WithLabelValues("nutrition").Inc()
		return nil, fmt.Errorf("failed to decode nutrition response: %w", err)
	}

	if len(payload.Products) == 0 {
		return nil, ErrFoodNotFound
	}

	product := payload.Products[0]
	resolvedName := product.ProductName
	if resolvedName == "" {
		resolvedName = name
	}

	calories := nutrimentValue(product.Nutriments, "energy-kcal_100g")
	if calories == 0 {
		calories = nutrimentValue(product.Nutriments, "energy_100g")
	}
	// A zero-energy result is useless for calorie tracking; treat as not found.
	if calories == 0 {
		return nil, ErrFoodNotFound
	}

	return &NutritionFacts{
		Name:     resolvedName,
		Calories: calories,
		Protein:  nutrimentValue(product.Nutriments, "proteins_100g"),
		Fat:      nutrimentValue(product.Nutriments, "fat_100g"),
		Carbs:    nutrimentValue(product.Nutriments, "carbohydrates_100g"),
	}, nil
}

// nutrimentValue coerces an OpenFoodFacts nutriment entry to float64. The API
// serves these fields as either numbers or numeric strings.
func nutrimentValue(nutriments map[string]any, key string) float64 {
	switch v := nutriments[key].(type) {
	case float64:
		return v
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return 0
}
