package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"fitTrackAPI/middleware"
	"fitTrackAPI/utils"
)

// FallbackTemperature is used whenever the weather service cannot produce a
// real reading. 20°C sits below every hot-weather bonus threshold, so a
// failed lookup never inflates the water goal.
const FallbackTemperature = 20.0

// WeatherService resolves a city name to the current temperature via the
// OpenWeatherMap current-weather endpoint.
type WeatherService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewWeatherService(baseURL, apiKey string, timeout time.Duration) *WeatherService {
	return &WeatherService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Temperature returns the current temperature in Celsius for a city. It never
// fails: a missing API key, network error, non-200 status, or malformed body
// all degrade to FallbackTemperature.
func (s *WeatherService) Temperature(ctx context.Context, city string) float64 {
	if s.apiKey == "" {
		return FallbackTemperature
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("units", "metric")
	params.Set("appid", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/data/2.5/weather?"+params.Encode(), nil)
	if err != nil {
		return FallbackTemperature
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Weather lookup failed for %q: %v", city, err)
		middleware.LookupFailures.WithLabelValues("weather").Inc()
		return FallbackTemperature
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.LookupFailures.WithLabelValues("weather").Inc()
		return FallbackTemperature
	}

	var payload struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		middleware.LookupFailures.WithLabelValues("weather").Inc()
		return FallbackTemperature
	}

	return utils.Round1(payload.Main.Temp)
}
