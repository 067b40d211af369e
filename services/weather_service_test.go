package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Sofia", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":26.34}}`))
	}))
	defer server.Close()

	svc := NewWeatherService(server.URL, "test-key", 2*time.Second)
	assert.Equal(t, 26.3, svc.Temperature(context.Background(), "Sofia"))
}

func TestTemperatureFallsBackWithoutAPIKey(t *testing.T) {
	svc := NewWeatherService("http://unused.invalid", "", 2*time.Second)
	assert.Equal(t, FallbackTemperature, svc.Temperature(context.Background(), "Sofia"))
}

func TestTemperatureFallsBackOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewWeatherService(server.URL, "test-key", 2*time.Second)
	assert.Equal(t, FallbackTemperature, svc.Temperature(context.Background(), "Nowheresville"))
}

func TestTemperatureFallsBackOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	svc := NewWeatherService(server.URL, "test-key", 2*time.Second)
	assert.Equal(t, FallbackTemperature, svc.Temperature(context.Background(), "Sofia"))
}

func TestTemperatureFallsBackOnConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	svc := NewWeatherService(server.URL, "test-key", time.Second)
	assert.Equal(t, FallbackTemperature, svc.Temperature(context.Background(), "Sofia"))
}
