//go:build integration
// +build integration

package weather

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

const liveURL = "https://api.openweathermap.org/data/2.5/weather"

func liveClient(t *testing.T) *OpenWeatherClient {
	t.Helper()
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("OPENWEATHER_API_KEY not set, skipping integration test")
	}
	c, err := NewOpenWeatherClient(apiKey, liveURL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	return c
}

func TestFetchWeather_Integration(t *testing.T) {
	c := liveClient(t)

	w, err := c.FetchWeather(context.Background(), "London")
	if err != nil {
		t.Fatalf("FetchWeather() error = %v", err)
	}
	if w.City == "" || w.Country == "" {
		t.Errorf("FetchWeather() = %+v, want city and country", w)
	}
	if w.Humidity < 0 || w.Humidity > 100 {
		t.Errorf("Humidity = %d, want percent", w.Humidity)
	}
}

func TestFetchWeather_UnknownCity_Integration(t *testing.T) {
	c := liveClient(t)

	_, err := c.FetchWeather(context.Background(), "Qwxzyvillenotreal")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchWeather() error = %v, want ErrNotFound", err)
	}
}
