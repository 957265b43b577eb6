package models

import "time"

// WeatherRecord is a normalized snapshot of current conditions for one location.
// Temperature and Humidity are always present; the weather client refuses to build
// a record without them.
type WeatherRecord struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"` // °C
	FeelsLike   float64   `json:"feelsLike"`   // °C
	Humidity    int       `json:"humidity"`    // %
	Conditions  string    `json:"conditions"`
	Description string    `json:"description"`
	WindSpeed   float64   `json:"windSpeed"` // m/s
	Clouds      int       `json:"clouds"`    // %
	Rain1h      float64   `json:"rain1h"`    // mm
	Rain3h      float64   `json:"rain3h"`    // mm
	FetchedAt   time.Time `json:"fetchedAt"`
}

// RecommendationRequest is the validated input for one recommendation cycle.
type RecommendationRequest struct {
	CropType string
	City     string
}
