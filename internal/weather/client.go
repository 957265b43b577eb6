package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/irrigation-advisor/internal/models"
	"github.com/kjstillabower/irrigation-advisor/internal/observability"
)

// Fetcher looks up current conditions for a place name.
type Fetcher interface {
	FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error)
}

const defaultText = "Unknown"

// OpenWeatherClient calls the OpenWeatherMap current-conditions endpoint.
// Each FetchWeather is exactly one HTTP request; callers decide whether to retry.
type OpenWeatherClient struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewOpenWeatherClient(apiKey, apiURL string, timeout time.Duration) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, &Error{Kind: KindAuth, Err: errors.New("API key is required")}
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenWeatherClient{
		apiKey:  apiKey,
		apiURL:  apiURL,
		timeout: timeout,
		client:  &http.Client{},
		logger:  zap.NewNop(),
	}, nil
}

// SetLimiter throttles outbound calls. A nil limiter disables throttling.
func (c *OpenWeatherClient) SetLimiter(l *rate.Limiter) {
	c.limiter = l
}

// SetLogger replaces the no-op logger.
func (c *OpenWeatherClient) SetLogger(l *zap.Logger) {
	if l != nil {
		c.logger = l
	}
}

type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour    float64 `json:"1h"`
		ThreeHours float64 `json:"3h"`
	} `json:"rain"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// FetchWeather returns the current conditions for city. Failures are *Error, except
// cancellation of ctx by the caller, which is returned as ctx.Err() wrapped.
func (c *OpenWeatherClient) FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.WeatherRecord{}, &Error{Kind: KindNotFound, Err: errors.New("city name must be a non-empty string")}
	}

	if err := c.wait(ctx); err != nil {
		return models.WeatherRecord{}, err
	}

	start := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, city)
	if err != nil {
		return models.WeatherRecord{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return models.WeatherRecord{}, c.classifyTransportError(ctx, city, err)
	}
	defer resp.Body.Close()

	status := observability.StatusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err := handleErrorResponse(resp, city); err != nil {
		return models.WeatherRecord{}, c.record(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherRecord{}, c.classifyTransportError(ctx, city, err)
	}

	var apiResp openWeatherResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.WeatherRecord{}, c.record(&Error{Kind: KindIncompleteData, City: city, Err: fmt.Errorf("parse response: %w", err)})
	}

	record, err := mapResponse(apiResp, city)
	if err != nil {
		return models.WeatherRecord{}, c.record(err)
	}

	c.logger.Debug("weather fetched",
		zap.String("city", record.City),
		zap.String("country", record.Country),
		zap.Duration("duration", time.Since(start)))
	return record, nil
}

func (c *OpenWeatherClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	err := c.limiter.Wait(ctx)
	observability.ThrottleWaitSeconds.WithLabelValues("weather").Observe(time.Since(start).Seconds())
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("weather throttle: %w", ctx.Err())
	}
	return c.record(&Error{Kind: KindTimeout, Err: err})
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, city string) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if corrID := observability.CorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}
	return req, nil
}

// classifyTransportError separates caller cancellation from provider-side timeouts
// and connection failures.
func (c *OpenWeatherClient) classifyTransportError(ctx context.Context, city string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("weather request: %w", ctx.Err())
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return c.record(&Error{Kind: KindTimeout, City: city, Err: err})
	}
	return c.record(&Error{Kind: KindConnection, City: city, Err: err})
}

func (c *OpenWeatherClient) record(err error) error {
	kind := KindOf(err)
	observability.WeatherAPIErrorsTotal.WithLabelValues(string(kind)).Inc()
	var we *Error
	if errors.As(err, &we) {
		c.logger.Warn("weather lookup failed",
			zap.String("kind", string(kind)),
			zap.String("city", we.City),
			zap.Int("status", we.StatusCode),
			zap.Error(we.Err))
	}
	return err
}

// handleErrorResponse maps the status code alone; the body is never consulted.
func handleErrorResponse(resp *http.Response, city string) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuth, City: city, StatusCode: resp.StatusCode}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, City: city, StatusCode: resp.StatusCode}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, City: city, StatusCode: resp.StatusCode}
	}
	return &Error{Kind: KindProvider, City: city, StatusCode: resp.StatusCode}
}

// mapResponse builds a WeatherRecord, applying documented defaults to optional fields.
// Temperature and humidity are mandatory.
func mapResponse(apiResp openWeatherResponse, city string) (models.WeatherRecord, error) {
	if apiResp.Main.Temp == nil || apiResp.Main.Humidity == nil {
		return models.WeatherRecord{}, &Error{Kind: KindIncompleteData, City: city}
	}

	displayName := apiResp.Name
	if displayName == "" {
		displayName = city
	}
	country := apiResp.Sys.Country
	if country == "" {
		country = defaultText
	}

	conditions, description := defaultText, defaultText
	if len(apiResp.Weather) > 0 {
		if apiResp.Weather[0].Main != "" {
			conditions = apiResp.Weather[0].Main
		}
		if apiResp.Weather[0].Description != "" {
			description = apiResp.Weather[0].Description
		}
	}

	temp := *apiResp.Main.Temp
	feelsLike := temp
	if apiResp.Main.FeelsLike != nil {
		feelsLike = *apiResp.Main.FeelsLike
	}

	return models.WeatherRecord{
		City:        displayName,
		Country:     country,
		Temperature: temp,
		FeelsLike:   feelsLike,
		Humidity:    int(math.Round(*apiResp.Main.Humidity)),
		Conditions:  conditions,
		Description: description,
		WindSpeed:   apiResp.Wind.Speed,
		Clouds:      int(math.Round(apiResp.Clouds.All)),
		Rain1h:      math.Max(apiResp.Rain.OneHour, 0),
		Rain3h:      math.Max(apiResp.Rain.ThreeHours, 0),
		FetchedAt:   time.Now(),
	}, nil
}
