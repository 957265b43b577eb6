package cli

// State is a step of the interactive loop.
type State int

const (
	AwaitingCropInput State = iota
	AwaitingCityInput
	FetchingWeather
	GeneratingAdvice
	DisplayingResult
	AwaitingContinue
)

func (s State) String() string {
	switch s {
	case AwaitingCropInput:
		return "awaiting_crop_input"
	case AwaitingCityInput:
		return "awaiting_city_input"
	case FetchingWeather:
		return "fetching_weather"
	case GeneratingAdvice:
		return "generating_advice"
	case DisplayingResult:
		return "displaying_result"
	case AwaitingContinue:
		return "awaiting_continue"
	default:
		return "unknown"
	}
}

// Process exit statuses returned by Loop.Run.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Outcome labels for observability.RecordRecommendation.
const (
	outcomeSuccess     = "success"
	outcomeWeatherErr  = "weather_error"
	outcomeAdviceErr   = "advice_error"
	outcomeInterrupted = "interrupted"
	outcomeUnexpected  = "unexpected_error"
)
