// Package cli runs the interactive recommendation loop.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kjstillabower/irrigation-advisor/internal/advice"
	"github.com/kjstillabower/irrigation-advisor/internal/models"
	"github.com/kjstillabower/irrigation-advisor/internal/observability"
	"github.com/kjstillabower/irrigation-advisor/internal/report"
	"github.com/kjstillabower/irrigation-advisor/internal/validation"
	"github.com/kjstillabower/irrigation-advisor/internal/weather"
)

const (
	cropPrompt     = "Enter crop type (e.g., wheat, rice, tomato, corn): "
	cityPrompt     = "Enter your city/location (e.g., London, New York, Mumbai): "
	retryPrompt    = "\nWould you like to try again? (yes/no): "
	continuePrompt = "\nWould you like to get another recommendation? (yes/no): "

	goodbye     = "\n👋 Thank you for using Smart Irrigation Advice Chatbot. Goodbye!\n"
	interrupted = "\n\n👋 Program interrupted. Goodbye!\n"
)

// field describes one validated text prompt.
type field struct {
	prompt   string
	empty    string
	tooShort string
}

var (
	cropField = field{
		prompt:   cropPrompt,
		empty:    "⚠️  Crop type cannot be empty. Please try again.",
		tooShort: "⚠️  Please enter a valid crop type (at least 2 characters).",
	}
	cityField = field{
		prompt:   cityPrompt,
		empty:    "⚠️  City cannot be empty. Please try again.",
		tooShort: "⚠️  Please enter a valid city name (at least 2 characters).",
	}
)

// Loop drives one terminal session: crop and city prompts, a weather lookup,
// advice generation, and the report. It is not safe for concurrent use.
type Loop struct {
	in      io.Reader
	out     io.Writer
	weather weather.Fetcher
	advice  advice.Generator
	logger  *zap.Logger

	input *lineReader
}

func New(in io.Reader, out io.Writer, w weather.Fetcher, g advice.Generator, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{in: in, out: out, weather: w, advice: g, logger: logger}
}

// Run executes the loop until the user exits, an unrecoverable error occurs, or
// ctx is cancelled, and returns the process exit status. Cancellation of ctx is
// treated as a user interrupt and yields ExitSuccess.
func (l *Loop) Run(ctx context.Context) (code int) {
	l.input = newLineReader(l.in)
	defer l.input.Close()

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop panic", zap.Any("panic", r))
			code = l.unexpected(fmt.Errorf("%v", r))
		}
	}()

	var (
		crop, city string
		record     models.WeatherRecord
		text       string
		cycleCtx   = ctx
	)

	state := AwaitingCropInput
	for {
		l.logger.Debug("state", zap.Stringer("state", state))

		switch state {
		case AwaitingCropInput:
			l.welcome()
			v, err := l.ask(ctx, cropField)
			if err != nil {
				return l.stop(ctx, err)
			}
			crop = v
			state = AwaitingCityInput

		case AwaitingCityInput:
			v, err := l.ask(ctx, cityField)
			if err != nil {
				return l.stop(ctx, err)
			}
			city = v
			state = FetchingWeather

		case FetchingWeather:
			corrID := observability.NewCorrelationID()
			cycleCtx = observability.WithCorrelationID(ctx, corrID)
			cycleLogger := l.logger.With(zap.String("correlation_id", corrID))
			cycleLogger.Info("recommendation started", zap.String("crop", crop), zap.String("city", city))

			fmt.Fprintf(l.out, "\n🌤️  Fetching weather data for %s...\n", city)
			w, err := l.weather.FetchWeather(cycleCtx, city)
			if err != nil {
				if ctx.Err() != nil || weather.KindOf(err) == "" {
					return l.stop(ctx, err)
				}
				observability.RecordRecommendation(outcomeWeatherErr)
				cycleLogger.Info("weather lookup failed", zap.String("kind", string(weather.KindOf(err))), zap.Error(err))
				retry, err := l.offerRetry(ctx, err)
				if err != nil {
					return l.stop(ctx, err)
				}
				if !retry {
					return ExitFailure
				}
				state = AwaitingCropInput
				continue
			}
			record = w
			fmt.Fprintln(l.out, "✅ Weather data retrieved successfully!")
			fmt.Fprint(l.out, report.FormatWeatherSummary(record))
			state = GeneratingAdvice

		case GeneratingAdvice:
			fmt.Fprintf(l.out, "🤖 Generating irrigation recommendations for %s...\n", crop)
			t, err := l.advice.GenerateAdvice(cycleCtx, crop, record)
			if err != nil {
				if ctx.Err() != nil || advice.KindOf(err) == "" {
					return l.stop(ctx, err)
				}
				observability.RecordRecommendation(outcomeAdviceErr)
				l.logger.Info("advice generation failed",
					zap.String("correlation_id", observability.CorrelationID(cycleCtx)),
					zap.String("kind", string(advice.KindOf(err))),
					zap.Error(err))
				fmt.Fprintf(l.out, "\n❌ LLM Integration Error: %s\n", err)
				fmt.Fprintln(l.out, "   Please check your OpenAI API key and try again.")
				return ExitFailure
			}
			text = t
			fmt.Fprintln(l.out, "✅ Recommendation generated successfully!")
			fmt.Fprintln(l.out)
			state = DisplayingResult

		case DisplayingResult:
			fmt.Fprint(l.out, report.FormatReport(crop, record, text))
			observability.RecordRecommendation(outcomeSuccess)
			l.logger.Info("recommendation displayed",
				zap.String("correlation_id", observability.CorrelationID(cycleCtx)),
				zap.Int("sections", len(advice.ParseSections(text))))
			state = AwaitingContinue

		case AwaitingContinue:
			again, err := l.askContinue(ctx)
			if err != nil {
				return l.stop(ctx, err)
			}
			if !again {
				fmt.Fprint(l.out, goodbye)
				return ExitSuccess
			}
			state = AwaitingCropInput
		}
	}
}

func (l *Loop) welcome() {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(l.out, "\n%s\n%s\n%s\n", rule, report.Title, rule)
	fmt.Fprintln(l.out, "\nWelcome! I'll help you make informed irrigation decisions based on")
	fmt.Fprintln(l.out, "current weather conditions and your crop type.")
	fmt.Fprintln(l.out, "\nType 'exit' or 'quit' at any time to exit the program.")
	fmt.Fprintln(l.out)
}

// ask re-prompts until the input is valid. Exit tokens yield errExit.
func (l *Loop) ask(ctx context.Context, f field) (string, error) {
	for {
		line, err := l.read(ctx, f.prompt)
		if err != nil {
			return "", err
		}
		if validation.IsExitToken(line) {
			return "", errExit
		}
		v, err := validation.ValidateInput(line, validation.MinInputLength)
		switch {
		case errors.Is(err, validation.ErrInputEmpty):
			fmt.Fprintln(l.out, f.empty)
		case errors.Is(err, validation.ErrInputTooShort):
			fmt.Fprintln(l.out, f.tooShort)
		default:
			return v, nil
		}
	}
}

// offerRetry reports a weather failure and asks whether to start over. Only an
// affirmative answer retries; exit tokens yield errExit.
func (l *Loop) offerRetry(ctx context.Context, cause error) (bool, error) {
	fmt.Fprintf(l.out, "\n❌ Weather API Error: %s\n", cause)
	fmt.Fprintln(l.out, "   Please check your city name and try again.")
	line, err := l.read(ctx, retryPrompt)
	if err != nil {
		return false, err
	}
	if validation.IsExitToken(line) {
		return false, errExit
	}
	return validation.IsAffirmative(line), nil
}

func (l *Loop) askContinue(ctx context.Context) (bool, error) {
	for {
		line, err := l.read(ctx, continuePrompt)
		if err != nil {
			return false, err
		}
		switch {
		case validation.IsAffirmative(line):
			return true, nil
		case validation.IsNegative(line):
			return false, nil
		}
		fmt.Fprintln(l.out, "⚠️  Please enter 'yes' or 'no'.")
	}
}

// stop maps a loop-terminating error to an exit status. Interrupts and explicit
// exits succeed; anything else went through no taxonomy and is unexpected.
func (l *Loop) stop(ctx context.Context, err error) int {
	switch {
	case ctx.Err() != nil:
		observability.RecordRecommendation(outcomeInterrupted)
		l.logger.Info("interrupted", zap.Error(ctx.Err()))
		fmt.Fprint(l.out, interrupted)
		return ExitSuccess
	case errors.Is(err, errExit):
		fmt.Fprint(l.out, goodbye)
		return ExitSuccess
	}
	return l.unexpected(err)
}

func (l *Loop) unexpected(err error) int {
	observability.RecordRecommendation(outcomeUnexpected)
	l.logger.Error("unexpected error", zap.Error(err))
	fmt.Fprintf(l.out, "\n❌ Unexpected error: %s\n", err)
	fmt.Fprintln(l.out, "   Please try again or contact support if the issue persists.")
	return ExitFailure
}
