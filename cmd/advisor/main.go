package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/irrigation-advisor/internal/advice"
	"github.com/kjstillabower/irrigation-advisor/internal/cli"
	"github.com/kjstillabower/irrigation-advisor/internal/config"
	"github.com/kjstillabower/irrigation-advisor/internal/observability"
	"github.com/kjstillabower/irrigation-advisor/internal/weather"
)

func main() {
	code := cli.ExitFailure
	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Irrigation advice from current weather and crop type",
		Long:          "Interactive assistant that looks up current weather for a city and asks a language model for irrigation advice for a crop.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			code = run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "advisor: %v\n", err)
		os.Exit(cli.ExitFailure)
	}
	os.Exit(code)
}

func run(in io.Reader, out io.Writer) int {
	cfg, cfgErr := config.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return cli.ExitFailure
	}

	if cfgErr == nil {
		cfgErr = cfg.Validate()
	}
	if cfgErr != nil {
		logger.Error("config", zap.Error(cfgErr))
		printSetupInstructions(out, cfgErr)
		_ = observability.FlushTelemetry(context.Background(), logger, "")
		return cli.ExitFailure
	}

	weatherClient, err := weather.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Error("weather client", zap.Error(err))
		printSetupInstructions(out, err)
		return cli.ExitFailure
	}
	weatherClient.SetLogger(logger)

	generator, err := advice.NewOpenAIGenerator(advice.Options{
		APIKey:      cfg.AdviceAPIKey,
		Model:       cfg.AdviceModel,
		BaseURL:     cfg.AdviceBaseURL,
		Timeout:     cfg.AdviceTimeout,
		MaxTokens:   cfg.AdviceMaxTokens,
		Temperature: cfg.AdviceTemperature,
	})
	if err != nil {
		logger.Error("advice generator", zap.Error(err))
		printSetupInstructions(out, err)
		return cli.ExitFailure
	}
	generator.SetLogger(logger)

	if cfg.RateLimitRPS > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		weatherClient.SetLimiter(limiter)
		generator.SetLimiter(limiter)
	}

	logger.Info("advisor starting",
		zap.String("model", cfg.AdviceModel),
		zap.Duration("weather_timeout", cfg.WeatherAPITimeout),
		zap.Duration("advice_timeout", cfg.AdviceTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(in, out, weatherClient, generator, logger).Run(ctx)
	stop()

	logger.Info("advisor exiting", zap.Int("code", code))
	if err := observability.FlushTelemetry(context.Background(), logger, cfg.MetricsTextfile); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry flush: %v\n", err)
	}
	return code
}

func printSetupInstructions(out io.Writer, err error) {
	fmt.Fprintln(out, "\n❌ Configuration Error:")
	fmt.Fprintf(out, "   %v\n", err)
	fmt.Fprintln(out, "\n📝 Setup Instructions:")
	fmt.Fprintln(out, "   1. Copy .env.example to .env")
	fmt.Fprintln(out, "   2. Add your API keys to the .env file")
	fmt.Fprintln(out, "   3. Get OpenWeatherMap API key: https://openweathermap.org/api")
	fmt.Fprintln(out, "   4. Get OpenAI API key: https://platform.openai.com/api-keys")
}
