package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/hotjar/config"
	"github.com/s0up4200/hotjar/filter"
	"github.com/s0up4200/hotjar/hotjar"
)

var (
	cfgFile      string
	outputFormat string
	cfg          *config.Config
	logger       zerolog.Logger
	client       *hotjar.Client
	filters      *filter.Manager

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hotjar",
	Short: "A command line client for the Hotjar insights API",
	Long: `hotjar logs in to Hotjar with the credentials from your config file and
prints account info, site statistics, feedback widgets, feedback responses
and sentiment data as JSON or YAML.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the build information reported by the version command
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: json or yaml (default from config)")
}

// loadConfig loads the configuration and sets up logging
func loadConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("output") {
		if err := config.ValidateOutputFormat(outputFormat); err != nil {
			return err
		}
		cfg.Output.Format = outputFormat
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// initializeApp loads the configuration and logs in to hotjar
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Feedback.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	var err error
	client, err = hotjar.NewClient(cmd.Context(), hotjar.Credentials{
		Email:    cfg.Hotjar.Email,
		Password: cfg.Hotjar.Password,
	}, logger,
		hotjar.WithBaseURL(cfg.Hotjar.BaseURL),
		hotjar.WithUserAgent(cfg.Hotjar.UserAgent),
		hotjar.WithTimeout(cfg.Hotjar.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to log in to hotjar: %w", err)
	}

	logger.Debug().Int64("user_id", client.UserID()).Msg("Hotjar session established")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colour only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
