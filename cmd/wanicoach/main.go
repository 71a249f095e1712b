package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wanicoach/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiToken   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "wanicoach",
	Short: "Gemini coaching for recently-studied WaniKani vocabulary",
	Long: `wanicoach pulls the vocabulary you studied on WaniKani during the last
N minutes and streams a Gemini critique of the practice sentences you write
for those words, showing the model's reasoning separately from its answer.

Credentials come from WANIKANI_API_TOKEN and GEMINI_API_KEY (or the config
file); no network call is attempted without them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		zapConfig.OutputPaths = []string{"stderr"}
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "wanicoach.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&apiToken, "api-token", "k", "", "WaniKani API token (or env WANIKANI_API_TOKEN)")

	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(statusCmd)
}

// loadConfig loads the config file and folds in flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiToken != "" {
		cfg.WaniKani.APIToken = apiToken
	}
	return cfg, nil
}

// statusCmd shows configured credentials and endpoints.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wanicoach configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("wanicoach status")
		fmt.Println("================")
		if cfg.WaniKani.APIToken != "" {
			fmt.Println("✓ WaniKani API token configured")
		} else {
			fmt.Println("✗ WaniKani API token not configured")
		}
		if cfg.Gemini.APIKey != "" {
			fmt.Println("✓ Gemini API key configured")
		} else {
			fmt.Println("✗ Gemini API key not configured")
		}
		fmt.Printf("  WaniKani endpoint: %s\n", cfg.WaniKani.BaseURL)
		fmt.Printf("  Model:             %s\n", cfg.Gemini.Model)
		fmt.Printf("  Look-back window:  %d minutes\n", cfg.WaniKani.Minutes)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
