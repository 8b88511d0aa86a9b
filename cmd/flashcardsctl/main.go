// Command flashcardsctl drives the flashcard API from a terminal: AI
// previews with feedback and confirmation, transcription, decks and study.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/config"
)

var (
	logger *zap.Logger

	apiURL    string
	token     string
	storePath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "flashcardsctl",
	Short: "Create and review AI-generated flashcards",
	Long: `flashcardsctl talks to the flashcard API with your access token.

Set FLASHCARDS_TOKEN (or pass --token) and optionally API_BASE_URL.
The preview in progress is kept locally between commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = config.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		if !verbose {
			logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
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
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("API_BASE_URL", api.DefaultBaseURL), "flashcard API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("FLASHCARDS_TOKEN"), "bearer token for the API")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "preview store file (default: user cache dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests")

	rootCmd.AddCommand(previewCmd, recordCmd, transcribeCmd, decksCmd, generateCmd, studyCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	// Flag defaults were read before .env was loaded.
	if apiURL == api.DefaultBaseURL {
		apiURL = envOr("API_BASE_URL", api.DefaultBaseURL)
	}
	if token == "" {
		token = os.Getenv("FLASHCARDS_TOKEN")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
