package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/config"
	"github.com/andrewpaige1/flashcards-web/models"
	"github.com/andrewpaige1/flashcards-web/preview"
)

// cliSessionKey is the single preview slot the CLI keeps.
const cliSessionKey = "cli"

type app struct {
	db       *gorm.DB
	client   *api.Client
	previews *preview.Orchestrator
}

func newApp() (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path := storePath
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache dir: %w", err)
		}
		path = filepath.Join(dir, "flashcards", "preview.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}

	db, err := config.Open(sqlite.Open(path), false)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(apiURL, api.WithLogger(logger.Named("api")))
	return &app{
		db:       db,
		client:   client,
		previews: preview.NewOrchestrator(client, preview.NewGormStore(db, logger.Named("store")), logger.Named("preview")),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// commandContext carries the bearer token for API calls.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if token != "" {
		ctx = api.ContextWithToken(ctx, token)
	}
	return ctx
}

// loadMedia reads a file for upload, guessing its type from the name.
func loadMedia(path string) (*models.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return &models.Media{Name: name, MIMEType: capture.DetectMIME(name, data), Data: data}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
