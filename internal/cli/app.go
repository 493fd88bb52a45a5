package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"timeclock/internal/api"
	"timeclock/internal/config"
	"timeclock/internal/logging"
)

// App holds what every command handler needs
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	logger      *slog.Logger
	levelVar    *slog.LevelVar
	out         io.Writer
}

// NewApp creates a new CLI application instance with default configuration
func NewApp(businessAPI api.BusinessAPI) *App {
	return NewAppWithConfig(businessAPI, config.NewConfig())
}

// NewAppWithConfig creates a new CLI application instance
func NewAppWithConfig(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		logger:      logging.Discard(),
		out:         os.Stdout,
	}
}

// SetOutput redirects command output
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// SetLogger sets the logger and its level handle
func (a *App) SetLogger(logger *slog.Logger, levelVar *slog.LevelVar) {
	a.logger = logger
	a.levelVar = levelVar
}

func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
