package cli

import (
	"context"

	"timeclock/internal/httpapi"
)

// ServeCommand runs the JSON API until the context is cancelled
type ServeCommand struct {
	app *App

	Addr string
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	addr := ""
	if app.config != nil {
		addr = app.config.Server.Addr
	}
	return &ServeCommand{app: app, Addr: addr}
}

// Execute runs the HTTP server
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	router := httpapi.NewRouter(c.app.businessAPI, httpapi.Options{
		Logger:   c.app.logger,
		LevelVar: c.app.levelVar,
	})
	return httpapi.Serve(ctx, c.Addr, router, c.app.logger)
}
