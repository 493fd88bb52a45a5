package main

import (
	"fmt"
	"log/slog"
	"os"

	"timeclock/internal/api"
	"timeclock/internal/cli"
	"timeclock/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader(), openBusinessAPI)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openBusinessAPI opens the configured database and wires the services on top of it
func openBusinessAPI(cfg *config.Config, logger *slog.Logger) (api.BusinessAPI, func() error, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	businessAPI, err := api.New(repo, cfg, logger)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return businessAPI, repo.Close, nil
}
