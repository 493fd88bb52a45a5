package api

import (
	"log/slog"

	"timeclock/internal/config"
	"timeclock/internal/errors"
	"timeclock/internal/repository/sqlite"
	"timeclock/internal/services"
)

// SettingsFromConfig translates loaded configuration into service settings.
func SettingsFromConfig(cfg *config.Config, logger *slog.Logger) (services.Settings, error) {
	loc, err := cfg.Location()
	if err != nil {
		return services.Settings{}, errors.NewInvalidInputError("clock.time_zone", cfg.Clock.TimeZone, err.Error())
	}
	window, err := cfg.Window()
	if err != nil {
		return services.Settings{}, errors.NewValidationError("invalid business hours", err)
	}
	return services.Settings{
		Location:          loc,
		Window:            window,
		DefaultPosition:   cfg.Punch.DefaultPosition,
		HistoryDays:       cfg.Punch.HistoryDays,
		DefaultHourlyWage: cfg.Payroll.DefaultHourlyWage,
		AnnualIncomeLimit: cfg.Payroll.AnnualIncomeLimit,
		RosterTTL:         cfg.Cache.RosterTTL,
		RosterSize:        cfg.Cache.RosterSize,
		Logger:            logger,
	}, nil
}

// New creates a BusinessAPI over repo configured by cfg.
func New(repo sqlite.Repository, cfg *config.Config, logger *slog.Logger) (BusinessAPI, error) {
	settings, err := SettingsFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewBusinessAPI(services.NewServiceContainer(repo, settings), settings.Logger), nil
}
