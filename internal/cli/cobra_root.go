package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"timeclock/internal/api"
	"timeclock/internal/config"
	"timeclock/internal/logging"
)

// APIFactory builds the business API for a loaded configuration. The
// returned function releases whatever the API holds open.
type APIFactory func(cfg *config.Config, logger *slog.Logger) (api.BusinessAPI, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	factory APIFactory

	app    *App
	closer func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, factory APIFactory) *RootCommand {
	root := &RootCommand{
		loader:  loader,
		factory: factory,
	}

	root.cmd = &cobra.Command{
		Use:   "tc",
		Short: "A staff time clock for shift work",
		Long: `Time Clock (tc) records clock-in, clock-out and break punches for shop staff
and turns them into worked minutes, pay and daily rosters.

FEATURES:
  • Punch 出勤 / 退勤 / 休憩開始 / 休憩終了 with a per-shift position
  • Reject punches that break the clock-in, break, clock-out sequence
  • Daily roster clipped to business hours, confirmed or live
  • Worked minutes and pay for today, this month and this year
  • Import staff registers and punch logs from .xlsx and .xls files
  • JSON HTTP API for terminals and dashboards

EXAMPLES:
  tc employee add E001 山田 --wage 1200     # Register an employee
  tc punch E001 出勤 --position レジ          # Clock in at the register
  tc punch E001 休憩開始                      # Start a break
  tc status E001                             # Show state and allowed next punches
  tc history E001 --days 7                   # Punch history for the last week
  tc summary E001 --live                     # Totals including the open shift
  tc roster --date 2024-03-05                # Roster for a day
  tc admin                                   # Store-wide summary for today
  tc import march.xlsx staff.xlsx            # Import spreadsheets
  tc serve --addr :8080                      # Run the HTTP API

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

  Database Configuration:
    TC_DB_DIR                              Database directory (default: ~/.tc)
    TC_DB_FILENAME                         Database filename (default: tc.db)
    TC_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    TC_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Clock Configuration:
    TC_TIMEZONE                            Zone punches are recorded in (default: Asia/Tokyo)
    TC_OPEN                                Business hours open (default: 09:00)
    TC_CLOSE                               Business hours close (default: 22:00)

  Punch Configuration:
    TC_DEFAULT_POSITION                    Position when a clock-in names none (default: レジ)
    TC_HISTORY_DAYS                        History window in days (default: 30)

  Payroll Configuration:
    TC_DEFAULT_WAGE                        Hourly wage for employees without one (default: 0)
    TC_ANNUAL_INCOME_LIMIT                 Annual income limit (default: 1500000)

  Cache Configuration:
    TC_ROSTER_TTL                          Confirmed roster cache lifetime (default: 5m)
    TC_ROSTER_SIZE                         Number of cached roster days (default: 64)

  Application Configuration:
    TC_ADDR                                HTTP listen address (default: :8080)
    TC_APP_TIMEOUT                         Application timeout (default: 60s)
    TC_APP_VERBOSE                         Enable verbose output (default: false)
    TC_LOG_LEVEL                           debug, info, warn or error (default: info)
    TC_LOG_FORMAT                          text or json (default: text)

DATES:
  Dates accept 2024-03-05, 2024/3/5 and 2024.3.5. An empty date means today.

GETTING HELP:
  tc [command] --help                      # Get help for any specific command
  tc completion bash                       # Generate bash completion script
  tc completion zsh                        # Generate zsh completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.close()
		},
	}

	// Add global flags for configuration overrides
	root.addGlobalFlags()

	// Add all subcommands
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if cerr := r.close(); err == nil {
		err = cerr
	}
	return err
}

// SetArgs sets the arguments, mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects both command output and logs
func (r *RootCommand) SetOutput(out, errOut io.Writer) {
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

func (r *RootCommand) close() error {
	if r.closer == nil {
		return nil
	}
	closer := r.closer
	r.closer = nil
	return closer()
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TC_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TC_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TC_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TC_DB_WRITE_TIMEOUT)")

	// Clock configuration
	flags.String("timezone", "", "Time zone (overrides TC_TIMEZONE)")
	flags.String("open", "", "Business hours open, HH:MM (overrides TC_OPEN)")
	flags.String("close", "", "Business hours close, HH:MM (overrides TC_CLOSE)")

	// Punch configuration
	flags.String("default-position", "", "Default position (overrides TC_DEFAULT_POSITION)")
	flags.Int("history-days", 0, "History window in days (overrides TC_HISTORY_DAYS)")

	// Payroll configuration
	flags.Int64("default-wage", 0, "Default hourly wage (overrides TC_DEFAULT_WAGE)")
	flags.Int64("annual-income-limit", 0, "Annual income limit (overrides TC_ANNUAL_INCOME_LIMIT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TC_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TC_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TC_LOG_LEVEL)")
	flags.String("log-format", "", "Log format, text or json (overrides TC_LOG_FORMAT)")
}

// overridesFromFlags collects the flags the user actually set
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		o.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		o.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		o.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		o.DBWriteTimeout = &v
	}
	if flags.Changed("timezone") {
		v, _ := flags.GetString("timezone")
		o.TimeZone = &v
	}
	if flags.Changed("open") {
		v, _ := flags.GetString("open")
		o.Open = &v
	}
	if flags.Changed("close") {
		v, _ := flags.GetString("close")
		o.Close = &v
	}
	if flags.Changed("default-position") {
		v, _ := flags.GetString("default-position")
		o.DefaultPosition = &v
	}
	if flags.Changed("history-days") {
		v, _ := flags.GetInt("history-days")
		o.HistoryDays = &v
	}
	if flags.Changed("default-wage") {
		v, _ := flags.GetInt64("default-wage")
		o.DefaultHourlyWage = &v
	}
	if flags.Changed("annual-income-limit") {
		v, _ := flags.GetInt64("annual-income-limit")
		o.AnnualIncomeLimit = &v
	}
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		o.Addr = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		o.LogFormat = &v
	}
	return o
}

// setup loads configuration, builds the logger and opens the business API.
// It runs once per invocation, only for commands that need the API.
func (r *RootCommand) setup(cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}

	cfg, err := r.loader.LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return nil, err
	}

	level := cfg.Application.LogLevel
	if cfg.Application.Verbose {
		level = "debug"
	}
	logger, levelVar, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Application.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	businessAPI, closer, err := r.factory(cfg, logger)
	if err != nil {
		return nil, err
	}
	r.closer = closer

	app := NewAppWithConfig(businessAPI, cfg)
	app.SetOutput(cmd.OutOrStdout())
	app.SetLogger(logger, levelVar)
	r.app = app
	logger.Debug("configuration loaded", "db", cfg.GetDatabasePath(), "timezone", cfg.Clock.TimeZone)
	return app, nil
}

// executor is satisfied by every command handler
type executor interface {
	Execute(ctx context.Context, args []string) error
}

// run wraps a handler constructor into a cobra RunE bounded by the app timeout
func (r *RootCommand) run(build func(app *App) executor) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := r.setup(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), getAppTimeout(app.config))
		defer cancel()
		ctx = logging.ContextWithLogger(ctx, app.logger.With("command", cmd.CommandPath()))

		return build(app).Execute(ctx, args)
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Employee commands
	employeeCmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the employee register",
	}

	var wage int64
	employeeAddCmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register an employee",
		Long: `Register an employee. The id must not already be registered.

Examples:
  tc employee add E001 山田 --wage 1200
  tc employee add E002 佐藤`,
		Args: cobra.ExactArgs(2),
		RunE: r.run(func(app *App) executor {
			c := NewEmployeeAddCommand(app)
			c.Wage = wage
			return c
		}),
	}
	employeeAddCmd.Flags().Int64Var(&wage, "wage", 0, "Hourly wage; 0 means the default wage applies")

	employeeListCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered employees",
		Args:  cobra.NoArgs,
		RunE: r.run(func(app *App) executor {
			return NewEmployeeListCommand(app)
		}),
	}

	employeeRemoveCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an employee from the register",
		Long: `Remove an employee from the register. Their recorded punches are kept
and still show up in history and rosters.`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(app *App) executor {
			return NewEmployeeRemoveCommand(app)
		}),
	}
	employeeCmd.AddCommand(employeeAddCmd, employeeListCmd, employeeRemoveCmd)

	// Punch command
	var position, name string
	punchCmd := &cobra.Command{
		Use:   "punch <employee-id> <type>",
		Short: "Record a punch",
		Long: `Record a punch for an employee.

Types are 出勤, 退勤, 休憩開始 and 休憩終了. A punch that does not follow
the previous one today is rejected with the punches that are allowed.
Positions are レジ, ドリンカー, フライヤー and バーガー.

Examples:
  tc punch E001 出勤 --position ドリンカー
  tc punch E001 退勤 --position ドリンカー
  tc punch T100 出勤 --name 臨時             # Unregistered staff must give a name`,
		Args: cobra.ExactArgs(2),
		RunE: r.run(func(app *App) executor {
			c := NewPunchCommand(app)
			c.Position = position
			c.Name = name
			return c
		}),
	}
	punchCmd.Flags().StringVarP(&position, "position", "p", "", "Position worked")
	punchCmd.Flags().StringVar(&name, "name", "", "Display name for an unregistered employee")

	// Status command
	statusCmd := &cobra.Command{
		Use:   "status <employee-id>",
		Short: "Show today's punch state",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(app *App) executor {
			return NewStatusCommand(app)
		}),
	}

	// History command
	var historyDays int
	var historyFrom, historyTo string
	var historyJSON bool
	historyCmd := &cobra.Command{
		Use:   "history <employee-id>",
		Short: "Show punch history",
		Long: `Show an employee's punches newest first, with the time each punch
started or ended.

Examples:
  tc history E001                            # Default window (TC_HISTORY_DAYS)
  tc history E001 --days 7
  tc history E001 --from 2024-02-01 --to 2024-02-29`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(app *App) executor {
			c := NewHistoryCommand(app)
			c.Days = historyDays
			c.From = historyFrom
			c.To = historyTo
			c.JSON = historyJSON
			return c
		}),
	}
	historyCmd.Flags().IntVar(&historyDays, "days", 0, "Number of days back from today")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "First day to include")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "Last day to include")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print JSON")

	// Summary command
	var period string
	var summaryLive, summaryJSON bool
	summaryCmd := &cobra.Command{
		Use:   "summary <employee-id>",
		Short: "Show worked time and pay",
		Long: `Show worked time and pay for today, this month and this year.

Confirmed totals count only days with a clock-out. --live also counts the
shift in progress up to now.

Examples:
  tc summary E001
  tc summary E001 --period month --live`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(app *App) executor {
			c := NewSummaryCommand(app)
			c.Period = period
			c.Live = summaryLive
			c.JSON = summaryJSON
			return c
		}),
	}
	summaryCmd.Flags().StringVar(&period, "period", "", "Only one period: today, month or year")
	summaryCmd.Flags().BoolVar(&summaryLive, "live", false, "Include open shifts up to now")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print JSON")

	// Roster command
	var rosterDate string
	var rosterLive, rosterJSON bool
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Show the day's roster",
		Long: `Show every employee's work and break segments for a day, clipped to
business hours. Open segments are marked with *.`,
		Args: cobra.NoArgs,
		RunE: r.run(func(app *App) executor {
			c := NewRosterCommand(app)
			c.Date = rosterDate
			c.Live = rosterLive
			c.JSON = rosterJSON
			return c
		}),
	}
	rosterCmd.Flags().StringVar(&rosterDate, "date", "", "Day to show (default today)")
	rosterCmd.Flags().BoolVar(&rosterLive, "live", false, "Extend open segments up to now")
	rosterCmd.Flags().BoolVar(&rosterJSON, "json", false, "Print JSON")

	// Admin command
	var adminDate string
	var adminJSON bool
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Show the store-wide day summary",
		Args:  cobra.NoArgs,
		RunE: r.run(func(app *App) executor {
			c := NewAdminCommand(app)
			c.Date = adminDate
			c.JSON = adminJSON
			return c
		}),
	}
	adminCmd.Flags().StringVar(&adminDate, "date", "", "Day to summarize (default today)")
	adminCmd.Flags().BoolVar(&adminJSON, "json", false, "Print JSON")

	// Import command
	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import spreadsheets",
		Long: `Import .xlsx or .xls files. A sheet with id and name columns is an
employee register; a sheet with employee id, date, time and type columns
is a punch log. Both English and Japanese headers are recognized.`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run(func(app *App) executor {
			return NewImportCommand(app)
		}),
	}

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.setup(cmd)
			if err != nil {
				return err
			}
			// the server runs until interrupted, not for the app timeout
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return NewServeCommand(app).Execute(ctx, args)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides TC_ADDR)")

	// Add all subcommands to root
	r.cmd.AddCommand(
		employeeCmd,
		punchCmd,
		statusCmd,
		historyCmd,
		summaryCmd,
		rosterCmd,
		adminCmd,
		importCmd,
		serveCmd,
	)
}

// getAppTimeout returns the configured application timeout
func getAppTimeout(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.Application.Timeout > 0 {
		return cfg.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}
