package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timestrap/internal/config"
	"timestrap/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	app    *App
	out    io.Writer
	logOut io.Writer
}

// NewRootCommand creates the root cobra command with global flags. Command output goes
// to out and logs go to stderr.
func NewRootCommand(out io.Writer) *RootCommand {
	return newRootCommand(out, os.Stderr, nil)
}

// NewRootCommandWithApp creates a root command that runs every subcommand against app
// instead of loading configuration
func NewRootCommandWithApp(app *App) *RootCommand {
	return newRootCommand(app.out, io.Discard, app)
}

func newRootCommand(out, logOut io.Writer, app *App) *RootCommand {
	if out == nil {
		out = os.Stdout
	}
	root := &RootCommand{
		loader: config.NewLoader(),
		app:    app,
		out:    out,
		logOut: logOut,
	}

	root.cmd = &cobra.Command{
		Use:   "timestrap",
		Short: "Employee timesheet tracking server and client",
		Long: `timestrap records the work employees do against a shift target, stores it
in a SQL database and delivers submitted timesheets by email.

EXAMPLES:
  timestrap serve                              # Run the HTTP API on :5000
  timestrap seed --file seed.yaml              # Register employees and projects
  timestrap sheet total day.yaml               # Show the total of a sheet file
  timestrap sheet submit day.yaml --wait 1m    # Save every task and submit the day
  timestrap summary E001 2024-05-01            # Stored work of one employee
  timestrap export excel work_logs             # Write work_logs.xlsx

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment
  variables > config file > defaults. Every key can be set from the environment
  with the TIMESTRAP_ prefix, e.g.:
    TIMESTRAP_DATABASE_DRIVER          sqlite or postgres (default: sqlite)
    TIMESTRAP_DATABASE_DSN             Connection string (default: ~/.timestrap/timestrap.db)
    TIMESTRAP_SERVER_ADDR              Listen address (default: :5000)
    TIMESTRAP_SERVER_REQUIRE_AUTH      Require a login token on writes (default: false)
    TIMESTRAP_AUTH_JWT_SECRET          Token signing secret
    TIMESTRAP_MAIL_PROVIDER            log or resend (default: log)
    TIMESTRAP_MAIL_RESEND_API_KEY      Resend API key
    TIMESTRAP_OUTBOX_MAX_RETRIES       Save attempts per task (default: 5)
    TIMESTRAP_LOGGING_LEVEL            Log level (default: info)
    TIMESTRAP_CLIENT_SERVER_URL        Server used by sheet submit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.app.Close()
		},
	}
	root.cmd.SetOut(out)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the process arguments
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags and binds them to config keys
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML configuration file")

	flags.String("db-driver", "", "Database driver, sqlite or postgres (overrides TIMESTRAP_DATABASE_DRIVER)")
	flags.String("db-dsn", "", "Database connection string (overrides TIMESTRAP_DATABASE_DSN)")
	flags.String("db-dir", "", "SQLite database directory (overrides TIMESTRAP_DATABASE_DIR)")

	flags.String("log-level", "", "Log level (overrides TIMESTRAP_LOGGING_LEVEL)")
	flags.String("log-format", "", "Log format, console or json (overrides TIMESTRAP_LOGGING_FORMAT)")

	flags.String("addr", "", "Server listen address (overrides TIMESTRAP_SERVER_ADDR)")
	flags.Bool("require-auth", false, "Require a login token on writes (overrides TIMESTRAP_SERVER_REQUIRE_AUTH)")
	flags.String("server", "", "Server URL for client commands (overrides TIMESTRAP_CLIENT_SERVER_URL)")

	bindings := map[string]string{
		"db-driver":    "database.driver",
		"db-dsn":       "database.dsn",
		"db-dir":       "database.dir",
		"log-level":    "logging.level",
		"log-format":   "logging.format",
		"addr":         "server.addr",
		"require-auth": "server.require_auth",
		"server":       "client.server_url",
	}
	for name, key := range bindings {
		// Only fails for a missing flag, which the declarations above rule out.
		_ = r.loader.BindFlag(key, flags.Lookup(name))
	}
}

// setup loads configuration, installs the logger and creates the app
func (r *RootCommand) setup() error {
	if r.app != nil {
		return nil
	}

	if path, _ := r.cmd.PersistentFlags().GetString("config"); path != "" {
		r.loader.SetConfigFile(path)
	}
	cfg, err := r.loader.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, r.logOut); err != nil {
		return err
	}

	r.app = NewApp(cfg, r.out, logging.Component("cli"))
	return nil
}

func (r *RootCommand) run(newHandler func(*App) Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return newHandler(r.app).Execute(cmd.Context(), args)
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API until interrupted, then shut down gracefully.",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(a *App) Command { return NewServeCommand(a) }),
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, revert or list schema migrations",
		Long:      "Apply pending migrations (up, the default), revert the latest one (down) or list them (status).",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE:      r.run(func(a *App) Command { return NewMigrateCommand(a) }),
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed --file seed.yaml",
		Short: "Register employees and projects from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewSeedCommand(r.app).Execute(cmd.Context(), []string{seedFile})
		},
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Seed file")

	shiftsCmd := &cobra.Command{
		Use:   "shifts",
		Short: "List the shifts and their targets",
		Args:  cobra.NoArgs,
		RunE:  r.run(func(a *App) Command { return NewShiftsCommand(a) }),
	}

	var listDate string
	listCmd := &cobra.Command{
		Use:   "list [EMPLOYEE_ID]",
		Short: "List stored work logs",
		Long: `List stored work logs, optionally for one employee and one date.

Examples:
  timestrap list                          # Every work log
  timestrap list E001 --date 2024-05-01   # One employee on one day`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewListCommand(r.app)
			handler.Date = listDate
			return handler.Execute(cmd.Context(), args)
		},
	}
	listCmd.Flags().StringVar(&listDate, "date", "", "Only work logs of this date (YYYY-MM-DD)")

	var summaryShift string
	summaryCmd := &cobra.Command{
		Use:   "summary EMPLOYEE_ID [DATE]",
		Short: "Show the day total of an employee against a shift",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewSummaryCommand(r.app)
			if summaryShift != "" {
				handler.Shift = summaryShift
			}
			return handler.Execute(cmd.Context(), args)
		},
	}
	summaryCmd.Flags().StringVar(&summaryShift, "shift", "", "Shift to measure against (4hr, 8hr or 12hr)")

	deleteCmd := &cobra.Command{
		Use:   "delete WORKLOG_ID",
		Short: "Delete a work log and all its time entries",
		Long:  "Delete a work log and all its associated time entries. This operation cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(func(a *App) Command { return NewDeleteCommand(a) }),
	}

	r.cmd.AddCommand(
		serveCmd,
		migrateCmd,
		seedCmd,
		shiftsCmd,
		listCmd,
		summaryCmd,
		deleteCmd,
		r.exportCommand(),
		r.sheetCommand(),
	)
}

func (r *RootCommand) exportCommand() *cobra.Command {
	var out string
	handler := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			h := NewExportCommand(r.app)
			h.Out = out
			return h.Execute(cmd.Context(), append([]string{action}, args...))
		}
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored data or a sheet file",
	}
	exportCmd.PersistentFlags().StringVar(&out, "out", "", "Output file")
	exportCmd.AddCommand(
		&cobra.Command{
			Use:   "excel [TABLE]",
			Short: "Write an xlsx workbook of one table or all of them",
			Long:  "Write an xlsx workbook. TABLE is one of all, employees, projects, work_logs, time_entries.",
			Args:  cobra.MaximumNArgs(1),
			RunE:  handler("excel"),
		},
		&cobra.Command{
			Use:   "email ADDRESS",
			Short: "Email the work logs workbook",
			Args:  cobra.ExactArgs(1),
			RunE:  handler("email"),
		},
		&cobra.Command{
			Use:   "pdf SHEET_FILE",
			Short: "Render a sheet file as a PDF timesheet",
			Args:  cobra.ExactArgs(1),
			RunE:  handler("pdf"),
		},
	)
	return exportCmd
}

func (r *RootCommand) sheetCommand() *cobra.Command {
	var wait time.Duration
	var interval time.Duration
	var local bool
	handler := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			h := NewSheetCommand(r.app)
			h.Wait = wait
			h.Local = local
			if interval > 0 {
				h.Interval = interval
			}
			return h.Execute(cmd.Context(), append([]string{action}, args...))
		}
	}

	sheetCmd := &cobra.Command{
		Use:   "sheet",
		Short: "Work with a YAML sheet file",
		Long: `Work with a YAML sheet file describing one employee's day:

  employee:
    id: E001
    name: Jane Doe
  date: 2024-05-01
  shift: 8hr
  tasks:
    - project: Billing
      title: Invoice export
      entries:
        - start: 2024-05-01T09:00:00Z
          end: 2024-05-01T17:00:00Z`,
	}

	submitCmd := &cobra.Command{
		Use:   "submit FILE",
		Short: "Save every task and submit the day",
		Long: `Save every task of the file, then submit the timesheet. Tasks are sent to the
server named by --server unless --local is given. Tasks that fail with a transient
error are retried with backoff for up to --wait.`,
		Args: cobra.ExactArgs(1),
		RunE: handler("submit"),
	}
	submitCmd.Flags().DurationVar(&wait, "wait", 0, "How long to keep retrying failed saves")
	submitCmd.Flags().BoolVar(&local, "local", false, "Save through the configured database instead of a server")

	recordCmd := &cobra.Command{
		Use:   "record FILE",
		Short: "Record time until interrupted and append it to the file",
		Args:  cobra.ExactArgs(1),
		RunE:  handler("record"),
	}
	recordCmd.Flags().DurationVar(&interval, "interval", time.Second, "Progress refresh interval")

	sheetCmd.AddCommand(
		&cobra.Command{
			Use:   "total FILE",
			Short: "Show per-task and day totals",
			Args:  cobra.ExactArgs(1),
			RunE:  handler("total"),
		},
		submitCmd,
		recordCmd,
	)
	return sheetCmd
}
