// Package admin implements punchclock-admin, the operator tool that prepares
// the store and reads attendance data without going through the gRPC API.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/logging"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	"github.com/dmitrijs2005/punchclock/internal/server/config"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchclock/internal/server/seed"
	"github.com/dmitrijs2005/punchclock/internal/server/services"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"github.com/spf13/cobra"
)

// Seams for tests.
var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

// operator is the identity admin commands act as. Its id matches no account.
var operator = auth.Identity{UserID: -1, Role: common.RoleAdmin}

type options struct {
	dsn      string
	location string
	logLevel string
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg    *config.Config
	log    logging.Logger
	db     *sql.DB
	rm     repomanager.RepositoryManager
	stdout io.Writer
}

func (o *options) open(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	if o.dsn != "" {
		cfg.DatabaseDSN = o.dsn
	}
	cfg.Location = o.location
	cfg.LogLevel = o.logLevel

	log, err := logging.New(cmd.ErrOrStderr(), "text", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &env{cfg: cfg, log: log, db: db, rm: newRepoManager(), stdout: cmd.OutOrStdout()}, nil
}

func (e *env) close() {
	_ = e.db.Close()
}

// NewRootCommand builds the punchclock-admin command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "punchclock-admin",
		Short:         "Operator tool for the punchclock store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&o.dsn, "dsn", os.Getenv("DATABASE_DSN"), "PostgreSQL DSN (defaults to $DATABASE_DSN)")
	root.PersistentFlags().StringVar(&o.location, "location", "Local", "IANA zone that defines calendar days")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		migrateCmd(o),
		seedCmd(o),
		complianceCmd(o),
		openDaysCmd(o),
	)
	return root
}

func migrateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := o.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.rm.RunMigrations(ctx, e.db); err != nil {
				return fmt.Errorf("migration error: %w", err)
			}
			e.log.Info(ctx, "migrations applied")
			return nil
		},
	}
}

func seedCmd(o *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load schedule plans and users from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.LoadFile(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := o.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			res, err := seed.Apply(ctx, e.db, e.rm, f)
			if err != nil {
				return err
			}
			e.log.Info(ctx, "seed applied", "plans", res.Plans, "users", res.Users)
			fmt.Fprintf(e.stdout, "%d plans, %d users\n", res.Plans, res.Users)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Seed file (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// rangeFlags are shared by the read commands.
type rangeFlags struct {
	user     int64
	from, to string
}

func (r *rangeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&r.user, "user", 0, "User id")
	cmd.Flags().StringVar(&r.from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&r.to, "to", "", "Last day, YYYY-MM-DD (defaults to --from)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
}

func (r *rangeFlags) parse() (timex.Date, timex.Date, error) {
	if r.user <= 0 {
		return timex.Date{}, timex.Date{}, fmt.Errorf("%w: --user must be positive", common.ErrInvalidInput)
	}
	from, err := timex.ParseDate(r.from)
	if err != nil {
		return timex.Date{}, timex.Date{}, fmt.Errorf("%w: --from: %v", common.ErrInvalidInput, err)
	}
	if r.to == "" {
		return from, from, nil
	}
	to, err := timex.ParseDate(r.to)
	if err != nil {
		return timex.Date{}, timex.Date{}, fmt.Errorf("%w: --to: %v", common.ErrInvalidInput, err)
	}
	return from, to, nil
}

func (e *env) attendance() (*services.AttendanceService, error) {
	return services.NewAttendanceService(e.db, e.rm, e.cfg, e.log, nil)
}

func complianceCmd(o *options) *cobra.Command {
	r := &rangeFlags{}

	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Print the per-day compliance of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := r.parse()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := o.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.attendance()
			if err != nil {
				return err
			}
			target, verdicts, err := svc.GetCompliance(ctx, operator, r.user, from, to)
			if err != nil {
				return err
			}
			return WriteVerdicts(e.stdout, target, verdicts)
		},
	}
	r.bind(cmd)
	return cmd
}

func openDaysCmd(o *options) *cobra.Command {
	r := &rangeFlags{}

	cmd := &cobra.Command{
		Use:   "open-days",
		Short: "List days with a clock-in but no clock-out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := r.parse()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := o.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			svc, err := e.attendance()
			if err != nil {
				return err
			}
			_, days, err := svc.OpenDays(ctx, operator, r.user, from, to)
			if err != nil {
				return err
			}
			for _, d := range days {
				fmt.Fprintf(e.stdout, "%s\t%s\n", d, d.Weekday())
			}
			return nil
		},
	}
	r.bind(cmd)
	return cmd
}

// WriteVerdicts renders verdicts as an aligned table with a totals row.
func WriteVerdicts(w io.Writer, userID int64, verdicts []attendance.DailyVerdict) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "USER %d\n", userID)
	fmt.Fprintln(tw, "DATE\tWEEKDAY\tEXPECTED\tACTUAL\tWORK DAY\tCOMPLIANT")

	var expected, actual float64
	for _, v := range verdicts {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%t\t%t\n",
			v.Date, time.Weekday(v.DayOfWeek), v.ExpectedHours, v.ActualHours, v.IsWorkDay, v.Compliant)
		expected += v.ExpectedHours
		actual += v.ActualHours
	}
	fmt.Fprintf(tw, "TOTAL\t\t%.2f\t%.2f\t\t\n", expected, actual)
	return tw.Flush()
}
