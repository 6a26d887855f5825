package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/auth"
	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/export"
	"github.com/arnavshah/duty-roster-go/pkg/logging"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/roster"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/arnavshah/duty-roster-go/pkg/staffio"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	configPath string
	verbose    bool
	app        *App
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Duty roster CLI - generate rosters from a staff table",
		Long:  `A CLI tool for generating duty rosters, listing working days and preparing the shared login credential.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a roster config (defaults to the built-in one)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log allocation details")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(workingDaysCmd())
	rootCmd.AddCommand(hashCredentialCmd())

	return rootCmd
}

// initApp sets up logger and config
func initApp() error {
	_ = godotenv.Load(".env")

	app = &App{logger: zap.NewNop()}
	if verbose {
		app.logger = logging.NewConsole()
	}

	if configPath == "" {
		configPath = os.Getenv("ROSTER_CONFIG")
	}

	var err error
	app.cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded", zap.String("path", configPath))

	return nil
}

func generateCmd() *cobra.Command {
	var (
		staffPath string
		startRaw  string
		endRaw    string
		outPath   string
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a roster from a staff table (xlsx or csv)",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := config.ParseDate(startRaw)
			if err != nil {
				return fmt.Errorf("start must be YYYY-MM-DD: %w", err)
			}
			end, err := config.ParseDate(endRaw)
			if err != nil {
				return fmt.Errorf("end must be YYYY-MM-DD: %w", err)
			}

			f, err := os.Open(staffPath)
			if err != nil {
				return fmt.Errorf("failed to open staff file: %w", err)
			}
			defer f.Close()

			res, err := staffio.Parse(staffPath, f)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "row %d skipped: %s\n", w.Row, w.Message)
			}

			opts := roster.GenerateOptions{}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			store := roster.NewStore(app.cfg, app.logger)
			r, err := store.Generate(res.Staff, start, end, opts)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), r)

			if outPath == "" {
				return nil
			}
			return writeRoster(cmd.OutOrStdout(), outPath, r, app.cfg)
		},
	}

	cmd.Flags().StringVarP(&staffPath, "staff", "s", "", "Staff table (.xlsx or .csv)")
	cmd.Flags().StringVar(&startRaw, "start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endRaw, "end", "", "Last date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the roster to this .xlsx or .csv file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the tie-break shuffle")
	cmd.MarkFlagRequired("staff")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

func printSummary(w io.Writer, r *models.Roster) {
	fmt.Fprintf(w, "\nRoster %s (%s to %s)\n", r.RunID, r.StartDate, r.EndDate)
	fmt.Fprintf(w, "Working days:  %d\n", len(r.WorkingDates))
	fmt.Fprintf(w, "Assignments:   %d\n", len(r.Assignments))
	fmt.Fprintf(w, "Fairness:      %.3f\n\n", r.FairnessScore)

	for _, t := range export.Totals(r) {
		fmt.Fprintf(w, "  %-12s %3d\n", t.Name, t.WorkCount)
	}

	if len(r.Shortfalls) > 0 {
		fmt.Fprintf(w, "\n%d slots could not be filled:\n", len(r.Shortfalls))
		for _, sf := range r.Shortfalls {
			fmt.Fprintf(w, "  %s %s/%s missing %d: %s\n",
				sf.Date, sf.Campus, sf.Location, sf.Missing, strings.Join(sf.Reasons, "; "))
		}
	}
	for _, sk := range r.SkippedFixed {
		fmt.Fprintf(w, "  fixed date %q of %s skipped: %s\n", sk.Token, sk.StaffName, sk.Reason)
	}
	for _, of := range r.Overfills {
		fmt.Fprintf(w, "  %s %s/%s holds %d fixed staff for %d places\n", of.Date, of.Campus, of.Location, of.Fixed, of.Required)
	}
	fmt.Fprintln(w)
}

func writeRoster(w io.Writer, path string, r *models.Roster, cfg *config.Config) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return fmt.Errorf("unsupported output %q: want .xlsx or .csv", path)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	if ext == ".xlsx" {
		err = export.WriteXLSX(out, r, cfg)
	} else {
		err = export.WriteCSV(out, r)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Written to %s\n", path)
	return nil
}

func workingDaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "working-days <start> <end>",
		Short: "List working days in a range after weekends and holidays",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := config.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("start must be YYYY-MM-DD: %w", err)
			}
			end, err := config.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("end must be YYYY-MM-DD: %w", err)
			}

			days, err := scheduler.WorkingDates(start, end, app.cfg.Recurrence(), app.cfg.HolidaySet())
			if err != nil {
				return err
			}

			for _, d := range days {
				fmt.Fprintln(cmd.OutOrStdout(), d.Format("2006-01-02 (Mon)"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d working days\n", len(days))
			return nil
		},
	}
}

func hashCredentialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-credential [password]",
		Short: "Print a bcrypt hash for ROSTER_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) > 0 {
				password = args[0]
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ROSTER_PASSWORD_HASH=%s\n", hash)
			return nil
		},
	}
}
