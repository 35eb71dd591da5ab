package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/clients/sheetsclient"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
	"github.com/mlombardi/casa-rota/pkg/core/services"
	"github.com/mlombardi/casa-rota/pkg/postgres"
	"github.com/mlombardi/casa-rota/pkg/redisstore"
	"github.com/mlombardi/casa-rota/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	store  services.ScheduleStore
	roster services.RosterProvider
	logger *zap.Logger
	ctx    context.Context

	closers []func()
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Casa Rota CLI - Manage the hostel volunteer schedule",
		Long:  `A CLI tool for managing the hostel's weekly volunteer schedule: viewing weeks, assigning, moving and deleting shifts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				for _, closeFn := range app.closers {
					closeFn()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(viewWeekCmd())
	rootCmd.AddCommand(assignShiftCmd())
	rootCmd.AddCommand(moveShiftCmd())
	rootCmd.AddCommand(deleteShiftCmd())
	rootCmd.AddCommand(listRosterCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, the schedule store and the roster provider
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	switch app.cfg.Storage {
	case "postgres":
		app.logger.Info("Connecting to PostgreSQL")
		pgDB, err := postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pgDB.RunMigrations(app.ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.store = pgDB
		app.closers = append(app.closers, pgDB.Close)

		if app.cfg.RosterSource == "postgres" {
			app.roster = pgDB
		}
	case "redis":
		app.logger.Info("Connecting to Redis", zap.String("addr", app.cfg.RedisAddr))
		redisStore, err := redisstore.NewStore(app.ctx, redisstore.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.store = redisStore
		app.closers = append(app.closers, func() { redisStore.Close() })
	default:
		return fmt.Errorf("unknown storage backend %q", app.cfg.Storage)
	}

	if app.cfg.RosterSource == "sheets" {
		app.logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.logger.Info("Initializing sheets roster client")
		sheets, err := sheetsclient.NewClient(app.ctx, app.cfg, oauthCfg)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.roster = sheets
		app.logger.Debug("Sheets client initialized successfully")
	}

	if app.roster == nil {
		return fmt.Errorf("roster source %q is not available with storage %q", app.cfg.RosterSource, app.cfg.Storage)
	}

	app.logger.Info("Application initialized")

	return nil
}

// Command definitions

func viewWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewWeek [week]",
		Short: "Show the schedule for a week (defaults to the current week)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var weekRef string
			if len(args) > 0 {
				weekRef = args[0]
			}
			editMode, _ := cmd.Flags().GetBool("edit")

			result, err := services.ViewWeek(app.ctx, app.store, app.roster, app.logger, weekRef, editMode)
			if err != nil {
				return err
			}

			printWeek(result)
			return nil
		},
	}

	cmd.Flags().Bool("edit", false, "Show the full eligible roster, not just scheduled users")

	return cmd
}

func assignShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignShift <user_id> <role> <day> [week]",
		Short: "Assign a roster user to a role+day cell",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}
			day, err := parseDay(args[2])
			if err != nil {
				return err
			}

			req := services.AssignShiftRequest{
				UserID: args[0],
				Role:   role,
				Day:    day,
			}
			if len(args) > 3 {
				req.WeekRef = args[3]
			}
			req.Time, _ = cmd.Flags().GetString("time")
			if yes, _ := cmd.Flags().GetBool("yes"); yes {
				req.ConfirmCount = true
				req.AcknowledgeWarnings = true
			}

			return runAssign(req)
		},
	}

	cmd.Flags().String("time", "", "Time window for flexible roles (skips the selection prompt)")
	cmd.Flags().BoolP("yes", "y", false, "Accept the shift-count and rest-day confirmations up front")

	return cmd
}

// runAssign drives the assign protocol, prompting through the confirmation
// steps until the mutation settles
func runAssign(req services.AssignShiftRequest) error {
	for {
		result, err := services.AssignShift(app.ctx, app.store, app.roster, app.cfg, app.logger, req)
		if err != nil {
			return err
		}

		switch result.Outcome.Kind {
		case schedule.OutcomeApplied:
			printApplied(result.Outcome.Shift, result.Unsynced)
			return nil

		case schedule.OutcomeRejected:
			fmt.Printf("\n✗ %s\n", firstMessage(result.Outcome.Errors))
			return nil

		case schedule.OutcomeNeedsCountConfirm:
			fmt.Printf("\n⚠️  This volunteer already has %d shifts this week.\n", result.Outcome.ShiftCount)
			if !promptYesNo("Assign another shift anyway?") {
				fmt.Println("Aborted, nothing changed.")
				return nil
			}
			req.ConfirmCount = true

		case schedule.OutcomeNeedsTimeChoice:
			window, chosen := promptTimeChoice(result.Outcome.TimeWindows)
			if !chosen {
				fmt.Println("Aborted, nothing changed.")
				return nil
			}
			req.Time = window

		case schedule.OutcomeNeedsWarningConfirm:
			fmt.Printf("\n⚠️  %s\n", firstMessage(result.Outcome.Warnings))
			if !promptYesNo("Save anyway?") {
				fmt.Println("Aborted, nothing changed.")
				return nil
			}
			req.AcknowledgeWarnings = true

		default:
			return fmt.Errorf("unexpected outcome %q", result.Outcome.Kind)
		}
	}
}

func moveShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moveShift <shift_id> <role> <day> [week]",
		Short: "Move an existing shift to a different role+day cell",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}
			day, err := parseDay(args[2])
			if err != nil {
				return err
			}

			req := services.MoveShiftRequest{
				ShiftID: args[0],
				Role:    role,
				Day:     day,
			}
			if len(args) > 3 {
				req.WeekRef = args[3]
			}
			req.Time, _ = cmd.Flags().GetString("time")
			if yes, _ := cmd.Flags().GetBool("yes"); yes {
				req.AcknowledgeWarnings = true
			}

			for {
				result, err := services.MoveShift(app.ctx, app.store, app.roster, app.cfg, app.logger, req)
				if err != nil {
					return err
				}

				switch result.Outcome.Kind {
				case schedule.OutcomeApplied:
					printApplied(result.Outcome.Shift, result.Unsynced)
					return nil
				case schedule.OutcomeNoop:
					fmt.Println("\nShift is already in that cell, nothing to do.")
					return nil
				case schedule.OutcomeRejected:
					fmt.Printf("\n✗ %s\n", firstMessage(result.Outcome.Errors))
					return nil
				case schedule.OutcomeNeedsWarningConfirm:
					fmt.Printf("\n⚠️  %s\n", firstMessage(result.Outcome.Warnings))
					if !promptYesNo("Save anyway?") {
						fmt.Println("Aborted, nothing changed.")
						return nil
					}
					req.AcknowledgeWarnings = true
				default:
					return fmt.Errorf("unexpected outcome %q", result.Outcome.Kind)
				}
			}
		},
	}

	cmd.Flags().String("time", "", "New time window (defaults to keeping the current one when allowed)")
	cmd.Flags().BoolP("yes", "y", false, "Accept the rest-day confirmation up front")

	return cmd
}

func deleteShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <shift_id> [week]",
		Short: "Delete a shift by id",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var weekRef string
			if len(args) > 1 {
				weekRef = args[1]
			}

			result, err := services.DeleteShift(app.ctx, app.store, app.logger, weekRef, args[0])
			if err != nil {
				return err
			}

			if result.Outcome.Kind == schedule.OutcomeNoop {
				fmt.Println("\nNo shift with that id this week, nothing to do.")
				return nil
			}

			fmt.Printf("\n✓ Shift deleted (%s %s, %s)\n", result.Outcome.Shift.Role, result.Outcome.Shift.Day, result.Outcome.Shift.Name)
			if result.Unsynced {
				fmt.Println("⚠️  The change could not be written to the store; it is only in this session.")
			}
			return nil
		},
	}
}

func listRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listRoster",
		Short: "List all roster users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := services.ListRoster(app.ctx, app.roster, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d roster users:\n\n", len(users))
			for _, u := range users {
				flags := ""
				if u.Archived {
					flags += " [archived]"
				}
				if !u.ShowInSchedule {
					flags += " [hidden]"
				}
				mainShift := ""
				if u.MainShift != "" {
					mainShift = fmt.Sprintf(" - main: %s", u.MainShift)
				}
				fmt.Printf("- %s (%s) - %s%s%s\n", u.Name, u.ID, u.Role, mainShift, flags)
			}

			return nil
		},
	}
}

// Rendering and prompting helpers

func printWeek(result *services.WeekViewResult) {
	fmt.Printf("\nWeek %s (%s to %s)\n", result.Week.ID, result.Week.StartDate, result.Week.EndDate)
	fmt.Printf("  ← %s | %s →\n\n", result.PrevWeekID, result.NextWeekID)

	if len(result.Rows) == 0 {
		fmt.Println("No shifts scheduled this week.")
		return
	}

	for _, row := range result.Rows {
		fmt.Printf("%s (%s)\n", row.User.Name, row.User.Role)
		for _, day := range model.Days {
			for _, shift := range row.ShiftsByDay[day] {
				fmt.Printf("  %s: %s %s\n", day, shift.Role, shift.Time)
			}
		}
	}
	fmt.Println()
}

func printApplied(shift *model.Shift, unsynced bool) {
	fmt.Printf("\n✓ %s is on %s duty on %s (%s)\n", shift.Name, shift.Role, shift.Day, shift.Time)
	if unsynced {
		fmt.Println("⚠️  The change could not be written to the store; it is only in this session.")
	}
}

func firstMessage(messages []string) string {
	if len(messages) == 0 {
		return "unknown reason"
	}
	return messages[0]
}

func promptYesNo(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func promptTimeChoice(windows []string) (string, bool) {
	fmt.Println("\nChoose a time window:")
	for i, window := range windows {
		fmt.Printf("  %d. %s\n", i+1, window)
	}
	fmt.Print("> ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", false
	}

	choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || choice < 1 || choice > len(windows) {
		return "", false
	}
	return windows[choice-1], true
}

func parseRole(raw string) (model.ShiftRole, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), "-", "")) {
	case "frontoffice", "reception":
		return model.RoleFrontOffice, nil
	case "intern":
		return model.RoleIntern, nil
	case "breakfast":
		return model.RoleBreakfast, nil
	case "cleaning":
		return model.RoleCleaning, nil
	case "bar":
		return model.RoleBar, nil
	default:
		return "", fmt.Errorf("unknown role %q (expected frontoffice, intern, breakfast, cleaning or bar)", raw)
	}
}

func parseDay(raw string) (model.Day, error) {
	if len(raw) < 3 {
		return "", fmt.Errorf("unknown day %q", raw)
	}
	day := model.Day(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:3]))
	if !day.IsValid() {
		return "", fmt.Errorf("unknown day %q (expected Mon..Sun)", raw)
	}
	return day, nil
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without reconnecting.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags so earlier invocations don't leak
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Run the command's RunE directly, bypassing the full
				// Execute() flow so PersistentPreRunE doesn't reconnect
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	for name := range commands {
		cmd := commands[name]
		fmt.Printf("  %-40s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                                     Show this help message")
	fmt.Println("  exit, quit                               Exit the interactive session")
}
