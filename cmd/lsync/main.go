package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lsync-go/internal/app"
	"lsync-go/internal/config"
	"lsync-go/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Migrate", "Verify").
func newApp(ctx context.Context, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// printJSON writes v to stdout as indented JSON. All reporting commands
// speak JSON so callers can script against them.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var rootCmd = &cobra.Command{
	Use:   "lsync",
	Short: "Lesson content synchronization tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Store: %s (project %s)\n", cfg.Store.Type, cfg.Store.ProjectID)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Store:      %s\n", cfg.Store.Type)
		if cfg.Store.Type == "firestore" {
			fmt.Printf("Project:    %s\n", cfg.ResolveProjectID())
			if cfg.DemoMode() {
				fmt.Println("            (demo mode: in-memory store)")
			}
		}
		if cfg.Catalog.LessonsDir != "" {
			fmt.Printf("Lessons:    %s\n", cfg.Catalog.LessonsDir)
		}
		return nil
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upload catalog lessons that are missing remotely",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Migrate")
		if err != nil {
			return err
		}
		defer a.Close()

		summary := a.Migrate(ctx)
		if err := printJSON(map[string]any{
			"migratedCount": summary.Created,
			"skippedCount":  summary.Skipped,
			"failedCount":   summary.Failed,
			"totalSlides":   summary.TotalSlides,
		}); err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d lesson(s) failed to migrate", summary.Failed)
		}
		return nil
	},
}

// replace command
var replaceCmd = &cobra.Command{
	Use:   "replace LESSON...",
	Short: "Force-replace remote lessons with the catalog copy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Replace")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Replace(ctx, args)
		if err != nil {
			return err
		}

		out := make(map[string]any, len(summary.Results))
		for _, r := range summary.Results {
			out[r.NaturalKey] = map[string]any{
				"success":     r.Err == nil,
				"totalSlides": r.SlideCount,
			}
		}
		if err := printJSON(out); err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d lesson(s) failed to replace", summary.Failed)
		}
		return nil
	},
}

// verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [LESSON...]",
	Short: "Check remote lessons for consistency",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Verify")
		if err != nil {
			return err
		}
		defer a.Close()

		reports, err := a.Verify(ctx, args)
		if err != nil {
			return err
		}
		if err := printJSON(reports); err != nil {
			return err
		}

		for _, r := range reports {
			if !r.OK {
				return fmt.Errorf("verification found inconsistencies")
			}
		}
		return nil
	},
}

// repair command
var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Finish force replaces that were interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Repair")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Repair(ctx)
		if err != nil {
			return err
		}
		if err := printJSON(summary); err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d lesson(s) failed to repair", summary.Failed)
		}
		return nil
	},
}

// catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the local lesson catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Catalog")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, lesson := range a.Lessons() {
			fmt.Printf("%-30s  %-12s  %2d slides  %s\n",
				lesson.Title, lesson.Difficulty, len(lesson.Slides), lesson.Duration)
		}
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson read API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config().Server.Addr
		}

		srv := server.New(addr, a.ContentService(), a.Config().Server.AllowedOrigins, a.Logger())
		return srv.Run(ctx)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	serveCmd.Flags().String("addr", "", "listen address (defaults to config)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
}
