package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"mindset-backend/internal/config"
	"mindset-backend/internal/db"
	"mindset-backend/utilities"
)

const version = "1.0.0"

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	cfg        *config.APIConfig
	log        *utilities.Logger
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "mindset",
		Short:         "Athlete mental performance API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "config.xml", "path to the XML config file")

	root.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newSeedCommand(a),
		newTokenCommand(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initialize loads config, builds the logger and opens the database.
func (a *app) initialize() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	log, err := utilities.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.log = log

	if err := db.InitDBFromConfig(cfg); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return nil
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initialize(); err != nil {
				return err
			}
			defer a.log.Sync()
			if err := db.Migrate(db.GetDB()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.log.Info("schema migrated")
			return nil
		},
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("MINDSET", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("MINDSET API (v%s)\n\n", version)
}
