package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calendar-planner-api/internal/auth"
	"calendar-planner-api/internal/config"
	"calendar-planner-api/internal/handlers"
	"calendar-planner-api/internal/logging"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "Calendar task planner API and tools.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Path to a YAML configuration file.")

	addServe(cmd, a)
	addAgenda(cmd, a)
	addSnapshot(cmd, a)
	return cmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if err := logging.InitFromOptions(logging.Options{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		JSON:       cfg.Logging.JSON,
		Console:    cfg.Logging.Console,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	start, err := cfg.WeekStart()
	if err != nil {
		return err
	}

	auth.Configure(cfg.Auth)
	handlers.ConfigureCalendar(loc, start)
	a.cfg = cfg
	return nil
}
