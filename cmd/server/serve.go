package main

import (
	"github.com/spf13/cobra"

	"calendar-planner-api/internal/database"
	"calendar-planner-api/internal/logging"
	"calendar-planner-api/internal/routes"
)

func addServe(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.InitDB(a.cfg.Database.Path); err != nil {
				return err
			}

			r := routes.SetupRoutes()
			logging.Info().
				Str("addr", a.cfg.Addr()).
				Str("week_start", a.cfg.Calendar.WeekStart).
				Str("timezone", a.cfg.Calendar.Timezone).
				Msg("server starting")
			return r.Run(a.cfg.Addr())
		},
	}
	topLevel.AddCommand(cmd)
}
