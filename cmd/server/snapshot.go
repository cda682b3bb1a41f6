package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"calendar-planner-api/internal/calendar"
	"calendar-planner-api/internal/database"
	"calendar-planner-api/internal/logging"
	"calendar-planner-api/internal/models"
	"calendar-planner-api/internal/snapshot"
)

func (a *app) snapshotStore(userID string, loc *time.Location) *snapshot.Store {
	return snapshot.New(snapshot.OpenDisk(a.cfg.Snapshot.Dir), snapshot.KeyFor(userID), loc)
}

func addSnapshot(topLevel *cobra.Command, a *app) {
	var userID string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy tasks between the database and the on-disk snapshot store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&userID, "user", "", "Owner of the tasks.")

	export := &cobra.Command{
		Use:   "export",
		Short: "Write the user's tasks from the database to the snapshot store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			if err := database.InitDB(a.cfg.Database.Path); err != nil {
				return err
			}
			var tasks []models.Task
			if err := database.GetDB().
				Where("user_id = ?", userID).
				Order("created_at asc, id asc").
				Find(&tasks).Error; err != nil {
				return fmt.Errorf("load tasks: %w", err)
			}
			a.snapshotStore(userID, loc).Save(tasks)
			_, _ = fmt.Fprintf(color.Output, "exported %d tasks\n", len(tasks))
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import",
		Short: "Replace the user's tasks in the database with the snapshot. Ids owned by other users are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			if err := database.InitDB(a.cfg.Database.Path); err != nil {
				return err
			}
			tasks := a.snapshotStore(userID, loc).Load()
			n, err := importTasks(database.GetDB(), userID, tasks)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "imported %d of %d tasks\n", n, len(tasks))
			return nil
		},
	}

	var (
		taskID string
		target string
	)
	move := &cobra.Command{
		Use:   "move",
		Short: "Move a task in the snapshot so it starts on another day.",
		Example: `
planner snapshot move --user user-1 --id task-1727740800000000000 --day 2026-10-20
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if taskID == "" || target == "" {
				return errors.New("--id and --day are required")
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			day, err := calendar.ParseDay(target, loc)
			if err != nil {
				return err
			}

			store := a.snapshotStore(userID, loc)
			tasks := store.Load()
			moved := calendar.Relocate(tasks, taskID, day)
			store.Save(moved)

			for _, t := range moved {
				if t.ID == taskID {
					_, _ = fmt.Fprintf(color.Output, "%s now runs %s to %s\n",
						t.Name, t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"))
					return nil
				}
			}
			logging.Warn().Str("task_id", taskID).Msg("task not in snapshot, nothing moved")
			return nil
		},
	}
	move.Flags().StringVar(&taskID, "id", "", "Task to move.")
	move.Flags().StringVar(&target, "day", "", "Day the task should start on, as YYYY-MM-DD.")

	cmd.AddCommand(export, imp, move)
	topLevel.AddCommand(cmd)
}

// importTasks replaces userID's tasks with tasks in one transaction and
// returns how many were written. Ids already owned by another user are
// skipped with a warning, since task ids are unique across users.
func importTasks(db *gorm.DB, userID string, tasks []models.Task) (int, error) {
	imported := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}

		ids := make([]string, 0, len(tasks))
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		var foreign []string
		if len(ids) > 0 {
			if err := tx.Model(&models.Task{}).
				Where("id IN ? AND user_id <> ?", ids, userID).
				Pluck("id", &foreign).Error; err != nil {
				return fmt.Errorf("check task ids: %w", err)
			}
		}
		taken := make(map[string]struct{}, len(foreign))
		for _, id := range foreign {
			taken[id] = struct{}{}
		}

		for i := range tasks {
			if _, ok := taken[tasks[i].ID]; ok {
				logging.Warn().Str("task_id", tasks[i].ID).Str("user_id", userID).
					Msg("task id belongs to another user, skipping")
				continue
			}
			tasks[i].UserID = userID
			if err := tx.Create(&tasks[i]).Error; err != nil {
				return fmt.Errorf("insert task %s: %w", tasks[i].ID, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
