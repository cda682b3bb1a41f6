package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"calendar-planner-api/internal/agenda"
	"calendar-planner-api/internal/calendar"
	"calendar-planner-api/internal/database"
	"calendar-planner-api/internal/models"
)

type agendaOptions struct {
	userID     string
	month      string
	query      string
	categories string
	weeks      string
	snapshot   bool
}

func addAgenda(topLevel *cobra.Command, a *app) {
	o := &agendaOptions{}

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print a month of a user's tasks, one column per level.",
		Example: `
planner agenda --user user-1 --month 2026-10
planner agenda --user user-1 --q review --categories "Review,In Progress" --weeks 2
planner agenda --user user-1 --snapshot
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.agenda(cmd, o)
		},
	}
	cmd.Flags().StringVar(&o.userID, "user", "", "Owner of the tasks.")
	cmd.Flags().StringVar(&o.month, "month", "", "Month to show as YYYY-MM. Defaults to the current month.")
	cmd.Flags().StringVar(&o.query, "q", "", "Only tasks whose name contains this text.")
	cmd.Flags().StringVar(&o.categories, "categories", "", "Comma separated categories. Omit for every category; an empty value shows nothing.")
	cmd.Flags().StringVar(&o.weeks, "weeks", "all", "Only tasks starting within this many weeks, or all.")
	cmd.Flags().BoolVar(&o.snapshot, "snapshot", false, "Read tasks from the snapshot store instead of the database.")
	topLevel.AddCommand(cmd)
}

// filter builds the task filter from the flags. categoriesSet reports
// whether --categories was given at all.
func (o *agendaOptions) filter(categoriesSet bool, loc *time.Location) (calendar.Filter, error) {
	var categories *string
	if categoriesSet {
		categories = &o.categories
	}
	f, err := calendar.ParseFilter(o.query, categories, o.weeks)
	if err != nil {
		return calendar.Filter{}, err
	}
	f.Location = loc
	return f, nil
}

func (a *app) agenda(cmd *cobra.Command, o *agendaOptions) error {
	if o.userID == "" {
		return errors.New("--user is required")
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}
	start, err := a.cfg.WeekStart()
	if err != nil {
		return err
	}

	ref := time.Now().In(loc)
	if o.month != "" {
		if ref, err = calendar.ParseMonth(o.month, loc); err != nil {
			return err
		}
	}

	filter, err := o.filter(cmd.Flags().Changed("categories"), loc)
	if err != nil {
		return err
	}

	var tasks []models.Task
	if o.snapshot {
		tasks = a.snapshotStore(o.userID, loc).Load()
	} else {
		if err := database.InitDB(a.cfg.Database.Path); err != nil {
			return err
		}
		if err := database.GetDB().
			Where("user_id = ?", o.userID).
			Order("created_at asc, id asc").
			Find(&tasks).Error; err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
	}

	cal := calendar.BuildCalendar(calendar.MonthDays(ref, start), tasks, filter)

	title := color.New(color.Bold, color.Underline)
	_, _ = title.Fprintln(color.Output, ref.Format("January 2006"))
	p := &agenda.Printer{Today: time.Now().In(loc), Month: ref.Month()}
	p.Print(color.Output, cal.Days)
	return nil
}
