package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Manage job schedules",
}

var schedulesListAll bool

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/v1/schedules"
		if schedulesListAll {
			path += "?includeInactive=true"
		}

		var resp struct {
			Schedules []scheduleView `json:"schedules"`
		}
		if err := newClient().getJSON(path, &resp); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(resp.Schedules)
		}

		rows := make([][]string, len(resp.Schedules))
		for i, s := range resp.Schedules {
			freq := s.FrequencyType
			if s.FrequencyType == "custom" {
				freq = fmt.Sprintf("custom(%d)", s.FrequencyValue)
			}
			rows[i] = []string{
				s.ID,
				truncate(s.Name, 40),
				truncate(s.TemplateName, 30),
				freq,
				s.NextDueDate,
				fmt.Sprintf("%d", s.AdvanceNoticeDays),
				activeMark(s.Active),
			}
		}
		printTable([]string{"ID", "Name", "Template", "Frequency", "Next due", "Notice", "Active"}, rows)
		return nil
	},
}

var createScheduleFlags struct {
	templateID  string
	name        string
	frequency   string
	value       int
	start       string
	end         string
	advance     int
	nextDue     string
}

var schedulesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"jobTemplateId":     createScheduleFlags.templateID,
			"name":              createScheduleFlags.name,
			"frequencyType":     createScheduleFlags.frequency,
			"frequencyValue":    createScheduleFlags.value,
			"startDate":         createScheduleFlags.start,
			"endDate":           createScheduleFlags.end,
			"advanceNoticeDays": createScheduleFlags.advance,
			"nextDueDate":       createScheduleFlags.nextDue,
		}

		var created scheduleView
		if err := newClient().postJSON("/api/v1/schedules", body, &created); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(created)
		}
		fmt.Printf("Created schedule %s (%s), first due %s\n", created.Name, created.ID, created.NextDueDate)
		return nil
	},
}

var setNextDue string

var schedulesSetNextDueCmd = &cobra.Command{
	Use:   "set-next-due <schedule-id>",
	Short: "Move a schedule's next due date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"nextDueDate": setNextDue}
		var updated scheduleView
		if err := newClient().patchJSON("/api/v1/schedules/"+args[0], body, &updated); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(updated)
		}
		fmt.Printf("Schedule %s next due %s\n", updated.Name, updated.NextDueDate)
		return nil
	},
}

var schedulesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <schedule-id>",
	Short: "Deactivate a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"active": false}
		var updated scheduleView
		if err := newClient().patchJSON("/api/v1/schedules/"+args[0], body, &updated); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(updated)
		}
		fmt.Printf("Deactivated schedule %s\n", updated.Name)
		return nil
	},
}

func init() {
	schedulesListCmd.Flags().BoolVar(&schedulesListAll, "all", false, "Include inactive schedules")

	f := schedulesCreateCmd.Flags()
	f.StringVar(&createScheduleFlags.templateID, "template", "", "Job template ID (required)")
	f.StringVar(&createScheduleFlags.name, "name", "", "Schedule name (required)")
	f.StringVar(&createScheduleFlags.frequency, "frequency", "monthly", "Frequency: monthly, quarterly, semi_annually, annually, custom")
	f.IntVar(&createScheduleFlags.value, "value", 0, "Number of months for custom frequency")
	f.StringVar(&createScheduleFlags.start, "start", "", "Start date YYYY-MM-DD (required)")
	f.StringVar(&createScheduleFlags.end, "end", "", "End date YYYY-MM-DD")
	f.IntVar(&createScheduleFlags.advance, "advance", 0, "Days before due date to raise the ticket")
	f.StringVar(&createScheduleFlags.nextDue, "next-due", "", "First due date YYYY-MM-DD (default: computed from start)")
	_ = schedulesCreateCmd.MarkFlagRequired("template")
	_ = schedulesCreateCmd.MarkFlagRequired("name")
	_ = schedulesCreateCmd.MarkFlagRequired("start")

	schedulesSetNextDueCmd.Flags().StringVar(&setNextDue, "date", "", "New next due date YYYY-MM-DD (required)")
	_ = schedulesSetNextDueCmd.MarkFlagRequired("date")

	schedulesCmd.AddCommand(schedulesListCmd)
	schedulesCmd.AddCommand(schedulesCreateCmd)
	schedulesCmd.AddCommand(schedulesSetNextDueCmd)
	schedulesCmd.AddCommand(schedulesDeactivateCmd)
}
