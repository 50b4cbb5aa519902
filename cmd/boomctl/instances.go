package main

import (
	"github.com/spf13/cobra"
)

var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List generated job instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Instances []instanceView `json:"instances"`
		}
		if err := newClient().getJSON("/api/v1/instances", &resp); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(resp.Instances)
		}

		rows := make([][]string, len(resp.Instances))
		for i, inst := range resp.Instances {
			ticketNumber, ticketStatus := "-", "-"
			if inst.Ticket != nil {
				ticketNumber = inst.Ticket.TicketNumber
				ticketStatus = inst.Ticket.Status
			}
			rows[i] = []string{
				inst.DueDate,
				truncate(inst.Schedule.Name, 40),
				truncate(inst.Schedule.TemplateName, 30),
				inst.Status,
				ticketNumber,
				ticketStatus,
			}
		}
		printTable([]string{"Due", "Schedule", "Template", "Status", "Ticket", "Ticket status"}, rows)
		return nil
	},
}
