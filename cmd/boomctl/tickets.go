package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Inspect tickets",
}

var ticketFilters struct {
	status string
	siteID string
	kind   string
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if ticketFilters.status != "" {
			q.Set("status", ticketFilters.status)
		}
		if ticketFilters.siteID != "" {
			q.Set("siteId", ticketFilters.siteID)
		}
		if ticketFilters.kind != "" {
			q.Set("type", ticketFilters.kind)
		}
		path := "/api/v1/tickets"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		var resp struct {
			Tickets []ticketView `json:"tickets"`
		}
		if err := newClient().getJSON(path, &resp); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(resp.Tickets)
		}

		rows := make([][]string, len(resp.Tickets))
		for i, t := range resp.Tickets {
			rows[i] = []string{
				t.TicketNumber,
				t.Type,
				truncate(t.Subject, 50),
				t.Site,
				t.TargetCompletionDate,
				t.Status,
			}
		}
		printTable([]string{"Number", "Type", "Subject", "Site", "Target", "Status"}, rows)
		return nil
	},
}

var ticketsGetCmd = &cobra.Command{
	Use:   "get <ticket-id>",
	Short: "Show one ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var t ticketView
		if err := newClient().getJSON("/api/v1/tickets/"+args[0], &t); err != nil {
			return err
		}
		if outputFmt == "table" {
			outputFmt = "json"
		}
		return printOutput(t)
	},
}

var ticketsSetStatusCmd = &cobra.Command{
	Use:   "set-status <ticket-id> <status>",
	Short: "Transition a ticket (open, assigned, resolved, cancelled, closed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"status": args[1]}
		var updated ticketView
		if err := newClient().patchJSON("/api/v1/tickets/"+args[0]+"/status", body, &updated); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(updated)
		}
		fmt.Printf("Ticket %s is now %s\n", updated.TicketNumber, updated.Status)
		return nil
	},
}

func init() {
	f := ticketsListCmd.Flags()
	f.StringVar(&ticketFilters.status, "status", "", "Filter by status")
	f.StringVar(&ticketFilters.siteID, "site", "", "Filter by site ID")
	f.StringVar(&ticketFilters.kind, "type", "", "Filter by type (job or fault)")

	ticketsCmd.AddCommand(ticketsListCmd)
	ticketsCmd.AddCommand(ticketsGetCmd)
	ticketsCmd.AddCommand(ticketsSetStatusCmd)
}
