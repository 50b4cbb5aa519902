package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditFilters struct {
	eventType string
	pageSize  int
	pageToken string
}

var auditEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List audit events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if auditFilters.eventType != "" {
			q.Set("eventType", auditFilters.eventType)
		}
		if auditFilters.pageSize > 0 {
			q.Set("pageSize", strconv.Itoa(auditFilters.pageSize))
		}
		if auditFilters.pageToken != "" {
			q.Set("pageToken", auditFilters.pageToken)
		}
		path := "/api/v1/audit/events"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		var resp struct {
			Events        []auditEventView `json:"events"`
			NextPageToken string           `json:"nextPageToken"`
			TotalSize     int              `json:"totalSize"`
		}
		if err := newClient().getJSON(path, &resp); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(resp)
		}

		rows := make([][]string, len(resp.Events))
		for i, ev := range resp.Events {
			rows[i] = []string{
				ev.CreatedAt,
				ev.EventType,
				ev.Actor,
				ev.ResourceID,
				truncate(ev.Detail, 50),
			}
		}
		printTable([]string{"When", "Event", "Actor", "Resource", "Detail"}, rows)
		if resp.NextPageToken != "" {
			cmd.Printf("\nMore events: --page-token %s\n", resp.NextPageToken)
		}
		return nil
	},
}

func init() {
	f := auditEventsCmd.Flags()
	f.StringVar(&auditFilters.eventType, "type", "", "Filter by event type")
	f.IntVar(&auditFilters.pageSize, "page-size", 0, "Events per page (server default 20)")
	f.StringVar(&auditFilters.pageToken, "page-token", "", "Continue from a previous page")

	auditCmd.AddCommand(auditEventsCmd)
}
