package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health and readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		live := "ok"
		if _, err := client.getText("/healthz"); err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}

		ready := "ok"
		if _, err := client.getText("/readyz"); err != nil {
			// Readiness failure is not fatal; the server might still be starting.
			ready = err.Error()
		}

		if outputFmt != "table" {
			return printOutput(map[string]string{"liveness": live, "readiness": ready})
		}

		printTable([]string{"Check", "Status"}, [][]string{
			{"Liveness", live},
			{"Readiness", ready},
		})
		return nil
	},
}
