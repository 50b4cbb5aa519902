package main

import (
	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
	asUser    string
	asRoles   string
)

var rootCmd = &cobra.Command{
	Use:   "boomctl",
	Short: "CLI for the boom-power scheduling server",
	Long: `boomctl manages recurring maintenance on a boom-power scheduling server:
job templates, the schedules that fire them, the instances they generate,
and the tickets behind those instances.

When the server runs behind the auth gate the identity headers are set
by the gate; against a direct connection --as-user and --as-roles set
them explicitly.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Scheduler server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&asUser, "as-user", "boomctl", "User identity to send with requests")
	rootCmd.PersistentFlags().StringVar(&asRoles, "as-roles", "admin", "Comma-separated roles to send with requests")

	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(instancesCmd)
	rootCmd.AddCommand(ticketsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(healthCmd)
}
