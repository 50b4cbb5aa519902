package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage job templates",
}

var templatesListAll bool

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/v1/templates"
		if templatesListAll {
			path += "?includeInactive=true"
		}

		var resp struct {
			Templates []templateView `json:"templates"`
		}
		if err := newClient().getJSON(path, &resp); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(resp.Templates)
		}

		rows := make([][]string, len(resp.Templates))
		for i, t := range resp.Templates {
			rows[i] = []string{
				t.ID,
				truncate(t.Name, 40),
				t.SiteName,
				t.AssignedCompanyName,
				fmt.Sprintf("%d", t.EstimatedDurationDays),
				activeMark(t.Active),
			}
		}
		printTable([]string{"ID", "Name", "Site", "Assigned", "Duration", "Active"}, rows)
		return nil
	},
}

var createTemplateFlags struct {
	name         string
	description  string
	siteID       string
	priority     string
	company      string
	contact      string
	subject      string
	descTemplate string
	durationDays int
}

var templatesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job template",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"name":                  createTemplateFlags.name,
			"description":           createTemplateFlags.description,
			"siteId":                createTemplateFlags.siteID,
			"priority":              createTemplateFlags.priority,
			"assignedCompanyId":     createTemplateFlags.company,
			"assignedContactId":     createTemplateFlags.contact,
			"subjectTitle":          createTemplateFlags.subject,
			"descriptionTemplate":   createTemplateFlags.descTemplate,
			"estimatedDurationDays": createTemplateFlags.durationDays,
		}

		var created templateView
		if err := newClient().postJSON("/api/v1/templates", body, &created); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(created)
		}
		fmt.Printf("Created template %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var templatesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <template-id>",
	Short: "Deactivate a template and every schedule that uses it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"active": false}
		var updated templateView
		if err := newClient().patchJSON("/api/v1/templates/"+args[0], body, &updated); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printOutput(updated)
		}
		fmt.Printf("Deactivated template %s\n", updated.Name)
		return nil
	},
}

func init() {
	templatesListCmd.Flags().BoolVar(&templatesListAll, "all", false, "Include inactive templates")

	f := templatesCreateCmd.Flags()
	f.StringVar(&createTemplateFlags.name, "name", "", "Template name (required)")
	f.StringVar(&createTemplateFlags.description, "description", "", "Template description")
	f.StringVar(&createTemplateFlags.siteID, "site", "", "Site ID (required)")
	f.StringVar(&createTemplateFlags.priority, "priority", "", "Ticket priority")
	f.StringVar(&createTemplateFlags.company, "assigned-company", "", "Assigned company ID (required)")
	f.StringVar(&createTemplateFlags.contact, "assigned-contact", "", "Assigned contact ID (required)")
	f.StringVar(&createTemplateFlags.subject, "subject", "", "Ticket subject title (required)")
	f.StringVar(&createTemplateFlags.descTemplate, "description-template", "", "Ticket description template with {{placeholders}}")
	f.IntVar(&createTemplateFlags.durationDays, "duration", 0, "Estimated duration in days")
	_ = templatesCreateCmd.MarkFlagRequired("name")
	_ = templatesCreateCmd.MarkFlagRequired("site")
	_ = templatesCreateCmd.MarkFlagRequired("assigned-company")
	_ = templatesCreateCmd.MarkFlagRequired("assigned-contact")
	_ = templatesCreateCmd.MarkFlagRequired("subject")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesCreateCmd)
	templatesCmd.AddCommand(templatesDeactivateCmd)
}
