package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"bugtracker/internal/client"
	"bugtracker/internal/models"
)

var (
	bugTitle       string
	bugDescription string
	bugStatus      string
	bugPriority    string
	bugAssignedTo  string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all bugs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a new bug",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun(cmd.Context())
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an existing bug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateRun(cmd, args[0])
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a bug",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteRun(cmd.Context(), args[0])
	},
}

func init() {
	reportCmd.Flags().StringVarP(&bugTitle, "title", "t", "", "Bug title (required)")
	reportCmd.Flags().StringVarP(&bugDescription, "description", "d", "", "Bug description (required)")
	reportCmd.Flags().StringVar(&bugStatus, "status", string(models.DefaultStatus), "Status: open, in-progress, or resolved")
	reportCmd.Flags().StringVar(&bugPriority, "priority", string(models.DefaultPriority), "Priority: low, medium, or high")
	reportCmd.Flags().StringVar(&bugAssignedTo, "assigned-to", "", "Assignee")
	_ = reportCmd.MarkFlagRequired("title")
	_ = reportCmd.MarkFlagRequired("description")

	updateCmd.Flags().StringVarP(&bugTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&bugDescription, "description", "d", "", "New description")
	updateCmd.Flags().StringVar(&bugStatus, "status", "", "New status: open, in-progress, or resolved")
	updateCmd.Flags().StringVar(&bugPriority, "priority", "", "New priority: low, medium, or high")
	updateCmd.Flags().StringVar(&bugAssignedTo, "assigned-to", "", "New assignee")

	rootCmd.AddCommand(listCmd, reportCmd, updateCmd, deleteCmd)
}

var (
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	cyan   = color.New(color.FgHiCyan).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
)

func statusColor(s models.Status) string {
	switch s {
	case models.StatusOpen:
		return green(string(s))
	case models.StatusInProgress:
		return yellow(string(s))
	case models.StatusResolved:
		return cyan(string(s))
	default:
		return string(s)
	}
}

func priorityColor(p models.Priority) string {
	switch p {
	case models.PriorityLow:
		return cyan(string(p))
	case models.PriorityMedium:
		return yellow(string(p))
	case models.PriorityHigh:
		return red(string(p))
	default:
		return string(p)
	}
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

func listRun(ctx context.Context) error {
	bugs, err := apiClient.ListBugs(ctx)
	if err != nil {
		return err
	}
	if len(bugs) == 0 {
		fmt.Println("No bugs reported yet.")
		return nil
	}

	table := newTable([]string{"ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNED TO", "REPORTED"})
	for _, b := range bugs {
		_ = table.Append([]string{
			b.ID,
			b.Title,
			statusColor(b.Status),
			priorityColor(b.Priority),
			b.AssignedTo,
			b.CreatedAt.Local().Format(time.DateOnly),
		})
	}
	return table.Render()
}

func reportRun(ctx context.Context) error {
	bug, err := apiClient.CreateBug(ctx, client.BugInput{
		Title:       bugTitle,
		Description: bugDescription,
		Status:      bugStatus,
		Priority:    bugPriority,
		AssignedTo:  bugAssignedTo,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Reported bug %s: %s\n", bug.ID, bug.Title)
	return nil
}

// updateRun sends the full field set because the API requires title and
// description on every update; unchanged fields are filled from the current
// record.
func updateRun(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	bugs, err := apiClient.ListBugs(ctx)
	if err != nil {
		return err
	}
	var current *models.Bug
	for i := range bugs {
		if bugs[i].ID == id {
			current = &bugs[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("bug %s not found", id)
	}

	in := client.BugInput{
		Title:       current.Title,
		Description: current.Description,
		Status:      string(current.Status),
		Priority:    string(current.Priority),
		AssignedTo:  current.AssignedTo,
	}
	if cmd.Flags().Changed("title") {
		in.Title = bugTitle
	}
	if cmd.Flags().Changed("description") {
		in.Description = bugDescription
	}
	if cmd.Flags().Changed("status") {
		in.Status = bugStatus
	}
	if cmd.Flags().Changed("priority") {
		in.Priority = bugPriority
	}
	if cmd.Flags().Changed("assigned-to") {
		in.AssignedTo = bugAssignedTo
	}

	bug, err := apiClient.UpdateBug(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Printf("Updated bug %s: %s [%s/%s]\n", bug.ID, bug.Title, bug.Status, bug.Priority)
	return nil
}

func deleteRun(ctx context.Context, id string) error {
	result, err := apiClient.DeleteBug(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", result.Message, result.ID)
	return nil
}
