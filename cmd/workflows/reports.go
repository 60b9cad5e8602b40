package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/smallnest/workflowpaths/report"
)

func newReportsCmd(a *app) *cobra.Command {
	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage saved extraction reports",
	}

	var source string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			reports, err := s.List(cmd.Context(), source)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "SOURCE", "CREATED", "WORKFLOWS", "PATHS")
			for _, r := range reports {
				t.Row(r.ID, r.Source, r.CreatedAt.Local().Format(time.DateTime),
					strconv.Itoa(len(r.Workflows)), strconv.Itoa(r.Result().TotalVariants()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	listCmd.Flags().StringVar(&source, "source", "", "Only list reports of this definition")

	var format, title string
	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Render a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(cmd, format)
			if err != nil {
				return err
			}
			s, closeStore, err := openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			r, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = r.Source
			}
			return report.Render(cmd.OutOrStdout(), f, title, r.Result())
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown or html")
	showCmd.Flags().StringVar(&title, "title", "", "Document title for markdown and html output")

	deleteCmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete saved reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			for _, id := range args {
				if err := s.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear [source]",
		Short: "Delete every saved report of a definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()
			return s.Clear(cmd.Context(), args[0])
		},
	}

	reportsCmd.AddCommand(listCmd, showCmd, deleteCmd, clearCmd)
	return reportsCmd
}
