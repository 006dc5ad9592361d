package cli

import (
	"context"
	"fmt"

	contract "github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		classID  string
		students []string
		top      int
		tree     bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show per-student curriculum averages for a class",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			req := newReportRequest(app, classID)
			req.EnrollmentIDs = students
			if cmd.Flags().Changed("top") {
				req.TopN = top
			}

			resp, err := app.Reports.BuildReports(ctx, req)
			if err != nil {
				return err
			}
			scales, err := app.Scales.List(ctx)
			if err != nil {
				return fmt.Errorf("loading grade scales: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(resp, formatter.ReportOptions{
				Tree:     tree,
				MaxScale: formatter.MaxScaleValue(scales),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&classID, "class", "", "Class ID (required)")
	cmd.Flags().StringSliceVar(&students, "student", nil, "Enrollment ID to report on (repeatable)")
	cmd.Flags().IntVar(&top, "top", 0, "Size of the strongest and weakest lists")
	cmd.Flags().BoolVar(&tree, "tree", false, "Include the annotated curriculum tree")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

// newReportRequest applies the configured ranking size to a request.
func newReportRequest(a *App, classID string) contract.ReportRequest {
	req := contract.NewReportRequest(classID)
	if a.Config.Report.TopN > 0 {
		req.TopN = a.Config.Report.TopN
	}
	return req
}

func newScalesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scales",
		Short: "List grade scales",
		RunE: func(cmd *cobra.Command, args []string) error {
			scales, err := app.Scales.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScales(scales))
			return nil
		},
	}
}

func newClassesCmd(app *App) *cobra.Command {
	var classID string

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List classes, or the students and plan items of one class",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			if classID == "" {
				classes, err := app.Classes.List(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(classes))
				for _, c := range classes {
					rows = append(rows, []string{c.ID, c.Name, c.StageID})
				}
				fmt.Fprint(out, formatter.RenderTable([]string{"ID", "NAME", "STAGE"}, rows))
				return nil
			}

			class, err := app.Classes.GetByID(ctx, classID)
			if err != nil {
				return err
			}
			enrollments, err := app.Classes.ListEnrollments(ctx, class.ID)
			if err != nil {
				return err
			}
			items, err := app.Classes.ListPlanItems(ctx, class.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, formatter.Header(class.Name))
			studentRows := make([][]string, 0, len(enrollments))
			for _, e := range enrollments {
				studentRows = append(studentRows, []string{e.ID, e.StudentName})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"ENROLLMENT", "STUDENT"}, studentRows))
			fmt.Fprintln(out)
			itemRows := make([][]string, 0, len(items))
			for _, it := range items {
				itemRows = append(itemRows, []string{it.ID, fmt.Sprintf("%d", it.Week), it.ContentGroupID})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"PLAN ITEM", "WEEK", "CONTENT GROUP"}, itemRows))
			return nil
		},
	}

	cmd.Flags().StringVar(&classID, "class", "", "Show one class in detail")
	return cmd
}
