package cli

import (
	"context"
	"errors"
	"fmt"

	contract "github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/cli/formatter"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errGradeRequired is returned when no grade was given and none can be
// prompted for.
var errGradeRequired = errors.New("--grade is required when not running in a terminal")

func newGradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Record or clear a single assessment",
	}
	cmd.AddCommand(newGradeSetCmd(app), newGradeClearCmd(app))
	return cmd
}

// cellFlags name one assessment key from the command line.
type cellFlags struct {
	enrollmentID string
	planItemID   string
	pointID      string
}

func (f *cellFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.enrollmentID, "enrollment", "", "Enrollment ID (required)")
	fs.StringVar(&f.planItemID, "plan-item", "", "Plan item ID (required)")
	fs.StringVar(&f.pointID, "point", "", "Content point ID for a point-level grade")
	_ = cobra.MarkFlagRequired(fs, "enrollment")
	_ = cobra.MarkFlagRequired(fs, "plan-item")
}

func (f *cellFlags) point() *string {
	if f.pointID == "" {
		return nil
	}
	return domain.StrPtr(f.pointID)
}

// contentGroupOf returns the content group the plan item schedules.
func contentGroupOf(ctx context.Context, app *App, planItemID string) (string, error) {
	item, err := app.Classes.GetPlanItem(ctx, planItemID)
	if err != nil {
		return "", fmt.Errorf("loading plan item: %w", err)
	}
	return item.ContentGroupID, nil
}

func newGradeSetCmd(app *App) *cobra.Command {
	var (
		cell  cellFlags
		grade string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Grade a student on a plan item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			groupID, err := contentGroupOf(ctx, app, cell.planItemID)
			if err != nil {
				return err
			}

			if grade == "" {
				if !app.interactive() {
					return errGradeRequired
				}
				scales, err := app.Scales.List(ctx)
				if err != nil {
					return err
				}
				if err := gradePickerForm(scales, &grade).Run(); err != nil {
					return err
				}
			}
			scale, err := app.Scales.Resolve(ctx, grade)
			if err != nil {
				return err
			}

			req := contract.PersistAssessmentRequest{
				EnrollmentID:   cell.enrollmentID,
				PlanItemID:     cell.planItemID,
				ContentGroupID: groupID,
				ContentPointID: cell.point(),
				GradeScaleID:   scale.ID,
			}
			if cmd.Flags().Changed("notes") {
				req.Notes = domain.StrPtr(notes)
			}

			rec, err := app.Assessments.PersistAssessment(ctx, req)
			if err != nil {
				return &userError{err: err}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSaved(rec, scale.Name))
			return nil
		},
	}

	cell.register(cmd.Flags())
	cmd.Flags().StringVar(&grade, "grade", "", "Grade scale ID or name (prompted for when omitted)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes to store with the grade")

	return cmd
}

func newGradeClearCmd(app *App) *cobra.Command {
	var cell cellFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a student's grade on a plan item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			groupID, err := contentGroupOf(ctx, app, cell.planItemID)
			if err != nil {
				return err
			}
			req := contract.ClearAssessmentRequest{
				EnrollmentID:   cell.enrollmentID,
				PlanItemID:     cell.planItemID,
				ContentGroupID: groupID,
				ContentPointID: cell.point(),
			}
			if err := app.Assessments.ClearAssessment(ctx, req); err != nil {
				return &userError{err: err}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCleared(req.Key()))
			return nil
		},
	}

	cell.register(cmd.Flags())
	return cmd
}

// gradePickerForm returns a themed single-select form over scales.
func gradePickerForm(scales []domain.GradeScale, value *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(scales))
	for _, s := range scales {
		options = append(options, huh.NewOption(s.Name, s.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Grade").
				Options(options...).
				Value(value),
		),
	).WithTheme(gradebookHuhTheme()).WithShowHelp(false)
}
