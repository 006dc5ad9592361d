package cli

import (
	"github.com/alexanderramin/gradebook/internal/config"
	"github.com/alexanderramin/gradebook/internal/metrics"
	"github.com/alexanderramin/gradebook/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Reports     service.ReportService
	Assessments service.AssessmentService
	Grid        service.GridService
	Scales      service.GradeScaleService
	Classes     service.ClassService

	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Recorder

	// IsInteractive reports whether stdin is a terminal; prompts and the
	// grading grid need one.
	IsInteractive func() bool
	// RunGrid runs a grading grid model to completion. Nil means a full
	// screen bubbletea program.
	RunGrid func(m *gridModel) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "gradebook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gradebook",
		Short:         "Curriculum grade reports and a grading grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReportCmd(app),
		newGradeCmd(app),
		newGridCmd(app),
		newScalesCmd(app),
		newClassesCmd(app),
	)

	return root
}
