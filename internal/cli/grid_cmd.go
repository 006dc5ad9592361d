package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gradebook/internal/reconcile"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errGridNeedsTerminal = errors.New("the grading grid needs an interactive terminal")

// settleTimeout bounds how long quitting waits for writes still in flight.
const settleTimeout = 10 * time.Second

func newGridCmd(app *App) *cobra.Command {
	var (
		classID      string
		discardStale bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Grade a class interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RunGrid == nil && !app.interactive() {
				return errGridNeedsTerminal
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			grid, err := app.Grid.LoadGrid(ctx, classID)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("discard-stale") {
				discardStale = app.Config.Grid.DiscardStale
			}
			idle := &reconcile.IdleQueue{}
			ctrl := reconcile.New(app.Assessments,
				reconcile.WithScheduler(idle),
				reconcile.WithLogger(app.logger()),
				reconcile.WithMetrics(app.Metrics),
				reconcile.WithDiscardStale(discardStale),
			)
			model := newGridModel(ctx, grid, ctrl, idle, app.Config.Grid.IdleDelay())

			if app.RunGrid != nil {
				err = app.RunGrid(model)
			} else {
				_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			}
			if settleErr := settleWrites(cmd, ctrl); settleErr != nil {
				return errors.Join(err, settleErr)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&classID, "class", "", "Class ID (required)")
	cmd.Flags().BoolVar(&discardStale, "discard-stale", false, "Ignore write results superseded by a newer edit")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

// settleWrites waits for writes the grid issued but had not confirmed when
// it exited, so every grade shown on screen reaches storage or is reported.
func settleWrites(cmd *cobra.Command, ctrl *reconcile.Controller) error {
	n := ctrl.InFlight()
	if n == 0 {
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saving %d pending change(s)...\n", n)

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	if err := ctrl.Settle(ctx); err != nil {
		return fmt.Errorf("some grid changes were not saved: %w", err)
	}
	return nil
}
