package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"lifeboard/internal/app"
	"lifeboard/internal/autoplay"
	"lifeboard/internal/board"
	"lifeboard/internal/store"
	"lifeboard/internal/tui"
	"lifeboard/internal/watch"
)

func newPlayCmd(e *env) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "play [id]",
		Short: "Advance a board on a timer",
		Long: `Advance a board every --interval, persisting each generation. The
interactive player pauses with space, steps with n and runs to a final state
with f. --plain prints generations instead until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := e.resolve(ctx, args)
			if err != nil {
				return err
			}
			b, err := e.svc.Select(ctx, id)
			if err != nil {
				return err
			}
			if plain {
				return e.playPlain(ctx, id)
			}
			model := tui.New(ctx, e.svc, id, b, tui.Config{
				Interval:      e.cfg.Play.Interval,
				MaxIterations: e.cfg.Play.MaxIterations,
				AutoStart:     true,
				Style:         e.textStyle(),
			})
			prog := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithInput(e.in),
				tea.WithOutput(e.out))
			_, err = prog.Run()
			if err != nil && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print generations without the interactive player")
	return cmd
}

// playPlain advances id every interval and prints each generation until
// interrupted, an error occurs, or play.max_iterations is reached.
func (e *env) playPlain(ctx context.Context, id store.ID) error {
	limit := e.cfg.Play.MaxIterations
	generation := 0
	return autoplay.Loop(ctx, e.cfg.Play.Interval, func(ctx context.Context) error {
		if limit > 0 && generation >= limit {
			return autoplay.ErrStop
		}
		b, err := e.svc.AdvanceOne(ctx, id)
		if err != nil {
			return err
		}
		generation++
		if e.output != "json" && e.output != "text" {
			fmt.Fprintf(e.out, "generation %d\n", generation)
		}
		return e.printBoard(id, b)
	})
}

func newWatchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch file",
		Short: "Upload a board file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var printErr error
			w := watch.New(args[0], e.svc, e.logger, func(id store.ID, b board.Board) {
				if err := e.printBoard(id, b); err != nil && printErr == nil {
					printErr = err
				}
			})
			if err := w.Run(cmd.Context()); err != nil {
				return err
			}
			return printErr
		},
	}
}

func newViewCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "view [id]",
		Short: "Open a window playing a board",
		Long: `Open a window playing a board. Space pauses, n steps, r reloads the stored
board and s uploads a random board of the same size. Requires a build with
the ebiten tag.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := e.resolve(ctx, args)
			if err != nil {
				return err
			}
			b, err := e.svc.Select(ctx, id)
			if err != nil {
				return err
			}
			return app.Run(ctx, e.svc, id, b, app.Options{
				Scale:     e.cfg.View.Scale,
				TPS:       e.cfg.View.TPS,
				Interval:  e.cfg.Play.Interval,
				Seed:      42,
				AutoStart: true,
			})
		},
	}
}
