package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lifeboard/internal/board"
	"lifeboard/internal/httpapi"
	"lifeboard/internal/render"
	"lifeboard/internal/store"
)

// resolve returns the id in args or the last-active board.
func (e *env) resolve(ctx context.Context, args []string) (store.ID, error) {
	var id store.ID
	if len(args) > 0 {
		id = store.ID(args[0])
	}
	return e.svc.Resolve(ctx, id)
}

func newUploadCmd(e *env) *cobra.Command {
	var (
		random  string
		seed    int64
		density float64
	)
	cmd := &cobra.Command{
		Use:   "upload [file|-]",
		Short: "Store a new board and make it last-active",
		Long: `Store a new board read from a file, from stdin ("-" or no argument), or
generated with --random WxH. Boards are rows of space-separated 0 and 1 tokens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if random != "" {
				if len(args) > 0 {
					return fmt.Errorf("--random cannot be combined with a file")
				}
				rows, cols, err := parseSize(random)
				if err != nil {
					return err
				}
				b, err := board.Random(rows, cols, density, seed)
				if err != nil {
					return err
				}
				id, err := e.svc.Upload(ctx, b)
				if err != nil {
					return err
				}
				return e.printBoard(id, b)
			}

			text, err := readInput(e.in, args)
			if err != nil {
				return err
			}
			id, b, err := e.svc.UploadText(ctx, text)
			if err != nil {
				return err
			}
			return e.printBoard(id, b)
		},
	}
	cmd.Flags().StringVar(&random, "random", "", "generate a random board of WxH cells")
	cmd.Flags().Int64Var(&seed, "seed", 42, "seed for --random")
	cmd.Flags().Float64Var(&density, "density", 0.35, "live cell fraction for --random")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseSize parses "WxH" into rows and columns.
func parseSize(s string) (rows, cols int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q must look like WxH", s)
	}
	cols, err = strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: bad width: %w", s, err)
	}
	rows, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: bad height: %w", s, err)
	}
	return rows, cols, nil
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			records, err := e.svc.List(ctx)
			if err != nil {
				return err
			}
			if e.output == "json" {
				if records == nil {
					records = []store.Record{}
				}
				return e.writeJSON(httpapi.BoardsResponse{Boards: records})
			}
			last, _, err := e.store.LastActive(ctx)
			if err != nil {
				return err
			}
			for _, rec := range records {
				marker := " "
				if rec.ID == last {
					marker = "*"
				}
				fmt.Fprintf(e.out, "%s %-10s %dx%d  pop %d\n",
					marker, rec.ID, rec.Board.Rows(), rec.Board.Cols(), rec.Board.Population())
			}
			return nil
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a stored board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			b, err := e.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printBoard(id, b)
		},
	}
}

func newNextCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "next [id]",
		Short: "Advance a board by one generation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			b, err := e.svc.AdvanceOne(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printBoard(id, b)
		},
	}
}

func newAheadCmd(e *env) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "ahead [id]",
		Short: "Advance a board by several generations, printing each one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("steps") {
				steps = e.cfg.Defaults.Steps
			}
			id, err := e.resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			states, err := e.svc.AdvanceBy(cmd.Context(), id, steps)
			if err != nil {
				return err
			}
			if e.output == "json" {
				return e.writeJSON(httpapi.StatesResponse{ID: id, States: states})
			}
			for i, b := range states {
				if e.output != "text" {
					fmt.Fprintf(e.out, "step %d\n", i+1)
				} else if i > 0 {
					fmt.Fprintln(e.out)
				}
				if err := e.printBoard(id, b); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of generations (default from config)")
	return cmd
}

func newFinalCmd(e *env) *cobra.Command {
	var maxIterations int
	cmd := &cobra.Command{
		Use:   "final [id]",
		Short: "Advance a board until it is stable or oscillates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-iterations") {
				maxIterations = e.cfg.Defaults.MaxIterations
			}
			id, err := e.resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			res, err := e.svc.RunToFinalState(cmd.Context(), id, maxIterations)
			if err != nil {
				return err
			}
			if e.output == "json" {
				return e.writeJSON(httpapi.FinalStateResponse{
					ID:         id,
					Board:      res.Board,
					StepsTaken: res.StepsTaken,
					Reason:     res.Reason,
				})
			}
			if e.output != "text" {
				fmt.Fprintf(e.out, "%s after %d steps\n", res.Reason, res.StepsTaken)
			}
			return e.printBoard(id, res.Board)
		},
	}
	cmd.Flags().IntVarP(&maxIterations, "max-iterations", "m", 0, "generation limit (default from config)")
	return cmd
}

func newSelectCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "select id",
		Short: "Make a stored board last-active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := store.ID(args[0])
			b, err := e.svc.Select(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.printBoard(id, b)
		},
	}
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete id",
		Short: "Delete a stored board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.svc.Delete(cmd.Context(), store.ID(args[0]))
		},
	}
}

func newLastCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Print the last-active board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, ok, err := e.svc.Last(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: no last-active board", store.ErrNotFound)
			}
			return e.printBoard(rec.ID, rec.Board)
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [id] --png file",
		Short: "Write a board as a PNG image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			b, err := e.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := render.WritePNG(f, b, e.cfg.View.Scale, render.DefaultPalette); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			e.logger.Info("board exported", "board_id", id, "path", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "png", "", "output PNG path")
	_ = cmd.MarkFlagRequired("png")
	return cmd
}
