package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"lifeboard/internal/config"
	"lifeboard/internal/kv"
	"lifeboard/internal/logging"
	"lifeboard/internal/render"
	"lifeboard/internal/service"
	"lifeboard/internal/store"
)

// skipStore marks commands that run without opening the board store.
const skipStore = "skip-store"

// env is the state shared by every subcommand once the root pre-run has
// loaded configuration and opened the store.
type env struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	flags      config.Config
	output     string

	cfg    config.Config
	logger *slog.Logger
	store  store.Store
	svc    *service.Service
}

// execute runs the command line in args and closes the store afterwards,
// whether or not the command succeeded.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root, e := newRootCmd(in, out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := e.close(); cerr != nil {
		fmt.Fprintf(errOut, "Error: close store: %v\n", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, *env) {
	e := &env{in: in, out: out, errOut: errOut, flags: config.Default()}

	root := &cobra.Command{
		Use:          "life",
		Short:        "Store Game of Life boards and evolve them",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "config file (default $HOME/.lifeboard/config.yaml)")
	pf.StringVarP(&e.output, "output", "o", "grid", "board output: grid, text or json")
	e.flags.Bind(pf)

	root.AddCommand(
		newUploadCmd(e),
		newListCmd(e),
		newShowCmd(e),
		newNextCmd(e),
		newAheadCmd(e),
		newFinalCmd(e),
		newSelectCmd(e),
		newDeleteCmd(e),
		newLastCmd(e),
		newExportCmd(e),
		newServeCmd(e),
		newPlayCmd(e),
		newWatchCmd(e),
		newViewCmd(e),
		newConfigCmd(e),
	)
	return root, e
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Merge(cmd.Flags(), &e.flags); err != nil {
		return err
	}
	switch e.output {
	case "grid", "text", "json":
	default:
		return fmt.Errorf("unknown output %q; use grid, text or json", e.output)
	}
	logCfg := cfg.Logging()
	logCfg.Output = e.errOut
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = logger

	if cmd.Annotations[skipStore] == "true" {
		return nil
	}
	s, err := e.openStore()
	if err != nil {
		return err
	}
	e.store = s
	e.svc = service.New(s, logger, service.WithMaxSteps(e.cfg.Defaults.MaxSteps))
	return nil
}

func (e *env) openStore() (store.Store, error) {
	if e.cfg.InMemory {
		e.logger.Debug("using in-memory store")
		return store.NewMemory(), nil
	}
	kvCfg := kv.DefaultConfig()
	kvCfg.Path = e.cfg.DataDir
	kvCfg.Logger = e.logger.With("component", "badger")
	s, err := store.OpenBadger(kvCfg)
	if err != nil {
		return nil, fmt.Errorf("open board store at %s: %w", e.cfg.DataDir, err)
	}
	e.logger.Debug("opened board store", "path", e.cfg.DataDir)
	return s, nil
}

func (e *env) close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

// textStyle colours boards only when stdout is a terminal.
func (e *env) textStyle() render.TextStyle {
	if f, ok := e.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return render.DefaultTextStyle()
	}
	return render.PlainTextStyle()
}
