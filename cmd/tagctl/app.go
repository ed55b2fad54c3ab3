package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tagrender/internal/app"
	"tagrender/internal/config"
	"tagrender/internal/pkg/logger"
	"tagrender/internal/tag"
)

// App holds the CLI application state.
type App struct {
	out     io.Writer
	cfgPath string
	cfg     *config.Config
	log     *logger.Logger
	deps    *app.Deps
	root    *cobra.Command
}

// NewApp creates the CLI. A nil cfg is loaded from --config or the
// environment on first use.
func NewApp(out io.Writer, cfg *config.Config) *App {
	a := &App{out: out, cfg: cfg}

	a.root = &cobra.Command{
		Use:   "tagctl",
		Short: "Render e-paper tag images",
		Long: `tagctl renders the same JPEG images the tag API serves and writes
them to a file or stdout. It reads the service configuration, so fonts,
QR settings and the logo storage match the running server.`,
		SilenceUsage: true,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.deps == nil {
				return nil
			}
			return a.deps.Close()
		},
	}

	a.root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to a TOML config file (default $TAGRENDER_CONFIG)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.emergencyCmd())
	a.root.AddCommand(a.configureCmd())
	a.root.AddCommand(a.logoCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tagctl %s\n", app.Version)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// setup loads configuration and builds the shared components once.
func (a *App) setup(ctx context.Context) (*app.Deps, error) {
	if a.deps != nil {
		return a.deps, nil
	}
	if a.cfg == nil {
		var (
			cfg *config.Config
			err error
		)
		if a.cfgPath != "" {
			cfg, err = config.LoadFromFile(a.cfgPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	}
	if a.log == nil {
		lc := a.cfg.Logger()
		lc.Output = os.Stderr
		a.log = logger.New(lc)
	}

	deps, err := app.Build(ctx, a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.deps = deps
	return deps, nil
}

// sizeFlags are the canvas dimensions shared by every render command.
type sizeFlags struct {
	width  int
	height int
	output string
}

func (f *sizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "W", 800, "Canvas width in pixels")
	cmd.Flags().IntVarP(&f.height, "height", "H", 480, "Canvas height in pixels")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "Output file, - for stdout")
}

// writeTag writes t to path, or to the app output for "-".
func (a *App) writeTag(t *tag.Tag, path string) error {
	if path == "" || path == "-" {
		_, err := t.WriteTo(a.out)
		return err
	}
	if err := os.WriteFile(path, t.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%dx%d, %d bytes)\n", path, t.Width(), t.Height(), t.Len())
	return nil
}
