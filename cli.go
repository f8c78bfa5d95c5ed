package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cellpaint/internal/codec"
	"cellpaint/internal/render"
	"cellpaint/internal/storage"
	"cellpaint/internal/store"
)

var version = "dev"

// errNeedsForce is returned by destructive commands run without --force
// while confirmations are enabled.
var errNeedsForce = errors.New("refusing without --force")

// errNotSaved is returned when a headless command's change could not be
// written to storage.
var errNotSaved = errors.New("drawing not saved")

type cliOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:     "cellpaint",
		Version: version,
		Short:   "Paint on a grid of colored cells in the terminal",
		Long: `cellpaint is a terminal editor for a bounded grid of colored cells.

Draw, erase, flood-fill and paint freehand strokes with the mouse or keyboard.
The drawing is saved to the configured storage after every edit, and the
subcommands import, export and rasterize it without opening the editor.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cellpaint/config.toml or ~/.cellpaintrc)")
	pf.String("storage", "", "storage backend: memory, file or sqlite")
	pf.String("storage-path", "", "storage directory (file) or database path (sqlite)")
	pf.String("key", "", "storage key of the drawing")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text, json or logfmt")

	f := root.Flags()
	f.Int("rows", 0, "grid rows (8-128)")
	f.Int("cols", 0, "grid columns (8-128)")
	f.String("color", "", "initial paint color")

	root.AddCommand(
		newImportCmd(opts),
		newExportCmd(opts),
		newPNGCmd(opts),
		newClearCmd(opts),
	)
	return root
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	strs := map[string]*string{
		"storage":      &cfg.Storage.Backend,
		"storage-path": &cfg.Storage.Path,
		"key":          &cfg.Storage.Key,
		"log-level":    &cfg.Log.Level,
		"log-format":   &cfg.Log.Format,
		"color":        &cfg.Color,
	}
	for name, dst := range strs {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	ints := map[string]*int{
		"rows": &cfg.Rows,
		"cols": &cfg.Cols,
	}
	for name, dst := range ints {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt(name)
		}
	}
}

func resolveConfig(cmd *cobra.Command, opts *cliOptions) (*Config, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, cmd.Flags())
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logConfig(logger *log.Logger, cfg *Config) {
	if cfg.source != "" {
		logger.Debug("config loaded", "path", cfg.source)
	}
	if len(cfg.unknown) > 0 {
		logger.Warn("unknown config keys ignored", "path", cfg.source, "keys", cfg.unknown)
	}
}

// openStore opens the configured storage and restores the saved drawing.
func openStore(cfg *Config, logger *log.Logger) (*store.Store, storage.KV, error) {
	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	s := store.New(store.Options{
		Rows:          cfg.Rows,
		Cols:          cfg.Cols,
		SelectedColor: cfg.Color,
		BrushWidth:    cfg.StrokeWidth,
		MaxHistory:    cfg.MaxHistory,
		Storage:       kv,
		StorageKey:    cfg.Storage.Key,
		Logger:        logger,
	})
	if s.LoadFromStorage() {
		logger.Debug("drawing restored", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key,
			"rows", s.Rows(), "cols", s.Cols())
	}
	return s, kv, nil
}

func runEditor(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := editorLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	logConfig(logger, cfg)

	s, kv, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	// Flags given on the command line win over the restored drawing.
	fs := cmd.Flags()
	if fs.Changed("rows") || fs.Changed("cols") {
		s.SetGridSize(cfg.Rows, cfg.Cols)
	}
	if fs.Changed("color") {
		s.SetSelectedColor(cfg.Color)
	}

	p := tea.NewProgram(
		newModel(s, cfg, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

// withStore runs fn against the configured store with a stderr logger.
func withStore(cmd *cobra.Command, opts *cliOptions, fn func(*Config, *store.Store) error) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logConfig(logger, cfg)
	s, kv, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer kv.Close()
	return fn(cfg, s)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

func newImportCmd(opts *cliOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the stored drawing with a JSON file (or stdin)",
		Long: `Import a JSON drawing into storage.

Malformed fields are defaulted or dropped; a payload whose rows, cols or grid
have the wrong type is rejected and storage is left untouched. Use --dry-run
to see what would be normalized without writing anything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if dryRun {
				st, rep, err := codec.DecodeReport(data)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), st, rep)
				return nil
			}
			return withStore(cmd, opts, func(_ *Config, s *store.Store) error {
				return importInto(cmd.OutOrStdout(), s, data)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "decode and report without writing")
	return cmd
}

// importInto replaces the drawing in s with data. The write to storage is
// the whole point of a headless import, so a failed write is an error here.
func importInto(w io.Writer, s *store.Store, data []byte) error {
	if err := s.Deserialize(data); err != nil {
		return err
	}
	if err := s.PersistError(); err != nil {
		return fmt.Errorf("%w: %w", errNotSaved, err)
	}
	fmt.Fprintf(w, "imported %dx%d grid, %d strokes\n", s.Rows(), s.Cols(), len(s.Strokes()))
	return nil
}

func printReport(w io.Writer, st codec.State, rep codec.Report) {
	fmt.Fprintf(w, "grid:            %dx%d\n", st.Rows, st.Cols)
	fmt.Fprintf(w, "strokes:         %d\n", len(st.Strokes))
	fmt.Fprintf(w, "clamped dims:    %v\n", rep.ClampedDims)
	fmt.Fprintf(w, "coerced cells:   %d\n", rep.CoercedCells)
	fmt.Fprintf(w, "dropped strokes: %d\n", rep.DroppedStrokes)
	fmt.Fprintf(w, "dropped points:  %d\n", rep.DroppedPoints)
	if len(rep.DefaultedFields) > 0 {
		fmt.Fprintf(w, "defaulted:       %v\n", rep.DefaultedFields)
	}
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the stored drawing as JSON to a file (or stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *Config, s *store.Store) error {
				payload := s.Serialize()
				if len(args) == 0 || args[0] == "-" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), payload)
					return err
				}
				if err := writeFileAtomic(args[0], []byte(payload)); err != nil {
					return fmt.Errorf("write %s: %w", args[0], err)
				}
				return nil
			})
		},
	}
}

func newPNGCmd(opts *cliOptions) *cobra.Command {
	var ro render.Options
	cmd := &cobra.Command{
		Use:   "png <file>",
		Short: "Rasterize the stored drawing to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *Config, s *store.Store) error {
				return render.SavePNG(args[0], s.PersistedState(), ro)
			})
		},
	}
	cmd.Flags().Float64Var(&ro.CellSize, "cell-size", render.DefaultCellSize, "cell edge in pixels")
	cmd.Flags().BoolVar(&ro.GridLines, "grid", false, "draw grid lines")
	cmd.Flags().BoolVar(&ro.Rulers, "rulers", false, "draw row and column numbers")
	return cmd
}

func newClearCmd(opts *cliOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the stored drawing",
		Long: `Empty the stored grid and drop all paint strokes.

Grid size, zoom, pan and color are kept. When confirmations are enabled in the
config, --force is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(cfg *Config, s *store.Store) error {
				if cfg.Confirmations && !force {
					return fmt.Errorf("clear: %w (confirmations are enabled)", errNeedsForce)
				}
				s.Clear()
				if err := s.PersistError(); err != nil {
					return fmt.Errorf("%w: %w", errNotSaved, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %dx%d grid\n", s.Rows(), s.Cols())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "clear without confirmation")
	return cmd
}
