package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

type options struct {
	configPath string
	watch      bool
	exportPNG  string
	exportTXT  string
	width      int
	height     int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "mindcanvas [file]",
		Short:         "A touch-style mind-map canvas in the terminal",
		Long:          "mindcanvas edits a mind map of circular nodes joined by arrowed edges.\nThe scene is stored as JSON; it can be exported as PNG or plain text.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := ""
			if len(args) == 1 {
				filename = args[0]
			}
			return run(cmd.Context(), opts, filename)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default ~/.mindcanvas.yaml)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Reload the scene file when it changes on disk")
	flags.StringVar(&opts.exportPNG, "export-png", "", "Render the scene to a PNG file and exit")
	flags.StringVar(&opts.exportTXT, "export-txt", "", "Render the scene as text and exit")
	flags.IntVar(&opts.width, "width", 1280, "Export width in pixels")
	flags.IntVar(&opts.height, "height", 800, "Export height in pixels")
	return cmd
}

func run(ctx context.Context, opts *options, filename string) error {
	configPath, required := opts.configPath, true
	if configPath == "" {
		configPath, required = os.Getenv("MINDCANVAS_CONFIG"), true
	}
	if configPath == "" {
		configPath, required = DefaultConfigPath(), false
	}
	cfg, err := LoadConfig(configPath, required)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := setupLogger(&cfg.App)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("starting", slog.String("version", version), slog.String("file", filename))

	scene, scale := NewScene(), 1.0
	if filename != "" {
		path, err := cfg.SavePath(filename)
		if err != nil {
			return err
		}
		filename = path
		loaded, s, err := LoadFile(filename, logger)
		switch {
		case err == nil:
			scene, scale = loaded, s
		case errors.Is(err, os.ErrNotExist):
			logger.Info("new scene file", slog.String("file", filename))
		default:
			return fmt.Errorf("failed to load %s: %w", filename, err)
		}
	}

	if opts.exportPNG != "" || opts.exportTXT != "" {
		return exportHeadless(cfg, scene, opts)
	}

	m := newModel(cfg, logger, scene, scale, filename)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if opts.watch && filename != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := watchFile(watchCtx, filename, logger, func() { p.Send(fileChangedMsg{}) })
			if err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("canvas: %w", err)
	}
	logger.Info("stopped")
	return nil
}

func exportHeadless(cfg *Config, scene *Scene, opts *options) error {
	if opts.exportPNG != "" {
		if err := ExportPNG(opts.exportPNG, scene, opts.width, opts.height); err != nil {
			return fmt.Errorf("export png: %w", err)
		}
		fmt.Printf("Exported %s\n", opts.exportPNG)
	}
	if opts.exportTXT != "" {
		grid := cfg.Canvas.Grid()
		cols := int(float64(opts.width) / grid.CellWidth)
		rows := int(float64(opts.height) / grid.CellHeight)
		if err := ExportTXT(opts.exportTXT, scene, grid, cols, rows); err != nil {
			return fmt.Errorf("export txt: %w", err)
		}
		fmt.Printf("Exported %s\n", opts.exportTXT)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mindcanvas: %v\n", err)
		stop()
		os.Exit(1)
	}
}
