package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Goldanik/canban/internal/adapters/storage/memory"
	"github.com/Goldanik/canban/internal/adapters/storage/sqlite"
	"github.com/Goldanik/canban/internal/app"
	"github.com/Goldanik/canban/internal/config"
	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/drag"
	"github.com/Goldanik/canban/internal/placement"
	"github.com/Goldanik/canban/internal/platform"
	"github.com/Goldanik/canban/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(ctx context.Context, m tea.Model) program {
	return tea.NewProgram(m, tea.WithContext(ctx))
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flag values shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if args == nil {
		args = []string{}
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version), fang.WithoutManpage())
}

// newRootCommand builds the command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: "canban", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("CANBAN_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("CANBAN_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:   "canban",
		Short: "A mouse-driven kanban board with an idea canvas",
		Long: `canban shows workflow columns next to a free-form idea canvas.
Press and hold a card to lift it, then release it over a column or the canvas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts, stderr)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.appName, "app", opts.appName, "application name for config/log path resolution")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		&cobra.Command{
			Use:   "paths",
			Short: "Print resolved config and log paths",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				paths, err := resolvePaths(opts)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
				_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
				_, _ = fmt.Fprintf(stdout, "config: %s\n", opts.resolvedConfigPath(paths))
				_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
				return nil
			},
		},
		newConfigCommand(opts, stdout),
		newPlaceCommand(opts, stdout),
	)
	return root
}

// newConfigCommand prints the effective configuration and can seed a config file.
func newConfigCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `config prints the effective configuration as TOML. With --write it also
saves that configuration to the resolved config path, creating the directory
first. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, paths, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out, err := cfg.Encode()
			if err != nil {
				return err
			}
			if write {
				if err := writeConfigFile(opts.resolvedConfigPath(paths), out); err != nil {
					return err
				}
			}
			_, err = stdout.Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective config to the config path if no file exists")
	return cmd
}

// writeConfigFile creates path with data, refusing to replace an existing file.
func writeConfigFile(path string, data []byte) error {
	if err := config.EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir for %q: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return f.Close()
}

// resolvedConfigPath picks the flag, then CANBAN_CONFIG, then the platform default.
func (o *rootOptions) resolvedConfigPath(paths platform.Locations) string {
	if strings.TrimSpace(o.configPath) != "" {
		return o.configPath
	}
	if envPath := strings.TrimSpace(os.Getenv("CANBAN_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// resolvePaths resolves platform paths for the configured app name.
func resolvePaths(opts *rootOptions) (platform.Locations, error) {
	return platform.System().Resolve(opts.appName, opts.devMode)
}

// loadConfig resolves paths and loads the effective configuration.
func loadConfig(opts *rootOptions) (config.Config, platform.Locations, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return config.Config{}, platform.Locations{}, err
	}
	configPath := opts.resolvedConfigPath(paths)
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return config.Config{}, platform.Locations{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	return cfg, paths, nil
}

// runBoard opens the registry and runs the TUI program loop.
func runBoard(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	cfg, paths, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, paths.LogDir, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the board is active.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.shouldLogToSink(logger.consoleSink) {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Debug("runtime paths resolved", "config_path", opts.resolvedConfigPath(paths), "log_dir", paths.LogDir)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, closeRepo, err := openRepository(cfg.StorageBackend())
	if err != nil {
		logger.Error("registry open failed", "backend", cfg.StorageBackend(), "err", err)
		return err
	}
	defer func() {
		if closeErr := closeRepo(); closeErr != nil {
			logger.Warn("registry close failed", "backend", cfg.StorageBackend(), "err", closeErr)
		}
	}()
	logger.Info("registry ready", "backend", cfg.StorageBackend())

	svc := app.NewService(repo, uuid.NewString, nil, toServiceConfig(cfg, logger))
	m := tui.NewModel(svc, tui.WithRuntimeConfig(toTUIRuntimeConfig(cfg)))

	logger.Info("starting tui program loop")
	if _, err := programFactory(ctx, m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// openRepository opens the configured registry backend. Both keep board data
// in memory only.
func openRepository(backend string) (app.Repository, func() error, error) {
	switch backend {
	case config.BackendSQLite:
		repo, err := sqlite.OpenInMemory()
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite registry: %w", err)
		}
		return repo, repo.Close, nil
	case config.BackendMemory, "":
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// newPlacer builds the placement engine from config.
func newPlacer(cfg config.Config, logger placement.Logger) *placement.Engine {
	opts := []placement.Option{
		placement.WithMaxAttempts(cfg.Placement.MaxAttempts),
		placement.WithLogger(logger),
	}
	if cfg.Placement.Seed != 0 {
		opts = append(opts, placement.WithSeed(cfg.Placement.Seed))
	}
	return placement.New(opts...)
}

// toServiceConfig maps persisted config values into service options.
func toServiceConfig(cfg config.Config, logger *runtimeLogger) app.ServiceConfig {
	states := make([]app.StateTemplate, 0, len(cfg.Board.States))
	for _, state := range cfg.Board.States {
		states = append(states, app.StateTemplate{ID: state.ID, Name: state.Name, Position: state.Position})
	}
	return app.ServiceConfig{
		StateTemplates: states,
		Canvas: app.CanvasTemplate{
			ID:     cfg.Canvas.ID,
			Name:   cfg.Canvas.Name,
			Bounds: domain.Size{W: cfg.Canvas.Width, H: cfg.Canvas.Height},
		},
		Footprint: domain.Size{W: cfg.Card.Width, H: cfg.Card.Height},
		Placer:    newPlacer(cfg, logger),
		Logger:    logger,
	}
}

// toTUIRuntimeConfig maps persisted config values into runtime model options.
func toTUIRuntimeConfig(cfg config.Config) tui.RuntimeConfig {
	return tui.RuntimeConfig{
		Keys: tui.KeyConfig{
			NewIdea:      cfg.Keys.NewIdea,
			EditCard:     cfg.Keys.EditCard,
			CopyPayload:  cfg.Keys.CopyPayload,
			PastePayload: cfg.Keys.PastePayload,
			CardInfo:     cfg.Keys.CardInfo,
			ActivityLog:  cfg.Keys.ActivityLog,
		},
		Drag: drag.Config{
			HoldDelay:         cfg.HoldDelay(),
			DoubleClickWindow: cfg.DoubleClickWindow(),
			MoveThreshold:     cfg.Drag.MoveThreshold,
		},
		FixedCanvas: cfg.Canvas.Width > 0 && cfg.Canvas.Height > 0,
	}
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
