package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindcanvas/internal/config"
	"mindcanvas/internal/generator"
	"mindcanvas/internal/logging"
	"mindcanvas/internal/metrics"
	"mindcanvas/internal/repository/sqlite"
	"mindcanvas/internal/service"
)

var version = "0.3.0"

// globalFlags override values from the config file
type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "mindcanvas",
		Short: "mindcanvas: radial mind maps from a topic",
		Long: brand.Sprint("mindcanvas") + " generates, edits and renders radial mind maps\n" +
			subtle.Sprint("Serve the interactive API, or work with stored maps from the shell"),
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate("mindcanvas {{ .Version }}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: search standard locations)")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		serveCmd(&flags),
		generateCmd(&flags),
		renderCmd(&flags),
		listCmd(&flags),
		showCmd(&flags),
		exportCmd(&flags),
		importCmd(&flags),
		deleteCmd(&flags),
		agentsCmd(&flags),
		configCmd(&flags),
	)
	return root
}

// loadConfig resolves the config file and applies flag overrides
func loadConfig(flags *globalFlags) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if flags.configPath != "" {
		cfg, path, err = config.LoadFromPath(flags.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, path, nil
}

// app holds the pieces every command shares
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	repo     *sqlite.Repository
	eventBus *service.EventBus
	metrics  *metrics.Collector
	gen      *generator.Fallback
	maps     *service.MindMapService
	agents   *service.AgentService
}

func newApp(flags *globalFlags) (*app, error) {
	cfg, path, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if path != "" {
		logger.Debug("config loaded", zap.String("path", path))
	}

	if err := config.EnsureDir(dirOf(cfg.Database.Path)); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		eventBus: service.NewEventBus(),
		metrics:  metrics.NewCollector(),
	}
	a.gen = generator.FromConfig(cfg.Generator,
		generator.WithLogger(logger.Named("generator")),
		generator.WithObserver(a.metrics))
	a.maps = service.NewMindMapService(repo, a.gen, a.eventBus, a.metrics, logger)
	a.agents = service.NewAgentService(repo, a.eventBus, a.metrics, logger)
	return a, nil
}

func (a *app) Close() {
	if a.agents != nil {
		a.agents.Wait()
	}
	if err := a.repo.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
