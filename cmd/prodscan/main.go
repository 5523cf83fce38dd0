package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"prodscan/internal/api"
	"prodscan/internal/api/handler"
	"prodscan/internal/config"
	"prodscan/internal/notify"
	"prodscan/internal/service"
	"prodscan/internal/shiftcal"
	"prodscan/internal/store"
	"prodscan/pkg/router"
)

var (
	cfgPath string
	debug   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "prodscan",
	Short: "Shift-aware production metrics service",
	Long: `prodscan ingests scan and defect events from the factory floor and
serves shift-aware rollups: the live production board, labor-day pivot
tables, and cost-ranked defect reports.

Labor days follow the plant shift table, so records from the early-morning
tail of the night shift count toward the previous calendar day.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; a missing file is not an error.
		_ = godotenv.Load()

		if cfgPath == "" {
			cfgPath = os.Getenv("PRODSCAN_CONFIG")
		}

		zc := zap.NewProductionConfig()
		if debug || os.Getenv("PRODSCAN_DEBUG") != "" {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// buildService opens the store and wires a Service from the configuration.
// The caller owns the returned store handle.
func buildService(cfg *config.Config) (*service.Service, *store.Store, error) {
	defs, err := cfg.ShiftDefinitions()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid shift table: %w", err)
	}
	cal, err := shiftcal.New(defs)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid shift table: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid timezone: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	svc := service.New(service.Deps{
		Events:              st,
		Catalog:             st,
		Calendar:            cal,
		Logger:              logger,
		Location:            loc,
		ExcludedDefectCodes: cfg.ExcludedDefectCodes,
	})
	return svc, st, nil
}

// @title ProducScan Production Metrics API
// @version 1.0
// @description Shift-aware production and defect rollups for the factory floor.
// @BasePath /api/v1
func runServe(ctx context.Context) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	svc, st, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot-reload the defect-code exclusion list when the config file changes.
	if cfgPath != "" {
		go func() {
			err := config.Watch(ctx, cfgPath, logger, func(c *config.Config) {
				svc.SetExcludedDefectCodes(c.ExcludedDefectCodes)
			})
			if err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	broadcaster := notify.NewBroadcaster()
	h := handler.New(svc, st, broadcaster, logger)

	r := router.New()
	api.RegisterRoutes(r, h)

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	errc := make(chan error, 1)
	go func() { errc <- r.Start(cfg.ListenAddr) }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errc:
		return err
	}
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
