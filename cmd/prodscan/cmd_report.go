package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prodscan/internal/config"
	"prodscan/internal/report"
	"prodscan/internal/service"
)

var (
	reportFrom string
	reportTo   string
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write pivot, cost and board reports to disk",
	Long: `report runs the aggregation offline and writes the labor-day summary
pivot, the per-family cost breakdown, and a board snapshot for each shift of
the last labor day into a fresh run directory under --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first labor day (YYYY-MM-DD), defaults to 7 days ago")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last labor day (YYYY-MM-DD), defaults to today")
	reportCmd.Flags().StringVar(&reportOut, "out", "reports", "base output directory")
}

func runReport(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	svc, st, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	now := svc.LocalNow()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if reportTo != "" {
		if to, err = time.ParseInLocation("2006-01-02", reportTo, loc); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}
	from := to.AddDate(0, 0, -7)
	if reportFrom != "" {
		if from, err = time.ParseInLocation("2006-01-02", reportFrom, loc); err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
	}
	if err := service.ValidateRange(from, to); err != nil {
		return err
	}

	ctx := cmd.Context()
	w, err := report.NewWriter(reportOut)
	if err != nil {
		return err
	}
	var results []report.Result

	summary, err := svc.Summary(ctx, from, to)
	if err != nil {
		return err
	}
	res, err := w.WritePivotCSV("summary.csv", *summary)
	if err != nil {
		return err
	}
	results = append(results, res)

	cost, err := svc.BuildCostReport(ctx, from, to)
	if err != nil {
		return err
	}
	res, err = w.WriteCostCSV("cost.csv", *cost)
	if err != nil {
		return err
	}
	results = append(results, res)

	for _, shift := range cfg.Shifts {
		rows, err := svc.Board(ctx, to, shift.ID, "")
		if err != nil {
			return err
		}
		res, err = w.WriteBoardCSV(fmt.Sprintf("board_shift_%s.csv", shift.ID), rows)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	manifest, err := w.WriteManifest(results)
	if err != nil {
		return err
	}
	logger.Info("report written",
		zap.String("run_id", w.RunID),
		zap.String("dir", w.Dir()),
		zap.String("manifest", manifest),
		zap.Int("files", len(results)))
	return nil
}
