package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prodscan/internal/config"
	"prodscan/internal/model"
	"prodscan/internal/shiftcal"
	"prodscan/internal/store"
)

var seedDays int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo catalog and sample events into the database",
	Long: `seed fills the database with a small tool and workstation catalog and a
few days of scan and defect events, spread across all three shifts. Useful
for trying the API without a plant data feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedDays, "days", 3, "number of calendar days to generate")
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(n int) *int { return &n }

func runSeed(ctx context.Context) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	defs, err := cfg.ShiftDefinitions()
	if err != nil {
		return err
	}
	cal, err := shiftcal.New(defs)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	tools := []model.ToolCatalogEntry{
		{Name: "TM-1", Area: "EXTRUSION", Family: strPtr("MANDRILES"), Cost: floatPtr(12.50)},
		{Name: "TM-2", Area: "EXTRUSION", Family: strPtr("MANDRILES"), Cost: floatPtr(8.75)},
		{Name: "TM-3", Area: "EXTRUSION", Family: strPtr("BOQUILLAS"), Cost: floatPtr(22.00)},
		{Name: "TM-4", Area: "EXTRUSION", Family: strPtr("BOQUILLAS"), Cost: floatPtr(15.30)},
		{Name: "TM-5", Area: "CORTE", Family: strPtr("CUCHILLAS"), Cost: floatPtr(5.00)},
		{Name: "TM-6", Area: "CORTE"}, // no family, no cost on purpose
	}
	for _, tool := range tools {
		if err := st.UpsertTool(ctx, tool); err != nil {
			return fmt.Errorf("failed to seed tool %s: %w", tool.Name, err)
		}
	}

	for i := 1; i <= 6; i++ {
		ws := model.WorkstationCatalogEntry{
			Number: fmt.Sprintf("%d", i),
			Label:  fmt.Sprintf("MESA #%d", i),
			Target: intPtr(1800),
		}
		if i == 6 {
			ws.Target = nil // exercises the default target path
		}
		if err := st.UpsertWorkstation(ctx, ws); err != nil {
			return fmt.Errorf("failed to seed workstation %s: %w", ws.Label, err)
		}
	}

	codes := []struct{ code, desc string }{
		{"CRACK", "Grieta en superficie"},
		{"BURR", "Rebaba"},
		{"DIM", "Fuera de dimension"},
		{"SCRAP", "Material de arranque"},
	}
	operators := []string{"100", "101", "102", "205", "206"}

	rng := rand.New(rand.NewSource(42))
	start := time.Now().In(loc).AddDate(0, 0, -seedDays)
	scans, defects := 0, 0

	for day := 0; day < seedDays; day++ {
		base := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, day)
		for hour := 0; hour < 24; hour++ {
			for n := 0; n < 4+rng.Intn(4); n++ {
				ts := base.Add(time.Duration(hour)*time.Hour + time.Duration(rng.Intn(3600))*time.Second)
				shiftID, _ := cal.Resolve(ts)
				station := fmt.Sprintf("MESA #%d", 1+rng.Intn(6))
				op := operators[rng.Intn(len(operators))]
				tool := tools[rng.Intn(len(tools))].Name

				scan := model.ScanEvent{
					Date:        base,
					TimeOfDay:   ts.Sub(base),
					Workstation: station,
					Operator:    op,
					Tool:        tool,
					Quantity:    fmt.Sprintf("%d", 1+rng.Intn(30)),
					Shift:       shiftID,
				}
				if _, err := st.InsertScanEvent(ctx, scan); err != nil {
					return fmt.Errorf("failed to seed scan: %w", err)
				}
				scans++

				if rng.Intn(10) == 0 {
					c := codes[rng.Intn(len(codes))]
					defect := model.DefectEvent{
						Date:        base,
						TimeOfDay:   ts.Sub(base),
						Workstation: station,
						Operator:    op,
						Tool:        tool,
						Code:        c.code,
						Description: c.desc,
						Shift:       shiftID,
					}
					if _, err := st.InsertDefectEvent(ctx, defect); err != nil {
						return fmt.Errorf("failed to seed defect: %w", err)
					}
					defects++
				}
			}
		}
	}

	logger.Info("seed complete",
		zap.Int("tools", len(tools)),
		zap.Int("workstations", 6),
		zap.Int("scans", scans),
		zap.Int("defects", defects))
	return nil
}
