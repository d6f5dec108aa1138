package export

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/models"
)

const noMark = "-"

// GSheetExporter periodically writes today's roster, one row per employee
// with the day's status, into each configured sheet.
type GSheetExporter struct {
	service   *app.Service
	scheduler *gocron.Scheduler
	targets   []target
}

// target pairs one [[gsheet]] entry with the client built from its credentials.
type target struct {
	config app.GSheetConfig
	sheets *sheets.Service
}

var newSheetsService = func(ctx context.Context, cfg app.GSheetConfig) (*sheets.Service, error) {
	return sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
}

func NewGSheetExporter(ctx context.Context, service *app.Service) (*GSheetExporter, error) {
	if len(service.Config.GSheet) == 0 {
		return nil, fmt.Errorf("no [[gsheet]] targets configured")
	}

	exporter := &GSheetExporter{
		service:   service,
		scheduler: gocron.NewScheduler(time.Local),
		targets:   make([]target, 0, len(service.Config.GSheet)),
	}

	for i, cfg := range service.Config.GSheet {
		svc, err := newSheetsService(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service for %s: %w", cfg.SheetID, err)
		}
		exporter.targets = append(exporter.targets, target{config: cfg, sheets: svc})

		_, err = exporter.scheduler.Cron(cfg.Schedule).Do(func() {
			if err := exporter.Export(context.Background(), i); err != nil {
				logger.Error.Printf("Export to sheet %s failed: %v", cfg.SheetID, err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule export: %w", err)
		}
	}

	return exporter, nil
}

func (e *GSheetExporter) Start() {
	e.scheduler.StartAsync()
}

func (e *GSheetExporter) Stop() {
	e.scheduler.Stop()
}

// Targets is the number of configured sheets, Export takes an index below it.
func (e *GSheetExporter) Targets() int {
	return len(e.targets)
}

func (e *GSheetExporter) Export(ctx context.Context, index int) error {
	if index < 0 || index >= len(e.targets) {
		return fmt.Errorf("no sheet target #%d", index)
	}
	cfg, svc := e.targets[index].config, e.targets[index].sheets

	employees, err := e.service.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	today := e.service.Today()
	snapshot, err := e.service.DailySnapshot(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load snapshot for %s: %w", today, err)
	}

	target := sheetRange(cfg)
	if _, err := svc.Spreadsheets.Values.Clear(cfg.SheetID, target, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", target, err)
	}

	rows := BuildRows(employees, snapshot, today, e.service.Now())
	_, err = svc.Spreadsheets.Values.Update(cfg.SheetID, target, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", target, err)
	}

	logger.Info.Printf("Exported %d employees for %s to sheet %s", len(employees), today, cfg.SheetID)
	return nil
}

// BuildRows lays out the sheet: a title row, a header row, then one row per employee.
func BuildRows(employees []models.Employee, snapshot map[int64]string, date string, now time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(employees)+2)
	rows = append(rows,
		[]interface{}{"Attendance " + date, "UPD: " + now.Format("2 January 15:04")},
		[]interface{}{"Employee ID", "Name", "Department", "Status"},
	)

	for _, e := range employees {
		status, ok := snapshot[e.ID]
		if !ok {
			status = noMark
		}
		rows = append(rows, []interface{}{e.EmpID, e.Name, e.Department, status})
	}
	return rows
}

func sheetRange(cfg app.GSheetConfig) string {
	if cfg.Range == "" {
		return cfg.SheetName
	}
	return fmt.Sprintf("%s!%s", cfg.SheetName, cfg.Range)
}
