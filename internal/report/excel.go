// Package report builds downloadable exports of the monitoring history.
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/repository"
)

const (
	alertsSheet     = "Alertas"
	activitiesSheet = "Atividades"
)

// Exporter renders the alert and activity collections as a spreadsheet for
// family members and care coordinators.
type Exporter struct {
	alerts     *repository.AlertsRepository
	activities *repository.ActivitiesRepository
	logger     *zap.Logger
}

// NewExporter creates a report exporter.
func NewExporter(
	alerts *repository.AlertsRepository,
	activities *repository.ActivitiesRepository,
	logger *zap.Logger,
) *Exporter {
	return &Exporter{
		alerts:     alerts,
		activities: activities,
		logger:     logger,
	}
}

// Export writes one workbook with an alerts sheet and an activities sheet,
// optionally filtered to one elder. Rows keep the newest-first order the
// dashboard shows.
func (e *Exporter) Export(ctx context.Context, subjectID string) ([]byte, error) {
	alerts, err := e.alerts.GetAlerts(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	activities, err := e.activities.GetActivities(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeAlertsSheet(f, alerts); err != nil {
		return nil, err
	}
	if err := writeActivitiesSheet(f, activities); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	index, err := f.GetSheetIndex(alertsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to locate alerts sheet: %w", err)
	}
	f.SetActiveSheet(index)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Report exported",
		zap.String("subject_id", subjectID),
		zap.Int("alerts", len(alerts)),
		zap.Int("activities", len(activities)),
	)

	return buf.Bytes(), nil
}

func writeAlertsSheet(f *excelize.File, alerts []models.Alert) error {
	headers := []string{"ID", "Idoso", "Tipo", "Mensagem", "Data", "Status"}
	if err := writeSheet(f, alertsSheet, headers, len(alerts), func(row int) []interface{} {
		alert := alerts[row]
		return []interface{}{
			alert.ID,
			alert.SubjectName,
			alert.Category,
			alert.Message,
			alert.CreatedAt.Format("02/01/2006 15:04"),
			alert.Status,
		}
	}); err != nil {
		return err
	}

	widths := []float64{38, 24, 14, 48, 18, 16}
	return setColumnWidths(f, alertsSheet, widths)
}

func writeActivitiesSheet(f *excelize.File, activities []models.Activity) error {
	headers := []string{"ID", "Idoso", "Tipo", "Descrição", "Data"}
	if err := writeSheet(f, activitiesSheet, headers, len(activities), func(row int) []interface{} {
		activity := activities[row]
		return []interface{}{
			activity.ID,
			activity.SubjectID,
			activity.Category,
			activity.Description,
			activity.Timestamp.Format("02/01/2006 15:04"),
		}
	}); err != nil {
		return err
	}

	widths := []float64{38, 24, 14, 48, 18}
	return setColumnWidths(f, activitiesSheet, widths)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows int, rowValues func(row int) []interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for row := 0; row < rows; row++ {
		for col, value := range rowValues(row) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	return nil
}

func setColumnWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}
