package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"frontdesk/internal/database"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelReportBuilder renders ledger and occupancy reports as xlsx files
// under the configured export directory.
type ExcelReportBuilder struct {
	db     *database.DB
	path   string
	logger *zerolog.Logger
}

func NewExcelReportBuilder(db *database.DB, path string, logger *zerolog.Logger) *ExcelReportBuilder {
	return &ExcelReportBuilder{
		db:     db,
		path:   path,
		logger: logger,
	}
}

// BuildLedger writes the cash ledger for the range with a running
// balance column and returns the file path.
func (b *ExcelReportBuilder) BuildLedger(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(b.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	entries, err := b.db.ListCashEntries(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting cash entries: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Ledger"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Petty cash: %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))

	headers := []string{"Date", "Kind", "Amount", "Staff", "Description", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	var balance float64
	for i, entry := range entries {
		row := i + 3
		amount := entry.Amount
		if entry.Kind == models.CashOut {
			amount = -amount
		}
		balance += amount

		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.CreatedAt.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.Kind)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.Amount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.StaffName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), entry.Description)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), balance)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 20)
	_ = f.SetColWidth(sheetName, "E", "E", 40)

	_ = f.MergeCell(sheetName, "A1", "F1")
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("ledger_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(b.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Int("entries", len(entries)).Msg("ledger report created")
	return filePath, nil
}

// BuildOccupancy writes a two-week grid, one row per room and one
// column per day, with the guest name in every occupied cell.
func (b *ExcelReportBuilder) BuildOccupancy(ctx context.Context, date time.Time) (string, error) {
	if err := os.MkdirAll(b.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 14)

	rooms, err := b.db.ListRooms(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting rooms: %v", err)
	}
	bookings, err := b.db.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	byRoom := make(map[int64][]models.Booking)
	for _, booking := range bookings {
		if booking.Status == models.BookingCancelled {
			continue
		}
		byRoom[booking.RoomID] = append(byRoom[booking.RoomID], booking)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Occupancy"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Occupancy: %s - %s",
		start.Format("02.01.2006"), end.AddDate(0, 0, -1).Format("02.01.2006")))

	// date headers across row 2
	for day := 0; day < 14; day++ {
		cell, _ := excelize.CoordinatesToCellName(day+2, 2)
		_ = f.SetCellValue(sheetName, cell, start.AddDate(0, 0, day).Format("02.01"))
	}

	for i, room := range rooms {
		row := i + 3
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, room.Number)

		for day := 0; day < 14; day++ {
			dayStart := start.AddDate(0, 0, day)
			dayEnd := dayStart.AddDate(0, 0, 1)
			for _, booking := range byRoom[room.ID] {
				if booking.StartAt.Before(dayEnd) && dayStart.Before(booking.EndAt) {
					cell, _ := excelize.CoordinatesToCellName(day+2, row)
					_ = f.SetCellValue(sheetName, cell, booking.GuestName)
					break
				}
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)

	lastCol, _ := excelize.ColumnNumberToName(15)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("occupancy_%s.xlsx", start.Format("2006-01-02"))
	filePath := filepath.Join(b.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Int("rooms", len(rooms)).Msg("occupancy report created")
	return filePath, nil
}
