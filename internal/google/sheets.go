package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"frontdesk/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService mirrors daily reports to a shared spreadsheet so the
// owner can follow the desk without touching the dashboard.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection reads the first cell of the occupancy sheet.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Occupancy!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail returns the service account email so it can be
// shown in setup instructions (the spreadsheet must be shared with it).
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// UpdateOccupancySheet rewrites the occupancy sheet with the current
// room board for the given date.
func (s *SheetsService) UpdateOccupancySheet(ctx context.Context, date time.Time, rooms []*models.Room) error {
	var values [][]interface{}

	values = append(values, []interface{}{
		fmt.Sprintf("Room board %s", date.Format("2006-01-02")),
	})
	values = append(values, []interface{}{
		"Room", "Floor", "Status", "Guest", "Check-in", "Check-out", "Source", "Issue",
	})

	for _, room := range rooms {
		values = append(values, []interface{}{
			room.Number,
			room.Floor,
			room.Status,
			room.GuestName,
			room.CheckInDate,
			room.CheckOutDate,
			room.BookingSource,
			room.MaintenanceIssue,
		})
	}

	rangeData := fmt.Sprintf("Occupancy!A1:H%d", len(values))
	valueRange := &sheets.ValueRange{Values: values}

	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update occupancy sheet: %v", err)
	}
	return nil
}

// AppendCashEntries appends ledger lines to the cash sheet.
func (s *SheetsService) AppendCashEntries(ctx context.Context, entries []models.CashEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var values [][]interface{}
	for _, entry := range entries {
		values = append(values, []interface{}{
			entry.ID,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Kind,
			entry.Amount,
			entry.StaffName,
			entry.Description,
		})
	}

	valueRange := &sheets.ValueRange{Values: values}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, "Cash!A:F", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append cash entries: %v", err)
	}
	return nil
}
