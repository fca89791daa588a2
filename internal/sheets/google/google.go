// Package google writes monthly ledger reports to a Google Sheets
// spreadsheet using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ledger/internal/core"
	ports "ledger/internal/sheets"
)

var _ ports.ReportWriter = (*Client)(nil)

// Config selects the spreadsheet and credentials. One of CredentialsJSON
// and CredentialsFile must be set.
type Config struct {
	SpreadsheetID   string
	SheetBase       string // tab name without the year prefix
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

// New creates a Sheets client authenticated as a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	base := strings.TrimSpace(cfg.SheetBase)
	if base == "" {
		base = "Report"
	}

	creds, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := newSheetsService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetBase: base}, nil
}

func credentialsJSON(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

func newSheetsService(ctx context.Context, creds []byte) (*gsheet.Service, error) {
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created")
	return svc, nil
}

// WriteMonthlyReport replaces the contents of the year's report tab with st,
// creating the tab when needed.
func (c *Client) WriteMonthlyReport(ctx context.Context, st core.MonthlyStats) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	sheet := yearPrefixedName(c.sheetBase, st.Year)

	if err := c.ensureSheet(ctx, sheet); err != nil {
		return err
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, quoteSheet(sheet), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}

	vr := &gsheet.ValueRange{Values: ReportRows(st)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoteSheet(sheet)+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Monthly report exported",
		"sheet", sheet,
		"year", st.Year,
		"month", st.Month,
		"categories", len(st.ByCategory))
	return nil
}

func (c *Client) ensureSheet(ctx context.Context, title string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return nil
}

// ReportRows lays out st as a summary block followed by the category
// breakdown.
func ReportRows(st core.MonthlyStats) [][]interface{} {
	rows := [][]interface{}{
		{fmt.Sprintf("%s %d", st.MonthName, st.Year)},
		{"Total income", st.TotalIncome.String()},
		{"Total expenses", st.TotalExpenses.String()},
		{"Balance", st.Balance.String()},
		{"Daily average income", st.DailyAverageIncome.String()},
		{"Daily average expense", st.DailyAverageExpense.String()},
		{"Net daily", st.NetDaily.String()},
		{"Transactions this month", st.MonthTransactionCount},
		{"Categories used", st.CategoriesUsed},
		{},
		{"Category", "Total", "Count", "Percentage"},
	}
	if len(st.ByCategory) == 0 && st.EmptyMessage != "" {
		return append(rows, []interface{}{st.EmptyMessage})
	}
	for _, row := range st.ByCategory {
		rows = append(rows, []interface{}{
			row.Category.Name,
			row.Total.String(),
			row.Count,
			strconv.FormatFloat(row.Percentage, 'f', 1, 64) + "%",
		})
	}
	return rows
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
