package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cnct/internal/domain/sales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const backend = "sheets"

// Client stores entries as rows of one Google Sheets tab. Row 1 is a header;
// deleted rows are cleared in place and skipped on read.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var (
	_ sales.StoreAPI               = (*Client)(nil)
	_ sales.BatchPercentageUpdater = (*Client)(nil)
)

type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet := strings.TrimSpace(opts.SheetName)
	if sheet == "" {
		sheet = "Sales"
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	c := &Client{svc: svc, spreadsheetID: opts.SpreadsheetID, sheet: sheet}
	if err := c.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.ServiceAccountJSON) != "":
		slog.InfoContext(ctx, "sheets: using inline service account credentials")
		credentialsJSON = []byte(opts.ServiceAccountJSON)
	case strings.TrimSpace(opts.ServiceAccountFile) != "":
		raw, err := os.ReadFile(opts.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "sheets: read service account file", "path", opts.ServiceAccountFile)
		credentialsJSON = raw
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

func (c *Client) rng(cells string) string {
	return fmt.Sprintf("'%s'!%s", c.sheet, cells)
}

func (c *Client) ensureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng("A1:L1")).Context(ctx).Do()
	if err != nil {
		return sales.WrapStorage(backend, "header", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.rng("A1:L1"), &gsheet.ValueRange{Values: [][]any{headerRow}}).
		ValueInputOption("RAW").Context(ctx).Do()
	return sales.WrapStorage(backend, "header", err)
}

func (c *Client) Append(ctx context.Context, e sales.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	vr := &gsheet.ValueRange{Values: [][]any{entryToRow(e)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.rng("A:L"), vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", sales.WrapStorage(backend, "append", err)
	}
	return e.ID, nil
}

func (c *Client) ListAll(ctx context.Context) ([]sales.Entry, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng("A2:L")).Context(ctx).Do()
	if err != nil {
		return nil, sales.WrapStorage(backend, "list", err)
	}
	out := make([]sales.Entry, 0, len(resp.Values))
	for _, row := range resp.Values {
		e, ok, err := rowToEntry(row)
		if err != nil {
			slog.WarnContext(ctx, "sheets: skipping malformed row", "err", err)
			continue
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// rowIndex maps entry IDs to 1-based sheet row numbers.
func (c *Client) rowIndex(ctx context.Context) (map[string]int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng("A:A")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 || len(row) == 0 {
			continue
		}
		if id := strings.TrimSpace(fmt.Sprint(row[0])); id != "" {
			index[id] = i + 1
		}
	}
	return index, nil
}

func (c *Client) UpdatePercentage(ctx context.Context, id string, pct decimal.Decimal) error {
	return c.UpdatePercentages(ctx, []string{id}, pct)
}

// UpdatePercentages writes every cell in a single values batchUpdate call,
// which the API applies as a whole.
func (c *Client) UpdatePercentages(ctx context.Context, ids []string, pct decimal.Decimal) error {
	index, err := c.rowIndex(ctx)
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	data := make([]*gsheet.ValueRange, 0, len(ids))
	for _, id := range ids {
		row, ok := index[id]
		if !ok {
			return sales.ErrEntryNotFound
		}
		data = append(data, &gsheet.ValueRange{
			Range:  c.rng(fmt.Sprintf("%s%d", percentageColumn, row)),
			Values: [][]any{{pct.String()}},
		})
	}
	if len(data) == 0 {
		return nil
	}
	req := &gsheet.BatchUpdateValuesRequest{ValueInputOption: "RAW", Data: data}
	_, err = c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	return sales.WrapStorage(backend, "update", err)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	index, err := c.rowIndex(ctx)
	if err != nil {
		return sales.WrapStorage(backend, "delete", err)
	}
	row, ok := index[id]
	if !ok {
		return sales.ErrEntryNotFound
	}
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, c.rng(fmt.Sprintf("A%d:L%d", row, row)), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	return sales.WrapStorage(backend, "delete", err)
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return sales.WrapStorage(backend, "ping", err)
}
