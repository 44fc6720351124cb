package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"clinicrev/internal/core"
	applog "clinicrev/internal/log"
	ports "clinicrev/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the export tab read when none is configured.
const DefaultSheetName = "Encounters"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ ports.ExportReader = (*Client)(nil)
	_ ports.Describer    = (*Client)(nil)
)

// Options configures a Client. Credentials are service account JSON, given
// inline or as a file path.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	ClientOptions   []goption.ClientOption
}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Encounters").
func NewFromEnv(ctx context.Context) (*Client, error) {
	return New(ctx, Options{
		SpreadsheetID:   os.Getenv("GOOGLE_SPREADSHEET_ID"),
		SheetName:       os.Getenv("GOOGLE_SHEET_NAME"),
		CredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		CredentialsFile: firstNonEmpty(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	})
}

// New creates a Sheets client from explicit options.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a read-only Sheets service from service
// account credentials. Extra client options (endpoint, HTTP client) are
// passed through, which is how tests point the client at a fake server.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	clientOpts := append([]goption.ClientOption(nil), opts.ClientOptions...)

	credentialsJSON := []byte(strings.TrimSpace(opts.CredentialsJSON))
	credentialsFile := strings.TrimSpace(opts.CredentialsFile)
	switch {
	case len(credentialsJSON) > 0:
		slog.DebugContext(ctx, "Using inline service account credentials", applog.FieldComponent, applog.ComponentSheets)
	case credentialsFile != "":
		slog.DebugContext(ctx, "Reading service account credentials", applog.FieldComponent, applog.ComponentSheets, applog.FieldPath, credentialsFile)
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	case len(clientOpts) > 0:
		// Caller supplied its own transport/credentials.
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	if len(credentialsJSON) > 0 {
		clientOpts = append(clientOpts,
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	}

	service, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ReadExport reads the whole export tab. Cells are read as formatted
// strings so dates arrive the way the export shows them.
func (c *Client) ReadExport(ctx context.Context) (core.RawTable, error) {
	if c.svc == nil {
		return core.RawTable{}, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName).
		ValueRenderOption("FORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return core.RawTable{}, fmt.Errorf("failed to read sheet %s: %w", c.sheetName, err)
	}
	tbl := parseValues(resp.Values)
	slog.InfoContext(ctx, "Read export from Google Sheets",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldOperation, applog.OpRead,
		"sheet", c.sheetName,
		"columns", len(tbl.Header),
		"rows", len(tbl.Rows))
	return tbl, nil
}

// Describe implements sheets.Describer.
func (c *Client) Describe() string {
	return fmt.Sprintf("sheets:%s!%s", c.spreadsheetID, c.sheetName)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
