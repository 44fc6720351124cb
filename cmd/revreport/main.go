package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clinicrev/internal/amqp"
	"clinicrev/internal/cleaning"
	"clinicrev/internal/cli"
	"clinicrev/internal/config"
	"clinicrev/internal/export"
	applog "clinicrev/internal/log"
	"clinicrev/internal/pipeline"
	"clinicrev/internal/rates"
	"clinicrev/internal/services"
	"clinicrev/internal/sheets"
	"clinicrev/internal/sheets/csvfile"
	gsheet "clinicrev/internal/sheets/google"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	rootCmd := &cobra.Command{
		Use:           "revreport",
		Short:         "Monthly revenue report from a clinical encounter export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(ratesCmd())

	if err := rootCmd.Execute(); err != nil {
		var schemaErr *cleaning.SchemaError
		if errors.As(err, &schemaErr) {
			fmt.Fprintf(os.Stderr, "export is missing required columns: %s\n", strings.Join(schemaErr.Missing, ", "))
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute revenue and write the monthly reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := cli.SetupLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return runReport(ctx, cfg, logger)
		},
	}
	cmd.Flags().String("input", "", "Path to the CSV export (INPUT_PATH)")
	cmd.Flags().String("source", "", "Export source: csv or sheets (INPUT_SOURCE)")
	cmd.Flags().String("out", "", "Output directory (OUTPUT_DIR)")
	cmd.Flags().String("format", "", "Comma-separated output formats: csv, parquet, json (OUTPUT_FORMATS)")
	cmd.Flags().String("takeover", "", "Takeover date, YYYY-MM-DD (TAKEOVER_DATE)")
	cmd.Flags().String("rates", "", "Rate overrides CSV (RATE_OVERRIDES_FILE)")
	cmd.Flags().Int("workers", 0, "Row pricing parallelism (WORKERS)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	return cmd
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the effective rate table per fiscal year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, cfg)
			table, err := cli.LoadRates(cfg.RateOverridesFile)
			if err != nil {
				return err
			}
			return printRates(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().String("rates", "", "Rate overrides CSV (RATE_OVERRIDES_FILE)")
	return cmd
}

// applyFlags overrides environment values with flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("input", &cfg.InputPath)
	str("source", &cfg.InputSource)
	str("out", &cfg.OutputDir)
	str("takeover", &cfg.TakeoverDate)
	str("rates", &cfg.RateOverridesFile)
	str("log-level", &cfg.LogLevel)
	if flags.Lookup("format") != nil && flags.Changed("format") {
		v, _ := flags.GetString("format")
		cfg.OutputFormats = config.SplitList(v)
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
}

func openReader(ctx context.Context, cfg *config.Config) (sheets.ExportReader, error) {
	switch cfg.InputSource {
	case config.SourceSheets:
		cli, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		return cli, nil
	default:
		return csvfile.New(cfg.InputPath), nil
	}
}

func runReport(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	appLogger := logger.WithComponent(applog.ComponentApp)
	appLogger.Info("Starting revreport",
		applog.FieldSource, cfg.InputSource,
		"workers", cfg.Workers,
	)

	table, err := cli.LoadRates(cfg.RateOverridesFile)
	if err != nil {
		return err
	}
	takeover, err := cfg.Takeover()
	if err != nil {
		return fmt.Errorf("parse takeover date: %w", err)
	}
	formats, err := export.ParseFormats(strings.Join(cfg.OutputFormats, ","))
	if err != nil {
		return err
	}

	reader, err := openReader(ctx, cfg)
	if err != nil {
		return err
	}

	// Publishing is optional; a broker outage must not block the report.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			appLogger.Warn("AMQP unavailable, report message will not be published", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	p := pipeline.New(table,
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(logger.WithComponent(applog.ComponentPipeline)),
	)
	w := export.NewWriter(cfg.OutputDir, formats, logger)
	svc := services.NewReportService(reader, p, w, publisher, takeover, appLogger)

	out, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	res := out.Result
	fmt.Printf("run %s: %d of %d rows kept, %d months, revenue %s\n",
		res.RunID, res.Filter.Kept, res.RawRows, len(res.Rollups.Total), res.TotalRevenue())
	if n := res.UnpricedEncounters(); n > 0 {
		appLogger.Warn("Encounters priced at zero", "count", n)
	}
	return nil
}

func printRates(w io.Writer, table *rates.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FISCAL_YEAR\tCODE\tCATEGORY\tRATE")
	for _, fy := range table.Years() {
		for _, code := range table.Codes() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", fy, code, table.Category(code), table.Rate(code, fy))
		}
	}
	return tw.Flush()
}
