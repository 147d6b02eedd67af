package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkazlauskas/bendrija-ingest/internal/extract"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Run the deterministic extraction chain on a local file",
	Example: `  # Parse combined statement text exported from a PDF
  slipctl parse statements.txt --period 2024-01

  # Parse a spreadsheet export
  slipctl parse statements.xlsx -o slips.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("period", "p", "", "Billing period as YYYY-MM, used when a slip carries no date")
	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runParse(cmd *cobra.Command, args []string) error {
	period, _ := cmd.Flags().GetString("period")
	outputPath, _ := cmd.Flags().GetString("output")
	path := args[0]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	in := extract.Input{PeriodMonth: period, FileName: filepath.Base(path)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err := extract.RowsFromWorkbook(f)
		if err != nil {
			return fmt.Errorf("reading workbook: %w", err)
		}
		in.Rows = rows
	case ".txt", ".text", "":
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		in.Text = string(raw)
	default:
		return fmt.Errorf("unsupported file type %q, expected .txt or .xlsx", filepath.Ext(path))
	}

	chain := []extract.Extractor{
		extract.NewStatementTextExtractor(logger),
		extract.NewTabularRowsExtractor(logger),
	}
	slips, source, err := extract.RunChain(context.Background(), chain, in)
	if err != nil {
		return err
	}
	if len(slips) == 0 {
		fmt.Fprintln(os.Stderr, "no slips found")
		return nil
	}

	out := struct {
		Source string      `json:"source"`
		Count  int         `json:"count"`
		Slips  interface{} `json:"slips"`
	}{Source: string(source), Count: len(slips), Slips: slips}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, append(encoded, '\n'), 0o644)
	}
	fmt.Println(string(encoded))
	return nil
}
