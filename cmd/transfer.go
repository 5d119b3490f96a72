package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/transfer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored family with the records of a JSON, CSV or ZIP file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored family as JSON, CSV or a ZIP bundle",
	RunE:  runExport,
}

func init() {
	importCmd.Flags().String("format", "", "json, csv or zip (default: from the file extension)")
	exportCmd.Flags().String("format", "json", "json, csv or zip")
	exportCmd.Flags().StringP("output", "o", "-", "output file, - for stdout")
	rootCmd.AddCommand(importCmd, exportCmd)
}

// formatOf picks the transfer format from an explicit flag value or a file name.
func formatOf(flag, name string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	case ".zip":
		return "zip"
	default:
		return "json"
	}
}

func decodeRecords(format string, data []byte) ([]models.Record, error) {
	switch format {
	case "json":
		return transfer.ReadJSON(bytes.NewReader(data))
	case "csv":
		return transfer.ReadCSV(bytes.NewReader(data))
	case "zip":
		return transfer.ReadArchive(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func encodeRecords(format string, w io.Writer, records []models.Record) error {
	switch format {
	case "json":
		return transfer.WriteJSON(w, records)
	case "csv":
		return transfer.WriteCSV(w, records)
	case "zip":
		return transfer.WriteArchive(w, records)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flag, _ := cmd.Flags().GetString("format")
	format := formatOf(flag, args[0])

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	records, err := decodeRecords(format, data)
	if err != nil {
		return fmt.Errorf("failed to parse %s as %s: %w", args[0], format, err)
	}

	ws, closeDB, err := openWorkspace(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := ws.Import(records)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d people (%d records skipped, %d dangling references cleared)\n",
		res.Imported, res.Skipped, res.Scrubbed)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	output, _ := cmd.Flags().GetString("output")

	ws, closeDB, err := openWorkspace(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer closeDB()

	records := ws.Records()
	var buf bytes.Buffer
	if err := encodeRecords(format, &buf, records); err != nil {
		return err
	}
	if output == "-" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d people to %s\n", len(records), output)
	return nil
}
