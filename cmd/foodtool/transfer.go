package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"calorie-tracker/internal/utils/storage"
	"calorie-tracker/pkg/sharedfood"

	"github.com/spf13/cobra"
)

var (
	importFormat string
	importUser   string
	importName   string

	exportFormat string
	exportOut    string
	exportUpload bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import shared foods from JSON or CSV",
	Long: `Import a JSON array or a CSV file with a header row into the shared food store.

Records missing itemName or calories are skipped and reported. Columns the store
does not know are kept with the record.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every shared food as JSON or CSV",
	RunE:  runExport,
}

func init() {
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: json or csv (default: from extension)")
	importCmd.Flags().StringVar(&importUser, "user", "foodtool", "Contributor id recorded on imported foods")
	importCmd.Flags().StringVar(&importName, "name", "Administrator", "Contributor name recorded on imported foods")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", sharedfood.FormatJSON, "Output format: json or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Also store the export in the configured S3 bucket")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format := strings.ToLower(importFormat)
	if format == "" {
		format = sharedfood.FormatFromPath(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	svc, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Import(cmd.Context(), file, format, importUser, importName)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "imported %d, skipped %d\n", res.Imported, res.Skipped)
	for _, msg := range res.Errors {
		fmt.Fprintf(out, "  %s\n", msg)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)

	svc, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	var buf bytes.Buffer
	n, err := svc.Export(cmd.Context(), &buf, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), exportOut, buf.Bytes()); err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d foods to %s\n", n, exportOut)
	}

	if exportUpload {
		key, err := uploadExport(cmd.Context(), storage.NewAwsS3(), format, buf.Bytes(), time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "uploaded %s\n", key)
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func uploadExport(ctx context.Context, s3 storage.AwsS3, format string, data []byte, at time.Time) (string, error) {
	contentType := "application/json"
	if format == sharedfood.FormatCSV {
		contentType = "text/csv"
	}
	key := fmt.Sprintf("exports/shared-foods-%s.%s", at.UTC().Format("20060102-150405"), format)
	key, err := s3.PutObject(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return key, nil
}
