package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"calorie-tracker/pkg/convert"
	"calorie-tracker/pkg/sharedfood"

	"github.com/spf13/cobra"
)

var (
	convertFrom  string
	convertTo    string
	convertOut   string
	convertQuiet bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <in>",
	Short: "Convert a food dataset into the shared food shape",
	Long: `Read a JSON or CSV food list with loosely named columns (name, food_name,
kcal, carbohydrates, ...) and write it as canonical JSON or CSV, ready for
"foodtool import".

Records without a usable name are skipped. Numbers that cannot be parsed
become 0. Both are reported on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFrom, "from", "f", "", "Input format: json or csv (default: from extension)")
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", sharedfood.FormatJSON, "Output format: json or csv")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Output file (default: stdout)")
	convertCmd.Flags().BoolVarP(&convertQuiet, "quiet", "q", false, "Do not print warnings")
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	from := strings.ToLower(convertFrom)
	if from == "" {
		from = sharedfood.FormatFromPath(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := convert.Read(file, from)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := convert.Write(&buf, convertTo, res.Records); err != nil {
		return fmt.Errorf("write %s: %w", convertTo, err)
	}
	if err := writeOutput(cmd.OutOrStdout(), convertOut, buf.Bytes()); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if !convertQuiet {
		for _, w := range res.Warnings {
			fmt.Fprintf(stderr, "warning: %s\n", w)
		}
	}
	fmt.Fprintf(stderr, "converted %d records, skipped %d\n", len(res.Records), res.Skipped)
	return nil
}
