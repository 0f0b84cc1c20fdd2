// Package main provides the CLI entry point for xlsxrec.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/output"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlsxrec",
		Short: "Convert between record lists and Excel workbooks",
		Long: `xlsxrec writes lists of records (YAML or JSON) to .xlsx workbooks
and reads workbooks back into records as JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-cell fallbacks to stderr")

	rootCmd.AddCommand(newWriteCmd(), newReadCmd(), newInspectCmd())
	return rootCmd
}

func newWriteCmd() *cobra.Command {
	var (
		outputPath string
		sheetName  string
		noHeaders  bool
	)
	cmd := &cobra.Command{
		Use:   "write [input.yaml|-]",
		Short: "Write records from a YAML or JSON document to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			sheets, err := decodeInput(in, sheetName)
			if err != nil {
				return fmt.Errorf("invalid input: %w", err)
			}

			includeHeaders := !noHeaders
			opts := xlsxrec.WriteOptions{IncludeHeaders: &includeHeaders}
			if err := xlsxrec.WriteFile(outputPath, sheets, opts); err != nil {
				return fmt.Errorf("write failed: %w", err)
			}
			slog.Debug("workbook written", "path", outputPath, "sheets", len(sheets))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output workbook path")
	cmd.Flags().StringVar(&sheetName, "sheet", xlsxrec.DefaultSheetName, "Sheet name for a bare list of records")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit the header row")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newReadCmd() *cobra.Command {
	var (
		outputPath string
		sheetsDir  string
		sheetName  string
		pretty     bool
		noHeaders  bool
	)
	cmd := &cobra.Command{
		Use:   "read [input.xlsx]",
		Short: "Read a workbook into JSON records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := xlsxrec.ReadOptions{NoHeaders: noHeaders}

			var result any
			if sheetName != "" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("file not found: %s", args[0])
				}
				defer f.Close()
				records, err := xlsxrec.ReadSheet(f, sheetName, opts)
				if err != nil {
					return fmt.Errorf("read failed: %w", err)
				}
				result = records
			} else {
				wb, err := xlsxrec.ReadFile(args[0], opts)
				if err != nil {
					return fmt.Errorf("read failed: %w", err)
				}
				if sheetsDir != "" {
					paths, err := output.WriteSheetFiles(wb, sheetsDir, pretty)
					if err != nil {
						return fmt.Errorf("failed to write sheet files: %w", err)
					}
					slog.Debug("sheet files written", "count", len(paths), "dir", sheetsDir)
					if outputPath == "" {
						return nil
					}
				}
				result = wb
			}

			return emit(cmd, result, outputPath, pretty)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Read only this sheet (first sheet if not found)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Treat the first row as data")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Summarize the sheets and data ranges of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := xlsxrec.Inspect(args[0])
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}
			return emit(cmd, summary, outputPath, pretty)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

// emit writes v as JSON to outputPath, or to the command's stdout.
func emit(cmd *cobra.Command, v any, outputPath string, pretty bool) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if outputPath != "" {
		if err := output.WriteFile(outputPath, data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("file not found: %s", path)
	}
	return f, func() { f.Close() }, nil
}
