// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ostafen/gifreel/internal/scan"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan <path>...",
		Short:        "Decode every GIF file under the given paths and report duplicates",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	cmd.Flags().IntP("workers", "w", 0, "number of files decoded concurrently (default number of CPUs)")
	cmd.Flags().String("max-file-size", "64MB", "skip files larger than this size")
	cmd.Flags().Bool("no-log", false, "disable logging")
	cmd.Flags().String("log-dir", "", "directory where the scan log is written")
	cmd.Flags().StringP("output", "o", "", "the path of the scan report file")

	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	opts := parseScanOptions(cmd)
	_, err := scan.Scan(cmd.Context(), args, opts)
	return err
}

func parseScanOptions(cmd *cobra.Command) scan.Options {
	workers, _ := cmd.Flags().GetInt("workers")
	disableLog, _ := cmd.Flags().GetBool("no-log")
	logDir, _ := cmd.Flags().GetString("log-dir")
	outputFile, _ := cmd.Flags().GetString("output")
	strict, _ := cmd.Flags().GetBool("strict-lzw")

	return scan.Options{
		Workers:     workers,
		MaxFileSize: getBytes(cmd, "max-file-size"),
		ReportFile:  outputFile,
		LogDir:      logDir,
		DisableLog:  disableLog,
		LogLevel:    logLevel(cmd),
		StrictLZW:   strict,
		Out:         cmd.OutOrStdout(),
	}
}
