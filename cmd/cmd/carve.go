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

	"github.com/ostafen/gifreel/internal/carve"
)

func DefineCarveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carve <image> [<image part>...]",
		Short: "Recover GIF streams embedded in a disk image or any binary file",
		Long: `The 'carve' command searches raw data for GIF signatures and decodes every
candidate stream, keeping those that decode cleanly. Several arguments are
treated as consecutive parts of a single image. Found streams are recorded in
an XML report, which 'extract' and 'mount' accept, and can be dumped as files.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunCarve,
	}

	cmd.Flags().StringP("dump", "d", "", "dump the found streams to the specified directory")
	cmd.Flags().String("scan-buffer-size", "4MB", "the size of the search window")
	cmd.Flags().String("max-scan-size", "", "max number of bytes to scan")
	cmd.Flags().String("max-file-size", "64MB", "maximum size of a carved stream")
	cmd.Flags().Bool("no-log", false, "disable logging")
	cmd.Flags().String("log-dir", "", "directory where the carve log is written")
	cmd.Flags().StringP("output", "o", "", "the path of the carve report file")

	return cmd
}

func RunCarve(cmd *cobra.Command, args []string) error {
	_, err := carve.Run(args, parseCarveOptions(cmd))
	return err
}

func parseCarveOptions(cmd *cobra.Command) carve.RunOptions {
	dumpDir, _ := cmd.Flags().GetString("dump")
	disableLog, _ := cmd.Flags().GetBool("no-log")
	logDir, _ := cmd.Flags().GetString("log-dir")
	outputFile, _ := cmd.Flags().GetString("output")
	strict, _ := cmd.Flags().GetBool("strict-lzw")

	return carve.RunOptions{
		DumpDir:     dumpDir,
		ReportFile:  outputFile,
		MaxScanSize: getBytes(cmd, "max-scan-size"),
		BufferSize:  int(min(getBytes(cmd, "scan-buffer-size"), 1<<30)),
		MaxSize:     int64(min(getBytes(cmd, "max-file-size"), 1<<40)),
		DisableLog:  disableLog,
		LogDir:      logDir,
		LogLevel:    logLevel(cmd),
		StrictLZW:   strict,
		Out:         cmd.OutOrStdout(),
	}
}
