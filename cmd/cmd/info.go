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
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ostafen/gifreel/internal/env"
	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/internal/scan"
	"github.com/ostafen/gifreel/pkg/report"
	"github.com/ostafen/gifreel/pkg/util/format"
)

func DefineInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "info <file>",
		Short:        "Describe the structure and frames of a GIF file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}
	cmd.Flags().StringP("report", "r", "", "also write an XML report to the given file")
	return cmd
}

func RunInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	finfo, err := os.Stat(path)
	if err != nil {
		return err
	}

	log := newLogger(cmd)
	anim, err := gif.DecodeFile(path, decodeOptions(cmd, log)...)
	if err != nil {
		return err
	}

	printAnimation(cmd.OutOrStdout(), path, finfo.Size(), anim)

	reportFile, _ := cmd.Flags().GetString("report")
	if reportFile == "" {
		return nil
	}
	return writeSingleReport(reportFile, scan.Entry(path, finfo.Size(), anim))
}

func writeSingleReport(path string, entry report.Animation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := report.NewWriter(f)
	if err := w.WriteHeader(report.NewHeader(env.AppName, env.Version, "")); err != nil {
		return err
	}
	if err := w.WriteAnimation(entry); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

func printAnimation(w io.Writer, path string, size int64, anim *gif.Animation) {
	field := func(name, layout string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprintf("%-13s", name+":"), fmt.Sprintf(layout, args...))
	}

	scr := anim.Screen
	field("File", "%s (%s)", path, format.FormatBytes(size))
	field("Version", "GIF%s", anim.Version)
	field("Screen", "%dx%d, color resolution %d bits", scr.Width, scr.Height, scr.ColorResolution)

	if num, den, ok := scr.AspectRatio(); ok {
		field("Aspect", "%d/%d", num, den)
	}

	if anim.GlobalColorTable != nil {
		field("Global table", "%d colors%s, background %d", len(anim.GlobalColorTable), sortedSuffix(scr.Sorted), scr.BackgroundIndex)
	} else {
		field("Global table", "none (default palette)")
	}

	field("Loop", "%s", loopString(anim.LoopCount))
	field("Duration", "%s", anim.TotalDuration())
	field("Blocks", "%d", anim.Blocks)
	field("Fingerprint", "%s", gif.FormatFingerprint(anim.Fingerprint()))

	for _, c := range anim.Comments {
		field("Comment", "%q", c)
	}
	for _, app := range anim.Applications {
		field("Application", "%s%s", app.Identifier, app.AuthCode)
	}
	for _, pt := range anim.PlainTexts {
		field("Plain text", "%q at %d,%d", pt.Text, pt.Left, pt.Top)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", labelColor.Sprintf("Frames (%d):", len(anim.Frames)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRECT\tDELAY\tDISPOSAL\tTRANSPARENT\tFLAGS")
	for _, f := range anim.Frames {
		transparent := "-"
		if f.Transparent >= 0 {
			transparent = fmt.Sprint(f.Transparent)
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			f.Index, f.Bounds, f.Duration, f.Disposal, transparent, frameFlags(f))
	}
	tw.Flush()
}

func frameFlags(f *gif.Frame) string {
	var flags []string
	if f.Interlaced {
		flags = append(flags, "interlaced")
	}
	if f.LocalTable {
		flags = append(flags, "local-table")
	}
	if !f.Complete {
		flags = append(flags, warnColor.Sprint("incomplete"))
	}
	return strings.Join(flags, ",")
}

func loopString(n int) string {
	switch {
	case n < 0:
		return "play once"
	case n == 0:
		return "forever"
	default:
		return fmt.Sprintf("%d extra plays", n)
	}
}

func sortedSuffix(sorted bool) string {
	if sorted {
		return " (sorted)"
	}
	return ""
}
