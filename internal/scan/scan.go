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
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/ostafen/gifreel/internal/env"
	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/internal/logger"
	"github.com/ostafen/gifreel/pkg/pbar"
	"github.com/ostafen/gifreel/pkg/report"
	fmtutil "github.com/ostafen/gifreel/pkg/util/format"
	osutil "github.com/ostafen/gifreel/pkg/util/os"
)

type Options struct {
	Workers     int
	MaxFileSize uint64 // zero means no limit
	ReportFile  string
	LogDir      string
	DisableLog  bool
	LogLevel    slog.Level
	StrictLZW   bool

	// Out receives progress and summary lines. Defaults to os.Stdout.
	Out io.Writer
}

// Summary describes a completed scan.
type Summary struct {
	Session string
	Files   int
	Decoded int
	Failed  int
	Skipped int
	Bytes   int64

	// Duplicates maps a fingerprint to the files sharing it, for every
	// fingerprint seen more than once, in input order.
	Duplicates map[string][]string

	ReportFile string
	LogFile    string
	Elapsed    time.Duration
}

type result struct {
	entry   report.Animation
	size    int64
	failed  bool
	skipped bool
}

// Scan decodes every GIF found under paths with a bounded pool of
// workers and writes one report entry per file. Per file failures are
// recorded in the report and do not stop the scan.
func Scan(ctx context.Context, paths []string, opts Options) (*Summary, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	files, err := osutil.ListFiles(paths, ".gif")
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Session:    GenSessionID(),
		Files:      len(files),
		Duplicates: make(map[string][]string),
	}

	sum.ReportFile = opts.ReportFile
	if sum.ReportFile == "" {
		sum.ReportFile = fmt.Sprintf("report_%s.xml", sum.Session)
	}

	if !opts.DisableLog {
		sum.LogFile = absPath(filepath.Join(opts.LogDir, sum.Session) + ".log")
	}

	outLog := "disabled"
	if !opts.DisableLog {
		outLog = sum.LogFile
	}

	printInfo(out, "Starting scan operation...\n")
	printInfo(out, "Files: \t%d\n", len(files))
	printInfo(out, "Workers: \t%d\n", workers)
	printInfo(out, "Output Log: \t%s\n", outLog)

	log, logFile, err := logger.Setup(sum.LogFile, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	start := time.Now()
	bar := pbar.New(out, int64(len(files)), "files")
	results := make([]result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = scanFile(path, opts, log.With("file", path))
			if !results[i].failed && !results[i].skipped {
				bar.Found(1)
			}
			bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	bar.Finish()

	groups := make(map[string][]string)
	for i := range results {
		r := &results[i]
		sum.Bytes += r.size

		switch {
		case r.skipped:
			sum.Skipped++
		case r.failed:
			sum.Failed++
		default:
			sum.Decoded++

			fp := r.entry.Fingerprint
			if prev := groups[fp]; len(prev) > 0 {
				r.entry.DuplicateOf = prev[0]
			}
			groups[fp] = append(groups[fp], files[i])
		}
	}

	for fp, group := range groups {
		if len(group) > 1 {
			sum.Duplicates[fp] = group
		}
	}

	if err := writeReport(sum, results); err != nil {
		return nil, err
	}
	sum.Elapsed = time.Since(start)

	printSummary(out, sum)
	return sum, nil
}

func scanFile(path string, opts Options, log *slog.Logger) result {
	res := result{entry: report.Animation{Filename: path}}

	finfo, err := os.Stat(path)
	if err != nil {
		log.Error("unable to stat file", "err", err)
		res.failed = true
		res.entry.Error = err.Error()
		return res
	}

	res.size = finfo.Size()
	res.entry.FileSize = uint64(finfo.Size())

	if opts.MaxFileSize > 0 && uint64(finfo.Size()) > opts.MaxFileSize {
		log.Info("file skipped", "size", finfo.Size(), "max", opts.MaxFileSize)
		res.skipped = true
		res.entry.Error = "skipped: exceeds max file size"
		return res
	}

	anim, err := gif.DecodeFile(path,
		gif.WithLogger(log),
		gif.WithStrictLZW(opts.StrictLZW),
	)
	if err != nil {
		log.Warn("decode failed", "err", err)
		res.failed = true
		res.entry.Error = err.Error()
		return res
	}

	res.entry = Entry(path, finfo.Size(), anim)
	log.Debug("decoded", "frames", len(anim.Frames), "fingerprint", res.entry.Fingerprint)
	return res
}

// Entry summarizes a decoded animation as a report record.
func Entry(path string, size int64, anim *gif.Animation) report.Animation {
	entry := report.Animation{
		Filename:    path,
		FileSize:    uint64(size),
		Format:      anim.Version,
		Width:       anim.Screen.Width,
		Height:      anim.Screen.Height,
		LoopCount:   anim.LoopCount,
		DurationMS:  anim.TotalDuration().Milliseconds(),
		Fingerprint: gif.FormatFingerprint(anim.Fingerprint()),
		Comments:    anim.Comments,
	}

	for _, f := range anim.Frames {
		entry.Frames.Frames = append(entry.Frames.Frames, report.Frame{
			Index:       f.Index,
			Left:        f.Bounds.Min.X,
			Top:         f.Bounds.Min.Y,
			Width:       f.Bounds.Dx(),
			Height:      f.Bounds.Dy(),
			DelayMS:     f.Duration.Milliseconds(),
			Disposal:    f.Disposal.String(),
			Transparent: f.Transparent,
			Interlaced:  f.Interlaced,
			Incomplete:  !f.Complete,
		})
	}
	entry.Frames.Count = len(entry.Frames.Frames)
	return entry
}

func writeReport(sum *Summary, results []result) error {
	f, err := os.Create(sum.ReportFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := report.NewWriter(f)
	if err := w.WriteHeader(report.NewHeader(env.AppName, env.Version, sum.Session)); err != nil {
		return err
	}

	for _, r := range results {
		if err := w.WriteAnimation(r.entry); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func printSummary(out io.Writer, sum *Summary) {
	printInfo(out, "Scan completed!\n")
	printInfo(out, "Files decoded: \t%d\n", sum.Decoded)
	if sum.Failed > 0 {
		printInfo(out, "Files failed: \t%s\n", color.RedString("%d", sum.Failed))
	}
	if sum.Skipped > 0 {
		printInfo(out, "Files skipped: \t%s\n", color.YellowString("%d", sum.Skipped))
	}
	printInfo(out, "Duplicate groups: \t%d\n", len(sum.Duplicates))
	printInfo(out, "Total data: \t%s\n", fmtutil.FormatBytes(sum.Bytes))
	printInfo(out, "Duration: \t%s\n", FormatDurationHMS(sum.Elapsed))
	printInfo(out, "Report saved to: \t%s\n", absPath(sum.ReportFile))

	if sum.LogFile != "" {
		printInfo(out, "Detailed scan log: \t%s\n", sum.LogFile)
	}
}

var infoTag = color.New(color.FgCyan).Sprint("[INFO]")

func printInfo(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, infoTag+" "+format, args...)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// GenSessionID names a scan session after the current time, as
// "YYYYMMDD_HHMMSS".
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats d as HH:MM:SS, or as fractional seconds when
// shorter than one second.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
