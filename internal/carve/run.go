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
package carve

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ostafen/gifreel/internal/env"
	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/internal/logger"
	"github.com/ostafen/gifreel/internal/scan"
	"github.com/ostafen/gifreel/pkg/pbar"
	"github.com/ostafen/gifreel/pkg/reader"
	"github.com/ostafen/gifreel/pkg/report"
	fmtutil "github.com/ostafen/gifreel/pkg/util/format"
)

type RunOptions struct {
	DumpDir     string
	ReportFile  string
	MaxScanSize uint64
	BufferSize  int
	MaxSize     int64
	DisableLog  bool
	LogDir      string
	LogLevel    slog.Level
	StrictLZW   bool

	// Out receives progress and summary lines. Defaults to os.Stdout.
	Out io.Writer
}

type Summary struct {
	Session    string
	Found      int
	Scanned    int64
	Carved     int64
	ReportFile string
	LogFile    string
	Elapsed    time.Duration
}

// Run carves every GIF stream out of the image made of parts, laid end
// to end, and writes a report entry for each. With a dump directory the
// streams are also copied out as standalone files.
func Run(parts []string, opts RunOptions) (*Summary, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	r, closeParts, err := reader.OpenFiles(parts...)
	if err != nil {
		return nil, err
	}
	defer closeParts()

	sum := &Summary{
		Session:    scan.GenSessionID(),
		ReportFile: opts.ReportFile,
	}
	if sum.ReportFile == "" {
		sum.ReportFile = fmt.Sprintf("carve_%s.xml", sum.Session)
	}
	if !opts.DisableLog {
		sum.LogFile = absPath(filepath.Join(opts.LogDir, sum.Session) + ".log")
	}

	size := r.Size()
	if opts.MaxScanSize > 0 && uint64(size) > opts.MaxScanSize {
		size = int64(opts.MaxScanSize)
	}
	sum.Scanned = size

	outLog := "disabled"
	if !opts.DisableLog {
		outLog = sum.LogFile
	}

	fmt.Fprintln(out, "[INFO] Starting carving operation...")
	for _, p := range parts {
		fmt.Fprintf(out, "[INFO] Source: \t%s\n", absPath(p))
	}
	if opts.DumpDir != "" {
		fmt.Fprintf(out, "[INFO] Destination: \t%s\n", absPath(opts.DumpDir))
	}
	fmt.Fprintf(out, "[INFO] Output Log: \t%s\n", outLog)

	if opts.DumpDir != "" {
		if err := os.MkdirAll(opts.DumpDir, 0755); err != nil {
			return nil, err
		}
	}

	log, logFile, err := logger.Setup(sum.LogFile, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	reportFile, err := os.Create(sum.ReportFile)
	if err != nil {
		return nil, err
	}
	defer reportFile.Close()

	w := report.NewWriter(reportFile)
	if err := w.WriteHeader(report.NewHeader(env.AppName, env.Version, sum.Session)); err != nil {
		return nil, err
	}

	start := time.Now()
	bar := pbar.New(out, size, "bytes")

	c := New(Options{
		BufferSize: opts.BufferSize,
		MaxSize:    opts.MaxSize,
		Logger:     log,
		Decode: []gif.Option{
			gif.WithLogger(log),
			gif.WithStrictLZW(opts.StrictLZW),
		},
	})

	for m := range c.Carve(r, size) {
		sum.Found++
		sum.Carved += m.Size
		bar.Found(1)
		bar.Set(m.Offset + m.Size)

		name := m.Name()
		if opts.DumpDir != "" {
			path, err := Dump(r, m, opts.DumpDir)
			if err != nil {
				return nil, err
			}
			name = path
		}

		entry := scan.Entry(name, m.Size, m.Anim)
		entry.Sources = absPaths(parts)
		entry.ImgOffset = m.Offset

		if err := w.WriteAnimation(entry); err != nil {
			log.Error("unable to write report entry", "err", err)
		}
	}
	bar.Set(size)
	bar.Finish()

	if err := w.Close(); err != nil {
		return nil, err
	}
	if err := reportFile.Close(); err != nil {
		return nil, err
	}
	sum.Elapsed = time.Since(start)

	fmt.Fprintf(out, "[INFO] Carving completed!\n")
	fmt.Fprintf(out, "[INFO] Animations found: \t%d\n", sum.Found)
	fmt.Fprintf(out, "[INFO] Total data: \t%s\n", fmtutil.FormatBytes(sum.Scanned))
	fmt.Fprintf(out, "[INFO] Carved data: \t%s\n", fmtutil.FormatBytes(sum.Carved))
	fmt.Fprintf(out, "[INFO] Duration: \t%s\n", scan.FormatDurationHMS(sum.Elapsed))
	fmt.Fprintf(out, "[INFO] Report saved to: \t%s\n", absPath(sum.ReportFile))
	if sum.LogFile != "" {
		fmt.Fprintf(out, "[INFO] Detailed carve log: \t%s\n", sum.LogFile)
	}
	return sum, nil
}

// Load decodes the animation a report entry refers to, reading carved
// streams straight out of their source image.
func Load(a report.Animation, opts ...gif.Option) (*gif.Animation, error) {
	if len(a.Sources) == 0 {
		return gif.DecodeFile(a.Filename, opts...)
	}

	r, closeParts, err := reader.OpenFiles(a.Sources...)
	if err != nil {
		return nil, err
	}
	defer closeParts()

	sr := io.NewSectionReader(r, a.ImgOffset, int64(a.FileSize))
	return gif.Decode(sr, opts...)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absPath(p)
	}
	return out
}
