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
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/internal/logger"
	"github.com/ostafen/gifreel/pkg/util/format"
)

func logLevel(cmd *cobra.Command) slog.Level {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.ParseLevel(level)
}

// newLogger writes diagnostics to stderr so they never mix with the
// command output.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return logger.New(os.Stderr, logLevel(cmd))
}

func decodeOptions(cmd *cobra.Command, log *slog.Logger) []gif.Option {
	strict, _ := cmd.Flags().GetBool("strict-lzw")
	return []gif.Option{
		gif.WithLogger(log),
		gif.WithStrictLZW(strict),
	}
}

func getBytes(cmd *cobra.Command, name string) uint64 {
	s, _ := cmd.Flags().GetString(name)

	v, err := format.ParseBytes(s)
	if err != nil {
		return math.MaxUint64
	}
	return v
}

// isReport tells scan reports apart from GIF inputs.
func isReport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// defaultDir names an output path in the working directory after the
// input, e.g. "anim.gif" -> "<wd>/anim-frames".
func defaultDir(path, suffix string) (string, error) {
	wdir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(wdir, name+suffix), nil
}
