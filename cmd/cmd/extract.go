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
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ostafen/gifreel/internal/carve"
	"github.com/ostafen/gifreel/internal/export"
	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/pkg/pbar"
	"github.com/ostafen/gifreel/pkg/report"
	osutil "github.com/ostafen/gifreel/pkg/util/os"
)

func DefineExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file|report.xml>",
		Short: "Write the frames of a GIF file as PNG images",
		Long: `The 'extract' command decodes a GIF file and writes every composited frame
as a PNG image, or as a single zstd compressed RGBA archive when --raw is set.
When given a scan or carve report, every decodable and non duplicate animation
is extracted into its own subdirectory of the output directory.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunExtract,
	}
	cmd.Flags().StringP("output-dir", "o", "", "directory where frames are written (default <name>-frames)")
	cmd.Flags().Uint("width", 0, "scale frames to the given width, keeping the aspect ratio")
	cmd.Flags().Bool("raw", false, "write a single "+export.RawFileName+" archive instead of PNG files")
	return cmd
}

type extractOptions struct {
	outDir string
	width  uint
	raw    bool
	dopts  []gif.Option
	log    *slog.Logger
}

func RunExtract(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		dir, err := defaultDir(args[0], "-frames")
		if err != nil {
			return err
		}
		outDir = dir
	}

	width, _ := cmd.Flags().GetUint("width")
	raw, _ := cmd.Flags().GetBool("raw")

	opts := extractOptions{
		outDir: outDir,
		width:  width,
		raw:    raw,
		dopts:  decodeOptions(cmd, log),
		log:    log,
	}

	if !isReport(args[0]) {
		return extractAnimation(cmd, args[0], opts, func() (*gif.Animation, error) {
			return gif.DecodeFile(args[0], opts.dopts...)
		})
	}

	anims, err := report.ReadFile(args[0])
	if err != nil {
		return err
	}

	for _, a := range anims {
		if a.Error != "" || a.DuplicateOf != "" {
			continue
		}

		sub := opts
		sub.outDir = filepath.Join(outDir, filepath.Base(a.Filename)+"-frames")

		err := extractAnimation(cmd, a.Filename, sub, func() (*gif.Animation, error) {
			return carve.Load(a, opts.dopts...)
		})
		if err != nil {
			log.Error("unable to extract frames", "file", a.Filename, "err", err)
		}
	}
	return nil
}

func extractAnimation(cmd *cobra.Command, path string, opts extractOptions, load func() (*gif.Animation, error)) error {
	if _, err := osutil.EnsureDir(opts.outDir, true); err != nil {
		return err
	}

	anim, err := load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[INFO] Extracting %d frames from %s to %s\n", len(anim.Frames), path, opts.outDir)

	if opts.raw {
		return export.WriteRawFile(filepath.Join(opts.outDir, export.RawFileName), anim)
	}

	bar := pbar.New(out, int64(len(anim.Frames)), "frames")
	_, err = export.WriteFrames(opts.outDir, anim.Frames, export.FrameOptions{
		Width: opts.width,
		OnFrame: func(p string) {
			bar.Found(1)
			bar.Add(1)
			opts.log.Debug("frame written", "path", p)
		},
	})
	bar.Finish()
	return err
}
