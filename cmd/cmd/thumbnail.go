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
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/gifreel/internal/export"
	"github.com/ostafen/gifreel/internal/gif"
)

func DefineThumbnailCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "thumbnail <file>",
		Short:        "Render a contact sheet of the frames of a GIF file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunThumbnail,
	}
	cmd.Flags().StringP("output", "o", "", "output PNG file (default <name>-sheet.png)")
	cmd.Flags().Int("max-frames", export.DefaultSheetFrames, "maximum number of frames on the sheet")
	cmd.Flags().Int("cell", export.DefaultSheetCell, "width in pixels of each cell")
	cmd.Flags().Int("cols", export.DefaultSheetCols, "number of columns")
	return cmd
}

func RunThumbnail(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	anim, err := gif.DecodeFile(args[0], decodeOptions(cmd, log)...)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output, err = defaultDir(args[0], "-sheet.png")
		if err != nil {
			return err
		}
	}

	maxFrames, _ := cmd.Flags().GetInt("max-frames")
	cell, _ := cmd.Flags().GetInt("cell")
	cols, _ := cmd.Flags().GetInt("cols")

	sheet := export.ContactSheet(anim, export.SheetOptions{
		MaxFrames: maxFrames,
		Cell:      cell,
		Cols:      cols,
	})

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := export.EncodePNG(bw, sheet, 0); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[INFO] Contact sheet saved to: \t%s\n", output)
	return f.Close()
}
