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

	"github.com/ostafen/gifreel/internal/fuse"
	"github.com/ostafen/gifreel/pkg/report"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <file|report.xml> [mountpoint]",
		Short: "Mount the frames of a GIF file as a read-only filesystem",
		Long: `The 'mount' command exposes the composited frames of a GIF file as PNG files
in a read-only FUSE filesystem. When given a scan or carve report, each decodable and
non duplicate animation appears as a directory. Frames are decoded on first
access. Send SIGINT or SIGTERM to unmount.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         RunMount,
	}
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	dopts := decodeOptions(cmd, log)

	var mountpoint string
	if len(args) > 1 {
		mountpoint = args[1]
	} else {
		dir, err := defaultDir(args[0], "-mnt")
		if err != nil {
			return err
		}
		mountpoint = dir
	}

	var tree *fuse.Tree
	if isReport(args[0]) {
		anims, err := report.ReadFile(args[0])
		if err != nil {
			return err
		}
		tree = fuse.NewReportTree(anims, dopts...)
	} else {
		tree = fuse.NewFileTree(args[0], dopts...)
	}
	return fuse.Mount(mountpoint, tree, log)
}
