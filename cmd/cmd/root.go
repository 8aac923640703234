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

	"github.com/ostafen/gifreel/internal/env"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:     env.AppName,
		Short:   env.AppName + " - GIF decoding, carving and frame extraction tool",
		Version: env.Version,
	}

	rootCmd.PersistentFlags().String("log-level", "WARN", "minimum log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().Bool("strict-lzw", false, "reject LZW codes beyond the next free table index")

	rootCmd.AddCommand(
		DefineInfoCommand(),
		DefineExtractCommand(),
		DefineThumbnailCommand(),
		DefineScanCommand(),
		DefineCarveCommand(),
		DefineMountCommand(),
	)

	return rootCmd.Execute()
}
