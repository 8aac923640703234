//go:build linux
// +build linux

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
package fuse

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	osutil "github.com/ostafen/gifreel/pkg/util/os"
)

const maxUnmountRetries = 3

// Mount serves tree at mountpoint until a termination signal unmounts it.
func Mount(mountpoint string, tree *Tree, logger *slog.Logger) error {
	created, err := PrepareMountpoint(mountpoint)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint,
		fuse.ReadOnly(),
		fuse.FSName("gifreel"),
		fuse.Subtype("gifreel"),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	fsys := &FrameFS{
		tree:  tree,
		mtime: time.Now(),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- fusefs.New(c, nil).Serve(fsys)
	}()
	return waitForUmount(mountpoint, serveErr, logger)
}

func waitForUmount(mountpoint string, serveErr <-chan error, logger *slog.Logger) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	logger.Info("waiting for termination signal", "mountpoint", mountpoint)

	attempts := 0
	for {
		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("serve error: %w", err)
			}
			logger.Info("filesystem unmounted externally")
			return nil

		case sig := <-sigc:
			logger.Info("signal received", "signal", sig)

			if attempts >= maxUnmountRetries {
				return fmt.Errorf("unable to unmount %s after %d attempts", mountpoint, maxUnmountRetries)
			}

			attempts++
			logger.Info("attempting unmount", "attempt", attempts, "max", maxUnmountRetries)

			if err := fuse.Unmount(mountpoint); err != nil {
				logger.Warn("unmount failed, waiting for another signal to retry", "err", err)
				continue
			}
			logger.Info("unmounted successfully")
			return nil
		}
	}
}

// PrepareMountpoint ensures mountpoint is an empty directory, creating
// it when missing. It reports whether the directory was created.
func PrepareMountpoint(mountpoint string) (bool, error) {
	created, err := osutil.EnsureDir(mountpoint, true)
	if err != nil {
		return false, fmt.Errorf("invalid mountpoint: %w", err)
	}
	return created, nil
}
