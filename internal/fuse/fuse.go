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
	"context"
	"os"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// FrameFS serves a Tree read-only.
type FrameFS struct {
	tree  *Tree
	mtime time.Time
}

func (f *FrameFS) Root() (fs.Node, error) {
	if f.tree.Single != nil {
		return &Dir{fs: f, dir: f.tree.Single}, nil
	}
	return &RootDir{fs: f}, nil
}

// RootDir lists one directory per animation of a report.
type RootDir struct {
	fs *FrameFS
}

func (d *RootDir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	a.Mtime = d.fs.mtime
	return nil
}

func (d *RootDir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if dir, ok := d.fs.tree.Dirs[name]; ok {
		return &Dir{fs: d.fs, dir: dir}, nil
	}
	return nil, fuse.ENOENT
}

func (d *RootDir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	names := d.fs.tree.DirNames()

	entries := make([]fuse.Dirent, len(names))
	for i, name := range names {
		entries[i] = fuse.Dirent{
			Inode: uint64(i + 1),
			Name:  name,
			Type:  fuse.DT_Dir,
		}
	}
	return entries, nil
}

// Dir lists the frames of one animation.
type Dir struct {
	fs  *FrameFS
	dir *FrameDir
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	a.Mtime = d.fs.mtime
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	i, ok := d.dir.Lookup(name)
	if !ok {
		return nil, fuse.ENOENT
	}
	return &File{fs: d.fs, dir: d.dir, index: i}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	names, err := d.dir.Names()
	if err != nil {
		return nil, fuse.Errno(syscall.EIO)
	}

	entries := make([]fuse.Dirent, len(names))
	for i, name := range names {
		entries[i] = fuse.Dirent{
			Inode: uint64(i + 1),
			Name:  name,
			Type:  fuse.DT_File,
		}
	}
	return entries, nil
}

// File is a frame encoded as PNG.
type File struct {
	fs    *FrameFS
	dir   *FrameDir
	index int
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	data, err := f.dir.PNG(f.index)
	if err != nil {
		return fuse.Errno(syscall.EIO)
	}

	a.Mode = 0444
	a.Size = uint64(len(data))
	a.Mtime = f.fs.mtime
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := f.dir.PNG(f.index)
	if err != nil {
		return fuse.Errno(syscall.EIO)
	}

	if req.Offset >= int64(len(data)) {
		resp.Data = []byte{}
		return nil
	}

	end := min(req.Offset+int64(req.Size), int64(len(data)))
	resp.Data = data[req.Offset:end]
	return nil
}
