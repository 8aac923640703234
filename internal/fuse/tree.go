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
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ostafen/gifreel/internal/carve"
	"github.com/ostafen/gifreel/internal/export"
	"github.com/ostafen/gifreel/internal/gif"
	"github.com/ostafen/gifreel/pkg/report"
)

// FrameDir exposes the frames of one animation as PNG files. The
// animation is decoded on first access and each PNG is encoded once.
type FrameDir struct {
	Name string
	open func() (*gif.Animation, error)

	once   sync.Once
	frames []*gif.Frame
	err    error

	mtx  sync.Mutex
	pngs map[int][]byte
}

func newFrameDir(name string, open func() (*gif.Animation, error)) *FrameDir {
	return &FrameDir{
		Name: name,
		open: open,
		pngs: make(map[int][]byte),
	}
}

func (d *FrameDir) load() error {
	d.once.Do(func() {
		anim, err := d.open()
		if err != nil {
			d.err = fmt.Errorf("decode %s: %w", d.Name, err)
			return
		}
		d.frames = anim.Frames
	})
	return d.err
}

// Names lists the frame file names in frame order.
func (d *FrameDir) Names() ([]string, error) {
	if err := d.load(); err != nil {
		return nil, err
	}

	names := make([]string, len(d.frames))
	for i := range d.frames {
		names[i] = export.FrameName(i)
	}
	return names, nil
}

// Lookup maps a frame file name back to its index.
func (d *FrameDir) Lookup(name string) (int, bool) {
	if err := d.load(); err != nil {
		return 0, false
	}

	var n int
	if _, err := fmt.Sscanf(name, "frame_%04d.png", &n); err != nil {
		return 0, false
	}
	if n < 1 || n > len(d.frames) || export.FrameName(n-1) != name {
		return 0, false
	}
	return n - 1, true
}

// PNG returns the encoded frame i.
func (d *FrameDir) PNG(i int) ([]byte, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(d.frames) {
		return nil, fmt.Errorf("frame %d out of range", i)
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	if data, ok := d.pngs[i]; ok {
		return data, nil
	}

	var buf bytes.Buffer
	if err := export.EncodePNG(&buf, d.frames[i].Image, 0); err != nil {
		return nil, err
	}
	d.pngs[i] = buf.Bytes()
	return d.pngs[i], nil
}

// Tree is the content of a mount: either the frames of a single file at
// the root, or one FrameDir per animation listed in a report.
type Tree struct {
	Single *FrameDir
	Dirs   map[string]*FrameDir
}

func NewFileTree(path string, opts ...gif.Option) *Tree {
	open := func() (*gif.Animation, error) {
		return gif.DecodeFile(path, opts...)
	}
	return &Tree{Single: newFrameDir(dirName(path), open)}
}

// NewReportTree builds a directory per decodable, non duplicate entry
// of a scan or carve report. Clashing names get a numeric suffix.
func NewReportTree(anims []report.Animation, opts ...gif.Option) *Tree {
	t := &Tree{Dirs: make(map[string]*FrameDir)}
	for _, a := range anims {
		if a.Error != "" || a.DuplicateOf != "" {
			continue
		}

		base := dirName(a.Filename)
		name := base
		for n := 2; t.Dirs[name] != nil; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		t.Dirs[name] = newFrameDir(name, func() (*gif.Animation, error) {
			return carve.Load(a, opts...)
		})
	}
	return t
}

// DirNames lists the animation directories in sorted order.
func (t *Tree) DirNames() []string {
	names := make([]string, 0, len(t.Dirs))
	for name := range t.Dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dirName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
