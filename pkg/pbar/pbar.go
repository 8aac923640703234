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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	MinRefreshRate = time.Millisecond * 500
	barLength      = 20
)

// ProgressBar tracks a count of processed items against a known total.
// Add and Found are safe for concurrent use.
type ProgressBar struct {
	w     io.Writer
	unit  string
	total int64

	processed atomic.Int64
	found     atomic.Int64

	mu         sync.Mutex
	start      time.Time
	lastUpdate time.Time
	lastCount  int64
}

// New returns a bar for total items labelled by unit (e.g. "files").
func New(w io.Writer, total int64, unit string) *ProgressBar {
	now := time.Now()
	return &ProgressBar{
		w:     w,
		unit:  unit,
		total: total,
		start: now,
	}
}

// Add records n more processed items and redraws if due.
func (pb *ProgressBar) Add(n int64) {
	pb.processed.Add(n)
	pb.Render(false)
}

// Set moves the processed count to n, for progress measured as a
// position rather than a count.
func (pb *ProgressBar) Set(n int64) {
	pb.processed.Store(n)
	pb.Render(false)
}

// Found counts items worth reporting, such as decoded animations.
func (pb *ProgressBar) Found(n int64) {
	pb.found.Add(n)
}

func (pb *ProgressBar) Processed() int64 { return pb.processed.Load() }

// Render prints the progress line, at most once per MinRefreshRate
// unless force is set.
func (pb *ProgressBar) Render(force bool) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	now := time.Now()
	if !force && !pb.lastUpdate.IsZero() && now.Sub(pb.lastUpdate) < MinRefreshRate {
		return
	}

	processed := pb.processed.Load()

	var rate float64
	if !pb.lastUpdate.IsZero() {
		if secs := now.Sub(pb.lastUpdate).Seconds(); secs > 0 {
			rate = float64(processed-pb.lastCount) / secs
		}
	} else if secs := now.Sub(pb.start).Seconds(); secs > 0 {
		rate = float64(processed) / secs
	}

	pb.lastUpdate = now
	pb.lastCount = processed

	fmt.Fprintf(pb.w, "\r[INFO] Progress: [%s] %3.0f%% (%d/%d %s) | Found: %d | @ %.1f %s/s [%s]    ",
		bar(processed, pb.total),
		percentage(processed, pb.total),
		processed,
		pb.total,
		pb.unit,
		pb.found.Load(),
		rate,
		pb.unit,
		eta(pb.total-processed, rate))
}

// Finish draws the final state and moves to the next line.
func (pb *ProgressBar) Finish() {
	pb.Render(true)
	fmt.Fprintln(pb.w)
}

func percentage(processed, total int64) float64 {
	if total <= 0 {
		return 100
	}
	p := float64(processed) / float64(total) * 100
	return min(p, 100)
}

func bar(processed, total int64) string {
	filled := int(float64(barLength) * percentage(processed, total) / 100)
	if filled >= barLength {
		return strings.Repeat("=", barLength)
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barLength-filled-1)
}

func eta(remaining int64, rate float64) string {
	if remaining <= 0 {
		return "done"
	}
	if rate <= 0 {
		return "calculating..."
	}

	secs := int(float64(remaining) / rate)
	return fmt.Sprintf("%02d:%02d:%02d remaining", secs/3600, (secs/60)%60, secs%60)
}
