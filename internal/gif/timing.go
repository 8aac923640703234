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
package gif

import (
	"sort"
	"time"
)

// Browsers replace very short delays; PlaybackDelay applies the same rule.
const (
	minPlaybackDelay = 10 * time.Millisecond
)

// PlaybackDelay returns the delay a player should wait for a frame with
// the given decoded duration. Delays of 10ms or less play as DefaultDelay.
func PlaybackDelay(d time.Duration) time.Duration {
	if d <= minPlaybackDelay {
		return DefaultDelay
	}
	return d
}

// Timeline maps elapsed playback time to frame indices.
type Timeline struct {
	starts []time.Duration
	total  time.Duration

	// LoopCount follows the looping extension: 0 loops forever, -1 plays
	// once and n plays n+1 times.
	LoopCount int
}

func NewTimeline(frames []*Frame, loopCount int) *Timeline {
	t := &Timeline{
		starts:    make([]time.Duration, len(frames)),
		LoopCount: loopCount,
	}
	for i, f := range frames {
		t.starts[i] = t.total
		t.total += f.Duration
	}
	return t
}

// Start returns the offset at which frame i is first shown.
func (t *Timeline) Start(i int) time.Duration {
	return t.starts[i]
}

// Total is the duration of one pass over the frames.
func (t *Timeline) Total() time.Duration {
	return t.total
}

// Plays returns how many times the sequence is shown, or -1 for forever.
func (t *Timeline) Plays() int {
	switch {
	case t.LoopCount == 0:
		return -1
	case t.LoopCount < 0:
		return 1
	default:
		return t.LoopCount + 1
	}
}

// FrameAt returns the frame shown after elapsed time. ok is false once
// playback has finished; the last frame index is still returned.
func (t *Timeline) FrameAt(elapsed time.Duration) (int, bool) {
	n := len(t.starts)
	if n == 0 {
		return -1, false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if t.total == 0 {
		return n - 1, false
	}

	loop := int(elapsed / t.total)
	if plays := t.Plays(); plays > 0 && loop >= plays {
		return n - 1, false
	}
	pos := elapsed % t.total

	i := sort.Search(n, func(i int) bool { return t.starts[i] > pos })
	return i - 1, true
}
