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

const maxSubBlockSize = 255

// SubBlock is one length-prefixed chunk. A zero-length SubBlock is the
// terminator of a run.
type SubBlock struct {
	Data []byte
}

func (b SubBlock) Len() int {
	return len(b.Data)
}

func (b SubBlock) Terminator() bool {
	return len(b.Data) == 0
}

// ReadSubBlock reads a single chunk, allocating its payload.
func ReadSubBlock(r *Reader) (SubBlock, error) {
	n, err := r.ReadByte()
	if err != nil {
		return SubBlock{}, err
	}
	if n == 0 {
		return SubBlock{}, nil
	}

	data := make([]byte, n)
	if err := r.ReadFull(data); err != nil {
		return SubBlock{}, err
	}
	return SubBlock{Data: data}, nil
}

// SubBlocks iterates lazily over a run of sub-blocks, keeping only the
// current chunk in memory. The slice returned by Bytes is valid until the
// next call to Next.
type SubBlocks struct {
	r   *Reader
	buf [maxSubBlockSize]byte
	cur []byte

	count int
	done  bool
	err   error
}

func NewSubBlocks(r *Reader) *SubBlocks {
	return &SubBlocks{r: r}
}

// Next advances to the next data chunk. It returns false once the
// terminator has been consumed or a read error occurred.
func (s *SubBlocks) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	n, err := s.r.ReadByte()
	if err != nil {
		s.err = err
		return false
	}
	if n == 0 {
		s.done = true
		s.cur = nil
		return false
	}

	if err := s.r.ReadFull(s.buf[:n]); err != nil {
		s.err = err
		return false
	}
	s.cur = s.buf[:n]
	s.count++
	return true
}

func (s *SubBlocks) Bytes() []byte {
	return s.cur
}

func (s *SubBlocks) Err() error {
	return s.err
}

// Done reports whether the terminator has been consumed.
func (s *SubBlocks) Done() bool {
	return s.done
}

// Count returns the number of data chunks read so far.
func (s *SubBlocks) Count() int {
	return s.count
}

// Drain skips the rest of the run.
func (s *SubBlocks) Drain() error {
	for s.Next() {
	}
	return s.err
}

// ReadAll concatenates the rest of the run.
func (s *SubBlocks) ReadAll() ([]byte, error) {
	var out []byte
	for s.Next() {
		out = append(out, s.cur...)
	}
	return out, s.err
}
