package gif

import (
	"bytes"
	"compress/lzw"
	"image/color"
	"math/bits"
)

var (
	black = color.NRGBA{A: 0xFF}
	white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	red   = color.NRGBA{R: 0xFF, A: 0xFF}
	green = color.NRGBA{G: 0xFF, A: 0xFF}
	blue  = color.NRGBA{B: 0xFF, A: 0xFF}
)

// gifBuilder assembles GIF streams byte by byte.
type gifBuilder struct {
	buf bytes.Buffer
}

func newGIF(width, height int, global []color.NRGBA, background int) *gifBuilder {
	return newGIFVersion("89a", width, height, global, background)
}

func newGIFVersion(version string, width, height int, global []color.NRGBA, background int) *gifBuilder {
	b := &gifBuilder{}
	b.buf.WriteString("GIF" + version)
	b.le16(width)
	b.le16(height)

	fields := byte(7 << 4)
	if global != nil {
		fields |= fColorTable | sizeExp(len(global))
	}
	b.buf.WriteByte(fields)
	b.buf.WriteByte(byte(background))
	b.buf.WriteByte(0)
	b.table(global)
	return b
}

func (b *gifBuilder) le16(v int) {
	b.buf.WriteByte(byte(v))
	b.buf.WriteByte(byte(v >> 8))
}

func (b *gifBuilder) table(t []color.NRGBA) {
	for _, c := range t {
		b.buf.Write([]byte{c.R, c.G, c.B})
	}
}

func (b *gifBuilder) raw(p ...byte) *gifBuilder {
	b.buf.Write(p)
	return b
}

func (b *gifBuilder) graphicControl(disposal DisposalMethod, delay, transparent int) *gifBuilder {
	flags := byte(disposal) << 2
	if transparent >= 0 {
		flags |= gcTransparentColorSet
	}
	b.buf.Write([]byte{sExtension, eGraphicControl, 4, flags, byte(delay), byte(delay >> 8), byte(max(transparent, 0)), 0})
	return b
}

func (b *gifBuilder) comment(chunks ...string) *gifBuilder {
	b.buf.Write([]byte{sExtension, eComment})
	for _, c := range chunks {
		b.buf.WriteByte(byte(len(c)))
		b.buf.WriteString(c)
	}
	b.buf.WriteByte(0)
	return b
}

func (b *gifBuilder) netscape(loop int) *gifBuilder {
	b.buf.Write([]byte{sExtension, eApplication, 11})
	b.buf.WriteString("NETSCAPE2.0")
	b.buf.Write([]byte{3, 1, byte(loop), byte(loop >> 8), 0})
	return b
}

type frameSpec struct {
	left, top, width, height int
	local                    []color.NRGBA
	interlaced               bool
	minCode                  int

	// pixels are row-major; lzwData, when set, is used verbatim instead.
	pixels  []byte
	lzwData []byte
}

func (b *gifBuilder) image(f frameSpec) *gifBuilder {
	if f.minCode == 0 {
		f.minCode = 2
	}

	b.buf.WriteByte(sImageDescriptor)
	b.le16(f.left)
	b.le16(f.top)
	b.le16(f.width)
	b.le16(f.height)

	var fields byte
	if f.local != nil {
		fields |= fColorTable | sizeExp(len(f.local))
	}
	if f.interlaced {
		fields |= ifInterlace
	}
	b.buf.WriteByte(fields)
	b.table(f.local)
	b.buf.WriteByte(byte(f.minCode))

	data := f.lzwData
	if data == nil {
		px := f.pixels
		if f.interlaced {
			px = interlaceRows(px, f.width, f.height)
		}
		data = compress(px, f.minCode)
	}
	b.buf.Write(subBlocks(data))
	return b
}

func (b *gifBuilder) trailer() []byte {
	b.buf.WriteByte(sTrailer)
	return b.bytes()
}

func (b *gifBuilder) bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

func sizeExp(n int) byte {
	return byte(bits.Len(uint(n-1)) - 1)
}

func compress(px []byte, litWidth int) []byte {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, litWidth)
	if _, err := w.Write(px); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func subBlocks(data []byte) []byte {
	var out []byte
	for len(data) > 0 {
		n := min(len(data), 255)
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return append(out, 0)
}

// interlaceRows reorders row-major pixels into transmission order.
func interlaceRows(px []byte, width, height int) []byte {
	out := make([]byte, 0, len(px))
	for _, p := range interlacePasses {
		for y := p.start; y < height; y += p.stride {
			out = append(out, px[y*width:(y+1)*width]...)
		}
	}
	return out
}

// packCodes bit-packs LZW codes LSB first, growing the code width the way
// a decoder does.
func packCodes(minCode int, codes ...int) []byte {
	clear, end := 1<<minCode, 1<<minCode+1
	width := minCode + 1
	next := clear + 2
	started := false

	var (
		out   []byte
		acc   uint32
		nbits int
	)
	for _, c := range codes {
		acc |= uint32(c) << nbits
		nbits += width
		for nbits >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			nbits -= 8
		}

		switch {
		case c == clear:
			width, next, started = minCode+1, clear+2, false
		case c == end:
		case !started:
			started = c < clear
		case next < 4096:
			next++
			if next == 1<<width && width < 12 {
				width++
			}
		}
	}
	if nbits > 0 {
		out = append(out, byte(acc))
	}
	return out
}
