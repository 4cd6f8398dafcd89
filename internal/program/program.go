// Package program implements the textual program encoding (spec.md §6):
// a size byte followed by 2-bits-per-cell packed op codes, rendered as a
// base64-like text so programs can be logged, stored, and round-tripped.
//
// Unlike ordinary base64, the encoding packs a raw bitstream rather than
// byte-aligned groups of three bytes: a width/height pair plus cell codes
// rarely add up to a whole number of bytes, so bits are sextet-packed
// (six bits per character) directly, zero-padded on the right to the next
// full sextet, with no '=' padding character.
package program

import (
	"strings"

	"bbfinder/internal/bberrors"
	"bbfinder/internal/grid"
)

// maxDim mirrors internal/block's maxProgramSize: width and height must
// each fit in a 4-bit nibble of the size header.
const maxDim = 8

// alphabet is the encoding's sextet alphabet (RFC 4648's standard base64
// alphabet; the format borrows the character set but not the byte-group
// framing, hence "base64-like").
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// cellCode and codeToCell map grid ops to the encoding's 2-bit cell codes.
// The wire order is NOOP=0, DATA=1, TURN=2, UNSET=3 — a rotation of
// grid.Op's runtime ordering. UNSET is the "not a real op" 4th code:
// ToString writes it for any cell still Unset (a search result keeps the
// cells its execution never visited Unset), and FromString reads it back
// as Unset.
func cellCode(op grid.Op) byte {
	switch op {
	case grid.Noop:
		return 0
	case grid.Data:
		return 1
	case grid.Turn:
		return 2
	default:
		return 3
	}
}

func codeToCell(v byte) grid.Op {
	switch v {
	case 0:
		return grid.Noop
	case 1:
		return grid.Data
	case 2:
		return grid.Turn
	default:
		return grid.Unset
	}
}

// plainChar renders a cell the way Program::toPlainString does in the
// original: distinct from grid.Op.String's dump glyphs ('?' for Unset),
// toPlainString uses '.' for a cell decoded as the reserved UNSET code.
func plainChar(op grid.Op) byte {
	switch op {
	case grid.Noop:
		return '_'
	case grid.Data:
		return 'o'
	case grid.Turn:
		return '*'
	default:
		return '.'
	}
}

// bitWriter packs bits MSB-first into sextets, emitting each completed
// sextet (and a final zero-padded partial one) as a base64-alphabet byte.
type bitWriter struct {
	out  strings.Builder
	acc  uint32
	nbit int
}

func (w *bitWriter) writeBits(v uint32, n int) {
	w.acc = w.acc<<uint(n) | v
	w.nbit += n
	for w.nbit >= 6 {
		w.nbit -= 6
		w.out.WriteByte(alphabet[(w.acc>>uint(w.nbit))&0x3f])
	}
}

// String flushes any partial trailing sextet, zero-padded on the right,
// and returns the accumulated text. Only call once, after all writeBits
// calls.
func (w *bitWriter) String() string {
	if w.nbit > 0 {
		w.out.WriteByte(alphabet[(w.acc<<uint(6-w.nbit))&0x3f])
		w.nbit = 0
	}
	return w.out.String()
}

// ToString encodes g as a 4-bit width + 4-bit height header followed by
// width*height 2-bit cell codes, packed row-major (row 0 first, column 0
// first within a row) MSB-first into the bitstream.
func ToString(g *grid.Grid) string {
	w, h := g.Width(), g.Height()
	var bw bitWriter
	bw.writeBits(uint32(w), 4)
	bw.writeBits(uint32(h), 4)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			bw.writeBits(uint32(cellCode(g.Get(col, row))), 2)
		}
	}
	return bw.String()
}

// decodeBits expands an encoded string into its constituent bits (one
// byte, 0 or 1, per bit), MSB-first per character.
func decodeBits(s string) ([]byte, error) {
	bits := make([]byte, 0, len(s)*6)
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(alphabet, s[i])
		if idx < 0 {
			return nil, bberrors.New(bberrors.EncodeError, "invalid program character %q", s[i])
		}
		for shift := 5; shift >= 0; shift-- {
			bits = append(bits, byte(idx>>uint(shift))&1)
		}
	}
	return bits, nil
}

func bitsToInt(bits []byte, from, n int) int {
	v := 0
	for i := 0; i < n; i++ {
		v = v<<1 | int(bits[from+i])
	}
	return v
}

// FromString decodes a program produced by ToString into a freshly
// allocated grid.
func FromString(s string) (*grid.Grid, error) {
	bits, err := decodeBits(s)
	if err != nil {
		return nil, bberrors.Wrap(err, bberrors.EncodeError, "decode program text")
	}
	if len(bits) < 8 {
		return nil, bberrors.New(bberrors.EncodeError, "program text too short")
	}

	w := bitsToInt(bits, 0, 4)
	h := bitsToInt(bits, 4, 4)
	if w < 1 || w > maxDim || h < 1 || h > maxDim {
		return nil, bberrors.New(bberrors.EncodeError, "program dimensions %dx%d out of range", w, h)
	}

	needed := 8 + 2*w*h
	if len(bits) < needed {
		return nil, bberrors.New(bberrors.EncodeError, "program text has %d bits, want at least %d for %dx%d", len(bits), needed, w, h)
	}

	g := grid.New(w, h)
	pos := 8
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			g.Set(col, row, codeToCell(byte(bitsToInt(bits, pos, 2))))
			pos += 2
		}
	}
	return g, nil
}

// ToPlainString renders a grid the way Program::toPlainString does: one
// character per cell, row 0 first, column 0 first within a row — the
// storage order, not grid.Dump's top-row-first display order.
func ToPlainString(g *grid.Grid) string {
	w, h := g.Width(), g.Height()
	out := make([]byte, 0, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			out = append(out, plainChar(g.Get(col, row)))
		}
	}
	return string(out)
}
