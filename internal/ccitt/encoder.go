// Package ccitt implements a Modified Huffman (ITU-T T.4, Group 3, 1-D)
// bit-packing encoder for 1-bit images, the codec backing this module's
// TIFF output. No example in the retrieved corpus implements CCITT or TIFF
// writing, so this encoder is hand-written against the public ITU-T T.4
// terminating/makeup code tables, following the bit-accumulator shape used
// elsewhere in the corpus for other hand-rolled bitstream encoders.
package ccitt

import "github.com/S4nh1seR/imgcores/internal/pixbuf"

// bitWriter accumulates bits MSB-first into a byte slice, padding the final
// byte with zero bits.
type bitWriter struct {
	buf     []byte
	cur     uint32
	curBits uint8
}

func (w *bitWriter) emit(bits uint32, n uint8) {
	w.cur = (w.cur << n) | (bits & ((1 << n) - 1))
	w.curBits += n
	for w.curBits >= 8 {
		shift := w.curBits - 8
		w.buf = append(w.buf, byte(w.cur>>shift))
		w.curBits -= 8
		w.cur &= (1 << w.curBits) - 1
	}
}

func (w *bitWriter) emitCode(c code) { w.emit(c.bits, c.len) }

func (w *bitWriter) flush() []byte {
	if w.curBits > 0 {
		w.buf = append(w.buf, byte(w.cur<<(8-w.curBits)))
		w.curBits = 0
		w.cur = 0
	}
	return w.buf
}

// emitRun writes the Huffman code sequence for a single run of the given
// length and color (white when isWhite), splitting runs longer than 2560
// into repeated maximum extended-makeup codes followed by the remainder.
func (w *bitWriter) emitRun(length int, isWhite bool) {
	for length >= 2560 {
		w.emitCode(extMakeup[2560])
		length -= 2560
	}
	if length >= 1792 {
		makeupLen := (length / 64) * 64
		if makeupLen > 2560 {
			makeupLen = 2560
		}
		if c, ok := extMakeup[makeupLen]; ok {
			w.emitCode(c)
			length -= makeupLen
		}
	}
	for length >= 64 {
		makeupLen := (length / 64) * 64
		if makeupLen > 1728 {
			makeupLen = 1728
		}
		table := whiteMakeup
		if !isWhite {
			table = blackMakeup
		}
		c, ok := table[makeupLen]
		for !ok && makeupLen > 64 {
			makeupLen -= 64
			c, ok = table[makeupLen]
		}
		w.emitCode(c)
		length -= makeupLen
	}
	table := &whiteTerminating
	if !isWhite {
		table = &blackTerminating
	}
	w.emitCode(table[length])
}

// Encode produces the Modified Huffman 1-D bitstream for img: each row
// starts with an end-of-line code, runs alternate white/black starting with
// a (possibly empty) white run (pixels of value 0 are coded with the white
// tables, pixels of value 1 with the black tables), and the stream is padded
// to a byte boundary at the end.
func Encode(img *pixbuf.Bit) []byte {
	w := &bitWriter{}
	for y := 0; y < img.Height; y++ {
		w.emitCode(eol)
		isWhite := true
		run := 0
		for x := 0; x < img.Width; x++ {
			pixelIsBlack := img.At(x, y) == 1
			pixelIsWhite := !pixelIsBlack
			if pixelIsWhite == isWhite {
				run++
				continue
			}
			w.emitRun(run, isWhite)
			isWhite = !isWhite
			run = 1
		}
		w.emitRun(run, isWhite)
	}
	return w.flush()
}
