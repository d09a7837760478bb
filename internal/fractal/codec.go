package fractal

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteMappings serializes rBlockSize and mappings as int32(rBlockSize)
// followed by one 4-byte record per mapping, in the same raster order they
// were produced in: TopLeftX, TopLeftY (one byte each, since both range over
// 0..255 for a 256-wide image), an orientation/scale byte packed as
// (orientation & 0x07) | ((scale & 0x1F) << 3), and a signed bias byte.
func WriteMappings(w io.Writer, rBlockSize int, mappings []RDBlockMapping) error {
	if err := binary.Write(w, binary.LittleEndian, int32(rBlockSize)); err != nil {
		return err
	}
	buf := make([]byte, 4*len(mappings))
	for i, m := range mappings {
		off := i * 4
		buf[off] = byte(m.TopLeftX)
		buf[off+1] = byte(m.TopLeftY)
		buf[off+2] = byte(m.Orientation&0x07) | (m.Scale&0x1F)<<3
		buf[off+3] = byte(m.Bias)
	}
	_, err := w.Write(buf)
	return err
}

// ReadMappings deserializes a stream written by WriteMappings.
func ReadMappings(r io.Reader) (rBlockSize int, mappings []RDBlockMapping, err error) {
	var rb int32
	if err = binary.Read(r, binary.LittleEndian, &rb); err != nil {
		return 0, nil, err
	}
	if err = ValidateBlockSize(int(rb)); err != nil {
		return 0, nil, err
	}
	gridSide := Size / int(rb)
	count := gridSide * gridSide
	buf := make([]byte, 4*count)
	if _, err = io.ReadFull(r, buf); err != nil {
		return 0, nil, fmt.Errorf("fractal: reading %d mapping records: %w", count, err)
	}
	mappings = make([]RDBlockMapping, count)
	for i := range mappings {
		off := i * 4
		mappings[i] = RDBlockMapping{
			TopLeftX:    int(buf[off]),
			TopLeftY:    int(buf[off+1]),
			Orientation: Orientation(buf[off+2] & 0x07),
			Scale:       (buf[off+2] >> 3) & 0x1F,
			Bias:        int8(buf[off+3]),
		}
	}
	return int(rb), mappings, nil
}
