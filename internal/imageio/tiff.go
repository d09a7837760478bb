package imageio

import (
	"encoding/binary"
	"os"

	"github.com/S4nh1seR/imgcores/internal/ccitt"
	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// ifdEntry is one 12-byte Tag Image File Format directory entry.
type ifdEntry struct {
	tag      uint16
	typ      uint16
	count    uint32
	valueOff uint32 // value, or offset to value if it does not fit in 4 bytes
}

const (
	tiffTypeShort = 3
	tiffTypeLong  = 4
	tiffTypeRatio = 5
)

// SaveBilevelTIFF writes img as a single-strip CCITT Group 3 1-D
// (Modified Huffman) compressed TIFF, little-endian, with
// PhotometricInterpretation = BlackIsZero, FillOrder = MSB-first, and 300
// DPI resolution in both axes. ccitt.Encode codes img's 0 pixels as white
// runs and its 1 pixels as black runs.
func SaveBilevelTIFF(path string, img *pixbuf.Bit) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	strip := ccitt.Encode(img)

	// Layout: 8-byte header, then the strip data, then two rational values
	// (X/YResolution), then the IFD itself, in that order so every offset is
	// already known when we assemble the IFD.
	const headerSize = 8
	stripOffset := uint32(headerSize)
	resOffset := stripOffset + uint32(len(strip))
	xResOff := resOffset
	yResOff := resOffset + 8
	ifdOffset := yResOff + 8

	entries := []ifdEntry{
		{256, tiffTypeLong, 1, uint32(img.Width)},          // ImageWidth
		{257, tiffTypeLong, 1, uint32(img.Height)},         // ImageLength
		{258, tiffTypeShort, 1, 1},                         // BitsPerSample
		{259, tiffTypeShort, 1, 3},                         // Compression = CCITT Group 3
		{262, tiffTypeShort, 1, 1},                         // PhotometricInterpretation = BlackIsZero
		{266, tiffTypeShort, 1, 1},                         // FillOrder = MSB2LSB
		{273, tiffTypeLong, 1, stripOffset},                // StripOffsets
		{277, tiffTypeShort, 1, 1},                         // SamplesPerPixel
		{278, tiffTypeLong, 1, uint32(img.Height)},         // RowsPerStrip (single strip)
		{279, tiffTypeLong, 1, uint32(len(strip))},         // StripByteCounts
		{282, tiffTypeRatio, 1, xResOff},                   // XResolution
		{283, tiffTypeRatio, 1, yResOff},                   // YResolution
		{296, tiffTypeShort, 1, 2},                         // ResolutionUnit = inches
	}

	buf := make([]byte, 0, ifdOffset+uint32(2+len(entries)*12+4))
	buf = append(buf, 'I', 'I', 42, 0)
	buf = appendU32(buf, ifdOffset)
	buf = append(buf, strip...)
	buf = appendRational(buf, 300, 1)
	buf = appendRational(buf, 300, 1)

	buf = appendU16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = appendU16(buf, e.tag)
		buf = appendU16(buf, e.typ)
		buf = appendU32(buf, e.count)
		buf = appendU32(buf, e.valueOff)
	}
	buf = appendU32(buf, 0) // no next IFD

	_, err = f.Write(buf)
	return err
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendRational(buf []byte, num, den uint32) []byte {
	buf = appendU32(buf, num)
	return appendU32(buf, den)
}
