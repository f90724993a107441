package bmpio

import "encoding/binary"

// Builders for hand-assembled BMP files used across the decode and
// security tests. Building files byte by byte (instead of going through
// Encode) keeps the decode tests independent of the encoder.

// infoFor returns the info header buildHeaders would produce for the
// geometry, for tests that want to tweak individual fields before
// serializing.
func infoFor(width, height int32, bpp uint16, comp CompressionType, paletteLen int) InfoHeader {
	_, ih := buildHeaders(width, height, bpp, comp, paletteLen)
	return ih
}

// buildFile serializes a file header derived from ih, then ih itself, the
// palette and the raw pixel bytes.
func buildFile(ih InfoHeader, pal Palette, pixelData []byte) []byte {
	offset := uint32(fileHeaderSize) + ih.HeaderSize + 4*uint32(len(pal))
	fh := FileHeader{
		Magic:            bmpMagic,
		FileSize:         offset + uint32(len(pixelData)),
		PixelArrayOffset: offset,
	}
	data := fh.appendTo(nil)
	data = ih.appendTo(data)
	data = pal.appendTo(data)
	return append(data, pixelData...)
}

// validFile24 is a well-formed 2x2 24-bit file: bottom row red, green;
// top row blue, white. Each row is 6 pixel bytes plus 2 padding bytes.
func validFile24() []byte {
	pixelData := []byte{
		0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0x00, 0x00, // red, green, pad
		0xFF, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00, 0x00, // blue, white, pad
	}
	return buildFile(infoFor(2, 2, 24, Uncompressed, 0), nil, pixelData)
}

// Byte offsets of header fields within a serialized file, for tests that
// corrupt a valid file in place.
const (
	offMagic       = 0
	offReserved1   = 6
	offPixelOffset = 10
	offHeaderSize  = 14
	offWidth       = 18
	offHeight      = 22
	offPlanes      = 26
	offBPP         = 28
	offCompression = 30
)

func putU16(data []byte, off int, v uint16) { binary.LittleEndian.PutUint16(data[off:], v) }
func putU32(data []byte, off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }
