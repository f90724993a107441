package bmpio

import (
	"fmt"
	"math"
)

const (
	// bmpMagic is the "BM" signature read as a little-endian uint16.
	bmpMagic uint16 = 0x4D42

	fileHeaderSize = 14

	// The two info header layouts handled here: the basic 40-byte
	// BITMAPINFOHEADER, and the 56-byte variant that appends the four
	// channel masks. Anything else is rejected.
	infoHeaderSize      = 40
	infoHeaderMasksSize = 56
)

// Input sanity limits. A BMP header is 54 bytes of attacker-controlled
// integers; these caps keep crafted dimensions from forcing huge
// allocations before any pixel data is read.
const (
	// maxImageDim caps each image dimension, well above any real file.
	maxImageDim = 30000

	// maxPixels caps width×height. 1<<27 pixels is a 512 MB pixel grid.
	maxPixels = 1 << 27
)

// CompressionType is the biCompression field of the info header.
type CompressionType uint32

const (
	Uncompressed CompressionType = 0
	RLE8         CompressionType = 1
	RLE4         CompressionType = 2
	BitFields    CompressionType = 3
	JPEGEmbedded CompressionType = 4
	PNGEmbedded  CompressionType = 5
	CMYK         CompressionType = 11
	CMYKRLE8     CompressionType = 12
	CMYKRLE4     CompressionType = 13
)

func (c CompressionType) String() string {
	switch c {
	case Uncompressed:
		return "uncompressed"
	case RLE8:
		return "RLE8"
	case RLE4:
		return "RLE4"
	case BitFields:
		return "bitfields"
	case JPEGEmbedded:
		return "JPEG"
	case PNGEmbedded:
		return "PNG"
	case CMYK:
		return "CMYK"
	case CMYKRLE8:
		return "CMYK-RLE8"
	case CMYKRLE4:
		return "CMYK-RLE4"
	}
	return fmt.Sprintf("invalid(%d)", uint32(c))
}

// supported reports whether the decode/encode engines handle this
// compression at all. RLE and the embedded-codec variants are rejected at
// load time.
func (c CompressionType) supported() bool {
	return c == Uncompressed || c == BitFields
}

// FileHeader is the 14-byte BITMAPFILEHEADER: signature, total file size,
// two reserved words and the absolute offset of the pixel array.
type FileHeader struct {
	Magic            uint16
	FileSize         uint32
	Reserved1        uint16
	Reserved2        uint16
	PixelArrayOffset uint32
}

func parseFileHeader(w *bytesWalker) (FileHeader, error) {
	var h FileHeader
	var err error
	if h.Magic, err = w.nextU16(); err != nil {
		return h, fmt.Errorf("file header: %w", err)
	}
	if h.FileSize, err = w.nextU32(); err != nil {
		return h, fmt.Errorf("file header: %w", err)
	}
	if h.Reserved1, err = w.nextU16(); err != nil {
		return h, fmt.Errorf("file header: %w", err)
	}
	if h.Reserved2, err = w.nextU16(); err != nil {
		return h, fmt.Errorf("file header: %w", err)
	}
	if h.PixelArrayOffset, err = w.nextU32(); err != nil {
		return h, fmt.Errorf("file header: %w", err)
	}
	return h, nil
}

func (h FileHeader) validate() error {
	if h.Magic != bmpMagic {
		return fmt.Errorf("%w: magic 0x%04X, want 0x%04X", ErrInvalidBitmap, h.Magic, bmpMagic)
	}
	if h.Reserved1 != 0 || h.Reserved2 != 0 {
		return fmt.Errorf("%w: reserved fields %d,%d must be zero",
			ErrInvalidBitmap, h.Reserved1, h.Reserved2)
	}
	return nil
}

func (h *FileHeader) appendTo(data []byte) []byte {
	data = appendU16(data, h.Magic)
	data = appendU32(data, h.FileSize)
	data = appendU16(data, h.Reserved1)
	data = appendU16(data, h.Reserved2)
	data = appendU32(data, h.PixelArrayOffset)
	return data
}

// InfoHeader is the BITMAPINFOHEADER (40 bytes) plus the four channel
// masks present in the 56-byte variant. Height is stored as its absolute
// value; a negative stored height sets TopDown instead.
type InfoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     CompressionType
	ImageSize       uint32 // may be zero on uncompressed images; recomputed then
	PPMX            int32  // pixels per meter, passed through untouched
	PPMY            int32
	ColorsUsed      uint32
	ColorsImportant uint32

	// Channel masks, zero unless HeaderSize > 40.
	RedMask   uint32
	GreenMask uint32
	BlueMask  uint32
	AlphaMask uint32

	// TopDown records that the stored height was negative: rows are
	// stored top-to-bottom instead of the usual bottom-up order. Not a
	// wire field.
	TopDown bool
}

func parseInfoHeader(w *bytesWalker) (InfoHeader, error) {
	var h InfoHeader
	// One sized check up front makes the fixed-layout reads below
	// infallible.
	if err := w.need(infoHeaderSize); err != nil {
		return h, fmt.Errorf("info header: %w", err)
	}
	h.HeaderSize, _ = w.nextU32()
	h.Width, _ = w.nextI32()
	h.Height, _ = w.nextI32()
	h.Planes, _ = w.nextU16()
	h.BitsPerPixel, _ = w.nextU16()
	comp, _ := w.nextU32()
	h.Compression = CompressionType(comp)
	h.ImageSize, _ = w.nextU32()
	h.PPMX, _ = w.nextI32()
	h.PPMY, _ = w.nextI32()
	h.ColorsUsed, _ = w.nextU32()
	h.ColorsImportant, _ = w.nextU32()

	if h.Height < 0 {
		if h.Height == math.MinInt32 {
			return h, fmt.Errorf("%w: height %d cannot be negated", ErrInvalidBitmap, h.Height)
		}
		h.TopDown = true
		h.Height = -h.Height
	}

	if h.HeaderSize > infoHeaderSize {
		if err := w.need(16); err != nil {
			return h, fmt.Errorf("info header: channel masks: %w", err)
		}
		h.RedMask, _ = w.nextU32()
		h.GreenMask, _ = w.nextU32()
		h.BlueMask, _ = w.nextU32()
		h.AlphaMask, _ = w.nextU32()
	}
	return h, nil
}

func (h *InfoHeader) validate() error {
	if h.HeaderSize != infoHeaderSize && h.HeaderSize != infoHeaderMasksSize {
		return fmt.Errorf("%w: size %d (supported: %d, %d)",
			ErrUnsupportedHeader, h.HeaderSize, infoHeaderSize, infoHeaderMasksSize)
	}
	if h.Planes != 1 {
		return fmt.Errorf("%w: %d planes (must be 1)", ErrUnsupportedHeader, h.Planes)
	}
	if !h.Compression.supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedCompression, h.Compression)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBitmap, h.Width, h.Height)
	}
	if h.Width > maxImageDim || h.Height > maxImageDim {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d per side",
			ErrInvalidBitmap, h.Width, h.Height, maxImageDim)
	}
	if int64(h.Width)*int64(h.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrInvalidBitmap, h.Width, h.Height, int64(maxPixels))
	}
	return nil
}

// appendTo serializes the info header. A top-down image writes its height
// negated, so decode(encode(b)) preserves the stored row order.
func (h *InfoHeader) appendTo(data []byte) []byte {
	data = appendU32(data, h.HeaderSize)
	data = appendI32(data, h.Width)
	height := h.Height
	if h.TopDown {
		height = -height
	}
	data = appendI32(data, height)
	data = appendU16(data, h.Planes)
	data = appendU16(data, h.BitsPerPixel)
	data = appendU32(data, uint32(h.Compression))
	data = appendU32(data, h.ImageSize)
	data = appendI32(data, h.PPMX)
	data = appendI32(data, h.PPMY)
	data = appendU32(data, h.ColorsUsed)
	data = appendU32(data, h.ColorsImportant)
	if h.HeaderSize > infoHeaderSize {
		data = appendU32(data, h.RedMask)
		data = appendU32(data, h.GreenMask)
		data = appendU32(data, h.BlueMask)
		data = appendU32(data, h.AlphaMask)
	}
	return data
}

// rowSize returns the byte length of one stored pixel row, including the
// padding that rounds every row up to a 4-byte boundary.
func rowSize(width int32, bpp uint16) int {
	bitsPerRow := int(width) * int(bpp)
	bytesPerRow := (bitsPerRow + 7) / 8
	return bytesPerRow + pad4(bytesPerRow)
}

// defaultMasks returns the channel masks assigned to a freshly built
// bitfields header: byte-aligned ARGB for 32-bit (the layout GIMP emits),
// 5-5-5 plus a 1-bit alpha for 16-bit.
func defaultMasks(bpp uint16) (red, green, blue, alpha uint32) {
	if bpp == 16 {
		return 0x7C00, 0x03E0, 0x001F, 0x8000
	}
	return 0xFF000000, 0x00FF0000, 0x0000FF00, 0x000000FF
}

// buildHeaders derives a consistent (FileHeader, InfoHeader) pair for the
// given geometry and target format. paletteLen is the number of color
// table entries that will sit between the info header and the pixel array;
// the pixel array offset and file size account for it.
func buildHeaders(width, height int32, bpp uint16, comp CompressionType, paletteLen int) (FileHeader, InfoHeader) {
	headerSize := uint32(infoHeaderSize)
	if comp == BitFields {
		headerSize = infoHeaderMasksSize
	}

	info := InfoHeader{
		HeaderSize:   headerSize,
		Width:        width,
		Height:       height,
		Planes:       1,
		BitsPerPixel: bpp,
		Compression:  comp,
		ImageSize:    uint32(rowSize(width, bpp) * int(height)),
		ColorsUsed:   uint32(paletteLen),
	}
	if comp == BitFields {
		info.RedMask, info.GreenMask, info.BlueMask, info.AlphaMask = defaultMasks(bpp)
	}

	offset := uint32(fileHeaderSize) + headerSize + 4*uint32(paletteLen)
	file := FileHeader{
		Magic:            bmpMagic,
		FileSize:         offset + info.ImageSize,
		PixelArrayOffset: offset,
	}
	return file, info
}
