// Package bmpio decodes and encodes the Windows BMP raster container.
//
// The codec handles the 40-byte BITMAPINFOHEADER and its 56-byte variant
// with channel masks, at 1, 4, 8, 16, 24 and 32 bits per pixel, in both
// uncompressed and bitfields layouts. Compressed variants (RLE4/RLE8,
// embedded JPEG/PNG) are detected and rejected. Decoding produces a flat
// RGBA pixel grid in stored row order; encoding reproduces the wire layout
// byte for byte. The package performs no file I/O itself; callers hand it
// byte slices or io.Reader/io.Writer pairs.
package bmpio

import (
	"fmt"
	"io"
)

// maxFileBytes caps how much DecodeFrom reads. The largest legal image
// under the dimension caps stays well inside this; anything bigger is not
// a BMP worth buffering.
const maxFileBytes = 1 << 30 // 1 GB

// Bitmap is a decoded BMP: both headers, the color table for indexed
// formats, and the pixel grid. Pixels are row-major with stride Width, in
// the file's stored row order — bottom row first unless InfoHeader.TopDown
// is set. len(Pixels) == Width×Height holds after every successful decode,
// allocation or conversion.
//
// A Bitmap is exclusively owned by its caller; none of its methods are
// safe for concurrent use on the same value. Mutating operations replace
// headers and pixel data only on success, so a failed call leaves the
// value as it was.
type Bitmap struct {
	FileHeader FileHeader
	InfoHeader InfoHeader
	Palette    Palette // non-nil iff BitsPerPixel <= 8
	Pixels     []Pixel
}

// Width returns the image width in pixels.
func (b *Bitmap) Width() int32 { return b.InfoHeader.Width }

// Height returns the image height in pixels.
func (b *Bitmap) Height() int32 { return b.InfoHeader.Height }

// Decode parses a complete BMP byte buffer. Validation is strict and
// terminal: a bad signature, nonzero reserved fields, an unknown header
// size, an unsupported compression or plane count, or a truncated pixel
// array each reject the file with a distinguishable error.
func Decode(data []byte) (*Bitmap, error) {
	w := newBytesWalker(data)

	fh, err := parseFileHeader(w)
	if err != nil {
		return nil, err
	}
	if err := fh.validate(); err != nil {
		return nil, err
	}

	ih, err := parseInfoHeader(w)
	if err != nil {
		return nil, err
	}
	if err := ih.validate(); err != nil {
		return nil, err
	}

	// The declared image size is trusted only for bitfields data; for
	// uncompressed data it is legitimately zero in many real files and
	// is always recomputed from the geometry.
	imageSize := int64(ih.ImageSize)
	if ih.Compression == Uncompressed {
		imageSize = int64(rowSize(ih.Width, ih.BitsPerPixel)) * int64(ih.Height)
	}

	headersEnd := int64(fileHeaderSize) + int64(ih.HeaderSize)
	offset := int64(fh.PixelArrayOffset)
	if offset < headersEnd || offset > int64(len(data)) {
		return nil, fmt.Errorf("%w: pixel array offset %d outside file (headers end %d, file %d bytes)",
			ErrInvalidBitmap, offset, headersEnd, len(data))
	}

	var pal Palette
	if paletteSize(ih.BitsPerPixel) > 0 {
		pal = readPalette(data[headersEnd:offset])
	}

	// Trailing row padding may be missing from the file; clamping the
	// pixel array to the buffer lets the count-driven readers decide
	// whether real pixel bytes ran out.
	end := offset + imageSize
	if end > int64(len(data)) {
		end = int64(len(data))
	}

	pixels, err := decodePixels(data[offset:end], &ih, pal)
	if err != nil {
		return nil, err
	}
	if expected := int(ih.Width) * int(ih.Height); len(pixels) != expected {
		return nil, fmt.Errorf("%w: decoded %d pixels, expected %d (%dx%d)",
			ErrInvalidBitmap, len(pixels), expected, ih.Width, ih.Height)
	}

	return &Bitmap{
		FileHeader: fh,
		InfoHeader: ih,
		Palette:    pal,
		Pixels:     pixels,
	}, nil
}

// DecodeFrom reads r to the end and decodes the result. Read errors are
// propagated as-is.
func DecodeFrom(r io.Reader) (*Bitmap, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileBytes))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// New allocates a width×height bitmap in the given target format, every
// pixel initialized to Transparent. Indexed targets receive the default
// color table for their depth.
func New(width, height int32, bpp uint16, comp CompressionType) (*Bitmap, error) {
	if width <= 0 || height <= 0 || width > maxImageDim || height > maxImageDim {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBitmap, width, height)
	}
	if int64(width)*int64(height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrInvalidBitmap, width, height, int64(maxPixels))
	}
	if !formatSupported(comp, bpp) {
		return nil, errUnsupportedFormat(comp, bpp)
	}

	pal := defaultPalette(bpp)
	fh, ih := buildHeaders(width, height, bpp, comp, len(pal))

	pixels := make([]Pixel, int(width)*int(height))
	for i := range pixels {
		pixels[i] = Transparent
	}
	return &Bitmap{FileHeader: fh, InfoHeader: ih, Palette: pal, Pixels: pixels}, nil
}

// NewDefault allocates a bitmap in the default target format: 32-bit
// bitfields with byte-aligned ARGB masks, the only layout here that
// round-trips alpha.
func NewDefault(width, height int32) (*Bitmap, error) {
	return New(width, height, 32, BitFields)
}

// Fill sets every pixel to p.
func (b *Bitmap) Fill(p Pixel) {
	for i := range b.Pixels {
		b.Pixels[i] = p
	}
}

// ColorToAlpha makes every pixel matching c (by RGB only) fully
// transparent.
func (b *Bitmap) ColorToAlpha(c Pixel) {
	for i := range b.Pixels {
		if b.Pixels[i].SameColor(c) {
			b.Pixels[i].A = 0x00
		}
	}
}

// Encode serializes the bitmap into a complete BMP file image. It never
// mutates the receiver and may be called repeatedly.
func (b *Bitmap) Encode() ([]byte, error) {
	data := make([]byte, 0, int(b.FileHeader.FileSize))
	data = b.FileHeader.appendTo(data)
	data = b.InfoHeader.appendTo(data)

	if paletteSize(b.InfoHeader.BitsPerPixel) > 0 {
		if len(b.Palette) == 0 {
			return nil, ErrMissingPalette
		}
		data = b.Palette.appendTo(data)
	}

	// The pixel array offset may point past the color table; the gap is
	// zero filled. An offset inside the headers is unencodable.
	if int(b.FileHeader.PixelArrayOffset) < len(data) {
		return nil, fmt.Errorf("%w: pixel array offset %d overlaps headers (%d bytes)",
			ErrInvalidBitmap, b.FileHeader.PixelArrayOffset, len(data))
	}
	data = appendZeros(data, int(b.FileHeader.PixelArrayOffset)-len(data))

	return encodePixels(data, b.Pixels, &b.InfoHeader, b.Palette)
}

// EncodeTo serializes the bitmap and writes it to w. Write errors are
// propagated as-is.
func (b *Bitmap) EncodeTo(w io.Writer) error {
	data, err := b.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ConvertTo switches the bitmap to another (bits-per-pixel, compression)
// target. Top-down storage is normalized to bottom-up first, both headers
// are rebuilt for the new format, and an indexed target whose color table
// is absent or too large for its depth receives the default one. The pixel
// grid itself is unchanged; lossy narrowing happens at encode time.
func (b *Bitmap) ConvertTo(bpp uint16, comp CompressionType) error {
	if !formatSupported(comp, bpp) {
		return errUnsupportedFormat(comp, bpp)
	}

	// A color table larger than the target depth can address would leave
	// unreachable entries and mis-decode; it is replaced wholesale.
	pal := b.Palette
	if n := paletteSize(bpp); n > 0 {
		if len(pal) == 0 || len(pal) > n {
			pal = defaultPalette(bpp)
		}
	} else {
		pal = nil
	}

	if b.InfoHeader.TopDown {
		b.MirrorVertically()
	}

	fh, ih := buildHeaders(b.InfoHeader.Width, b.InfoHeader.Height, bpp, comp, len(pal))
	ih.PPMX = b.InfoHeader.PPMX
	ih.PPMY = b.InfoHeader.PPMY

	b.FileHeader = fh
	b.InfoHeader = ih
	b.Palette = pal
	return nil
}

// MirrorVertically swaps row i with row height-1-i in place.
func (b *Bitmap) MirrorVertically() {
	stride := int(b.InfoHeader.Width)
	height := int(b.InfoHeader.Height)
	for row := 0; row < height/2; row++ {
		top := row * stride
		bottom := (height - row - 1) * stride
		for col := 0; col < stride; col++ {
			b.Pixels[top+col], b.Pixels[bottom+col] = b.Pixels[bottom+col], b.Pixels[top+col]
		}
	}
}

// MirrorHorizontally reverses each row in place.
func (b *Bitmap) MirrorHorizontally() {
	stride := int(b.InfoHeader.Width)
	for row := 0; row < int(b.InfoHeader.Height); row++ {
		base := row * stride
		for l, r := 0, stride-1; l < r; l, r = l+1, r-1 {
			b.Pixels[base+l], b.Pixels[base+r] = b.Pixels[base+r], b.Pixels[base+l]
		}
	}
}

// Crop copies the width×height rectangle at (x0, y0) into a new bitmap in
// the default format. The rectangle must lie fully inside the source.
func (b *Bitmap) Crop(x0, y0, width, height int32) (*Bitmap, error) {
	if x0 < 0 || y0 < 0 || width <= 0 || height <= 0 ||
		int64(x0)+int64(width) > int64(b.InfoHeader.Width) ||
		int64(y0)+int64(height) > int64(b.InfoHeader.Height) {
		return nil, fmt.Errorf("%w: rect %dx%d at (%d,%d) in %dx%d image",
			ErrInvalidRect, width, height, x0, y0, b.InfoHeader.Width, b.InfoHeader.Height)
	}

	out, err := NewDefault(width, height)
	if err != nil {
		return nil, err
	}
	out.copyRect(b, x0, y0, 0, 0, width, height)
	return out, nil
}

// MergeHorizontally places a and b side by side in a new default-format
// bitmap sized to their combined width and the taller height. Cells not
// covered by either source keep the Transparent fill.
func MergeHorizontally(a, b *Bitmap) (*Bitmap, error) {
	width := a.InfoHeader.Width + b.InfoHeader.Width
	height := max32(a.InfoHeader.Height, b.InfoHeader.Height)

	out, err := NewDefault(width, height)
	if err != nil {
		return nil, err
	}
	out.copyRect(a, 0, 0, 0, 0, a.InfoHeader.Width, a.InfoHeader.Height)
	out.copyRect(b, 0, 0, a.InfoHeader.Width, 0, b.InfoHeader.Width, b.InfoHeader.Height)
	return out, nil
}

// MergeVertically stacks a and b in a new default-format bitmap sized to
// their combined height and the wider width.
func MergeVertically(a, b *Bitmap) (*Bitmap, error) {
	width := max32(a.InfoHeader.Width, b.InfoHeader.Width)
	height := a.InfoHeader.Height + b.InfoHeader.Height

	out, err := NewDefault(width, height)
	if err != nil {
		return nil, err
	}
	out.copyRect(a, 0, 0, 0, 0, a.InfoHeader.Width, a.InfoHeader.Height)
	out.copyRect(b, 0, 0, 0, a.InfoHeader.Height, b.InfoHeader.Width, b.InfoHeader.Height)
	return out, nil
}

// copyRect copies a width×height block from src at (srcX, srcY) into b at
// (dstX, dstY). Callers guarantee both rectangles are in bounds.
func (b *Bitmap) copyRect(src *Bitmap, srcX, srcY, dstX, dstY, width, height int32) {
	srcStride := int(src.InfoHeader.Width)
	dstStride := int(b.InfoHeader.Width)
	for row := 0; row < int(height); row++ {
		srcBase := (int(srcY)+row)*srcStride + int(srcX)
		dstBase := (int(dstY)+row)*dstStride + int(dstX)
		copy(b.Pixels[dstBase:dstBase+int(width)], src.Pixels[srcBase:srcBase+int(width)])
	}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
