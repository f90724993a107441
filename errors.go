package bmpio

import "errors"

// Error classes returned by Decode, Encode and the geometric operations.
// Every failure is terminal for the call that raised it; callers can
// distinguish classes with errors.Is. I/O errors from DecodeFrom/EncodeTo
// are propagated as-is from the underlying reader/writer.
var (
	// ErrInvalidBitmap: the container is malformed — bad magic, nonzero
	// reserved fields, offsets that don't fit the buffer, or a palette
	// index pointing outside the color table.
	ErrInvalidBitmap = errors.New("bmpio: invalid bitmap")

	// ErrUnsupportedHeader: info header size other than 40 or 56, or a
	// plane count other than 1.
	ErrUnsupportedHeader = errors.New("bmpio: unsupported info header")

	// ErrUnsupportedCompression: any compression other than Uncompressed
	// or BitFields (RLE4/RLE8, embedded JPEG/PNG, CMYK variants).
	ErrUnsupportedCompression = errors.New("bmpio: unsupported compression type")

	// ErrUnsupportedFormat: a (compression, bits-per-pixel) pair outside
	// the decode/encode tables.
	ErrUnsupportedFormat = errors.New("bmpio: unsupported pixel format")

	// ErrInvalidRect: a crop rectangle that does not lie fully inside the
	// source image.
	ErrInvalidRect = errors.New("bmpio: rectangle out of bounds")

	// ErrTruncated: the input ended in the middle of a primitive read.
	ErrTruncated = errors.New("bmpio: truncated input")

	// ErrMissingPalette: an indexed format (≤ 8 bits per pixel) with no
	// color table.
	ErrMissingPalette = errors.New("bmpio: missing palette")
)
