package bmpio

import (
	"errors"
	"testing"
)

func mustDecode(t *testing.T, data []byte) *Bitmap {
	t.Helper()
	b, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return b
}

func checkPixels(t *testing.T, got, want []Pixel) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("pixel count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecode24Bit(t *testing.T) {
	b := mustDecode(t, validFile24())

	if b.Width() != 2 || b.Height() != 2 {
		t.Fatalf("dimensions: got %dx%d, want 2x2", b.Width(), b.Height())
	}
	if b.InfoHeader.TopDown {
		t.Error("TopDown: got true for positive height")
	}
	// Stored order: bottom row first.
	checkPixels(t, b.Pixels, []Pixel{Red, Green, Blue, White})
}

func TestDecode32BitField(t *testing.T) {
	// Default masks: R<<24 | G<<16 | B<<8 | A.
	pixelData := appendU32(nil, 0xFF000080) // half-transparent red
	pixelData = appendU32(pixelData, 0x00FF00FF)

	b := mustDecode(t, buildFile(infoFor(2, 1, 32, BitFields, 0), nil, pixelData))
	checkPixels(t, b.Pixels, []Pixel{RGBA(0xFF, 0x00, 0x00, 0x80), Green})
}

// A 56-byte header with a zero alpha mask is XRGB: the spare byte is
// ignored and every pixel comes out opaque.
func TestDecode32BitFieldXRGB(t *testing.T) {
	ih := infoFor(1, 1, 32, BitFields, 0)
	ih.AlphaMask = 0
	pixelData := appendU32(nil, 0x0000FF42) // junk in the spare byte

	b := mustDecode(t, buildFile(ih, nil, pixelData))
	checkPixels(t, b.Pixels, []Pixel{Blue})
}

func TestDecode16BitField(t *testing.T) {
	// Default masks: 5-5-5 RGB plus alpha in bit 15.
	pixelData := appendU16(nil, 0x8000|0x7C00) // opaque red
	pixelData = appendU16(pixelData, 0x03E0)   // transparent green

	b := mustDecode(t, buildFile(infoFor(2, 1, 16, BitFields, 0), nil, pixelData))
	checkPixels(t, b.Pixels, []Pixel{Red, RGBA(0x00, 0xFF, 0x00, 0x00)})
}

// Nondefault masks drive the extraction: 5-6-5 with no alpha.
func TestDecode16BitField565(t *testing.T) {
	ih := infoFor(2, 1, 16, BitFields, 0)
	ih.RedMask, ih.GreenMask, ih.BlueMask, ih.AlphaMask = 0xF800, 0x07E0, 0x001F, 0

	pixelData := appendU16(nil, 0x07E0)      // green at full 6-bit depth
	pixelData = appendU16(pixelData, 0x0010) // mid blue

	b := mustDecode(t, buildFile(ih, nil, pixelData))
	want := []Pixel{
		Green,
		RGB(0x00, 0x00, scaleChannel(0x10, 0x1F, 0xFF)),
	}
	checkPixels(t, b.Pixels, want)
}

func TestDecode32BitUncompressed(t *testing.T) {
	// B,G,R plus one spare byte; no alpha in this layout.
	pixelData := []byte{0x00, 0x00, 0xFF, 0x99, 0xFF, 0xFF, 0xFF, 0x00}
	b := mustDecode(t, buildFile(infoFor(2, 1, 32, Uncompressed, 0), nil, pixelData))
	checkPixels(t, b.Pixels, []Pixel{Red, White})
}

func TestDecode16BitUncompressed(t *testing.T) {
	// Fixed 5-5-5 BGR words, bit 15 ignored.
	pixelData := appendU16(nil, 0x7FFF)
	pixelData = appendU16(pixelData, 0x7C00)

	b := mustDecode(t, buildFile(infoFor(2, 1, 16, Uncompressed, 0), nil, pixelData))
	checkPixels(t, b.Pixels, []Pixel{White, Red})
}

func TestDecode8BitIndexed(t *testing.T) {
	pal := Palette{Black, White, Red, Green}
	// Width 5: five index bytes, three padding bytes per row.
	pixelData := []byte{0x00, 0x01, 0x02, 0x03, 0x01, 0x00, 0x00, 0x00}

	b := mustDecode(t, buildFile(infoFor(5, 1, 8, Uncompressed, len(pal)), pal, pixelData))
	checkPixels(t, b.Pixels, []Pixel{Black, White, Red, Green, White})
}

func TestDecode4BitIndexed(t *testing.T) {
	pal := Palette(vga16[:])
	// Width 3, two rows. Two indices per byte, high nibble first; the low
	// nibble of the last byte of each row is padding.
	pixelData := []byte{
		0x01, 0x20, 0x00, 0x00, // indices 0,1,2
		0x9A, 0xB0, 0x00, 0x00, // indices 9,10,11
	}

	b := mustDecode(t, buildFile(infoFor(3, 2, 4, Uncompressed, len(pal)), pal, pixelData))
	want := []Pixel{
		vga16[0], vga16[1], vga16[2],
		vga16[9], vga16[10], vga16[11],
	}
	checkPixels(t, b.Pixels, want)
}

func TestDecode1BitIndexed(t *testing.T) {
	pal := Palette{Black, White}
	// Width 10: one full byte, one partial byte with two pixels in its
	// high bits, two padding bytes.
	pixelData := []byte{0b10110010, 0b01000000, 0x00, 0x00}

	b := mustDecode(t, buildFile(infoFor(10, 1, 1, Uncompressed, len(pal)), pal, pixelData))
	want := []Pixel{
		White, Black, White, White, Black, Black, White, Black,
		Black, White,
	}
	checkPixels(t, b.Pixels, want)
}

func TestDecodeTopDown(t *testing.T) {
	ih := infoFor(2, 2, 24, Uncompressed, 0)
	ih.TopDown = true
	pixelData := []byte{
		0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0x00, 0x00, // top row: red, green
		0xFF, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00, 0x00, // bottom row: blue, white
	}

	b := mustDecode(t, buildFile(ih, nil, pixelData))
	if !b.InfoHeader.TopDown {
		t.Fatal("TopDown: got false for negative stored height")
	}
	if b.Height() != 2 {
		t.Errorf("Height: got %d, want 2", b.Height())
	}
	checkPixels(t, b.Pixels, []Pixel{Red, Green, Blue, White})
}

// The pixel array may legitimately start past the color table; the gap is
// skipped via the stored offset.
func TestDecodeGapBeforePixelArray(t *testing.T) {
	file := validFile24()
	gap := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	withGap := append(file[:54:54], gap...)
	withGap = append(withGap, file[54:]...)
	putU32(withGap, offPixelOffset, 54+uint32(len(gap)))

	b := mustDecode(t, withGap)
	checkPixels(t, b.Pixels, []Pixel{Red, Green, Blue, White})
}

// Trailing row padding missing from the file is tolerated: the alignment
// step consumes no data.
func TestDecodeMissingTrailingPadding(t *testing.T) {
	pixelData := []byte{0x00, 0x00, 0xFF} // one pixel, no padding bytes
	b := mustDecode(t, buildFile(infoFor(1, 1, 24, Uncompressed, 0), nil, pixelData))
	checkPixels(t, b.Pixels, []Pixel{Red})
}

// A file that ends mid-pixel is truncated, not tolerated.
func TestDecodeTruncatedMidPixel(t *testing.T) {
	pixelData := []byte{0x00, 0x00, 0xFF, 0x00, 0x00} // 1 pixel + 2 stray bytes
	_, err := Decode(buildFile(infoFor(2, 2, 24, Uncompressed, 0), nil, pixelData))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("got %v, want ErrTruncated", err)
	}
}

func TestDecodePaletteIndexOutOfRange(t *testing.T) {
	pal := Palette{Black, White}
	pixelData := []byte{0x05, 0x00, 0x00, 0x00}

	_, err := Decode(buildFile(infoFor(1, 1, 8, Uncompressed, len(pal)), pal, pixelData))
	if !errors.Is(err, ErrInvalidBitmap) {
		t.Errorf("got %v, want ErrInvalidBitmap", err)
	}
}

func TestFormatSupported(t *testing.T) {
	tests := []struct {
		comp CompressionType
		bpp  uint16
		want bool
	}{
		{BitFields, 32, true},
		{BitFields, 16, true},
		{BitFields, 24, false},
		{BitFields, 8, false},
		{Uncompressed, 32, true},
		{Uncompressed, 24, true},
		{Uncompressed, 16, true},
		{Uncompressed, 8, true},
		{Uncompressed, 4, true},
		{Uncompressed, 1, true},
		{Uncompressed, 2, false},
		{Uncompressed, 64, false},
		{RLE8, 8, false},
	}
	for _, tc := range tests {
		if got := formatSupported(tc.comp, tc.bpp); got != tc.want {
			t.Errorf("formatSupported(%s, %d) = %v, want %v", tc.comp, tc.bpp, got, tc.want)
		}
	}
}
