package bmpio

import "fmt"

// formatSupported reports whether the decode/encode engines have a routine
// for the (compression, bits-per-pixel) pair. The two engines are exact
// mirrors, so one table serves both.
func formatSupported(c CompressionType, bpp uint16) bool {
	switch c {
	case BitFields:
		return bpp == 16 || bpp == 32
	case Uncompressed:
		switch bpp {
		case 1, 4, 8, 16, 24, 32:
			return true
		}
	}
	return false
}

func errUnsupportedFormat(c CompressionType, bpp uint16) error {
	return fmt.Errorf("%w: %d-bit %s", ErrUnsupportedFormat, bpp, c)
}

// decodePixels interprets the pixel array as width×height pixels in stored
// row order, dispatching on (compression, bits-per-pixel). The readers are
// count-driven: they consume exactly the pixels the header promises, so a
// file truncated mid-pixel faults while missing trailing row padding does
// not.
func decodePixels(data []byte, h *InfoHeader, pal Palette) ([]Pixel, error) {
	w := newBytesWalker(data)
	switch {
	case h.Compression == BitFields && h.BitsPerPixel == 32:
		return read32BitField(w, h)
	case h.Compression == BitFields && h.BitsPerPixel == 16:
		return read16BitField(w, h)
	case h.Compression == Uncompressed && h.BitsPerPixel == 32:
		return read32Uncompressed(w, h)
	case h.Compression == Uncompressed && h.BitsPerPixel == 24:
		return read24Uncompressed(w, h)
	case h.Compression == Uncompressed && h.BitsPerPixel == 16:
		return read16Uncompressed(w, h)
	case h.Compression == Uncompressed && h.BitsPerPixel == 8:
		return read8Indexed(w, h, pal)
	case h.Compression == Uncompressed && h.BitsPerPixel == 4:
		return read4Indexed(w, h, pal)
	case h.Compression == Uncompressed && h.BitsPerPixel == 1:
		return read1Indexed(w, h, pal)
	}
	return nil, errUnsupportedFormat(h.Compression, h.BitsPerPixel)
}

// allocPixels sizes a reader's output slice. Capacity is bounded by the
// pixels the array bytes could actually hold, so a crafted header cannot
// force a large allocation backed by a tiny file.
func allocPixels(h *InfoHeader, available int) []Pixel {
	n := int(h.Width) * int(h.Height)
	if fromData := available * 8 / int(h.BitsPerPixel); fromData < n {
		n = fromData
	}
	return make([]Pixel, 0, n)
}

// read32BitField reads one 4-byte word per pixel and extracts the four
// channels at their mask offsets. 4-byte pixels keep rows inherently
// aligned, so there is no per-row padding. A zero alpha mask means XRGB:
// the padding byte is ignored and alpha forced opaque.
func read32BitField(w *bytesWalker, h *InfoHeader) ([]Pixel, error) {
	redOff, _ := maskShift(h.RedMask)
	greenOff, _ := maskShift(h.GreenMask)
	blueOff, _ := maskShift(h.BlueMask)
	alphaOff, _ := maskShift(h.AlphaMask)

	n := int(h.Width) * int(h.Height)
	out := allocPixels(h, len(w.data))
	for i := 0; i < n; i++ {
		v, err := w.nextU32()
		if err != nil {
			return nil, fmt.Errorf("32-bit bitfields: pixel %d: %w", i, err)
		}
		px := Pixel{
			R: uint8(v >> redOff),
			G: uint8(v >> greenOff),
			B: uint8(v >> blueOff),
			A: uint8(v >> alphaOff),
		}
		if h.AlphaMask == 0 {
			px.A = 0xFF
		}
		out = append(out, px)
	}
	return out, nil
}

// read16BitField reads one 2-byte word per pixel, extracts each channel
// through its mask and rescales it from the mask's zero-based maximum to
// the 8-bit range. Rows are padded to 4-byte boundaries.
func read16BitField(w *bytesWalker, h *InfoHeader) ([]Pixel, error) {
	redOff, redMax := maskShift(h.RedMask)
	greenOff, greenMax := maskShift(h.GreenMask)
	blueOff, blueMax := maskShift(h.BlueMask)
	alphaOff, alphaMax := maskShift(h.AlphaMask)

	out := allocPixels(h, len(w.data))
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			v, err := w.nextU16()
			if err != nil {
				return nil, fmt.Errorf("16-bit bitfields: row %d col %d: %w", row, col, err)
			}
			word := uint32(v)
			px := Pixel{
				R: scaleChannel(uint8((word&h.RedMask)>>redOff), redMax, 0xFF),
				G: scaleChannel(uint8((word&h.GreenMask)>>greenOff), greenMax, 0xFF),
				B: scaleChannel(uint8((word&h.BlueMask)>>blueOff), blueMax, 0xFF),
				A: scaleChannel(uint8((word&h.AlphaMask)>>alphaOff), alphaMax, 0xFF),
			}
			if h.AlphaMask == 0 {
				px.A = 0xFF
			}
			out = append(out, px)
		}
		w.alignU32()
	}
	return out, nil
}

// read32Uncompressed reads B,G,R plus one padding byte per pixel. Alpha is
// not stored in this format; every pixel comes out opaque.
func read32Uncompressed(w *bytesWalker, h *InfoHeader) ([]Pixel, error) {
	n := int(h.Width) * int(h.Height)
	out := allocPixels(h, len(w.data))
	for i := 0; i < n; i++ {
		if err := w.need(4); err != nil {
			return nil, fmt.Errorf("32-bit uncompressed: pixel %d: %w", i, err)
		}
		b, _ := w.nextU8()
		g, _ := w.nextU8()
		r, _ := w.nextU8()
		w.nextU8() // padding byte
		out = append(out, Pixel{R: r, G: g, B: b, A: 0xFF})
	}
	return out, nil
}

func read24Uncompressed(w *bytesWalker, h *InfoHeader) ([]Pixel, error) {
	out := allocPixels(h, len(w.data))
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			if err := w.need(3); err != nil {
				return nil, fmt.Errorf("24-bit uncompressed: row %d col %d: %w", row, col, err)
			}
			b, _ := w.nextU8()
			g, _ := w.nextU8()
			r, _ := w.nextU8()
			out = append(out, Pixel{R: r, G: g, B: b, A: 0xFF})
		}
		w.alignU32()
	}
	return out, nil
}

// read16Uncompressed reads 2-byte words packed as 5-5-5 BGR: bits 0-4
// blue, 5-9 green, 10-14 red, bit 15 unused. Each channel rescales from
// 0x1F to the 8-bit range.
func read16Uncompressed(w *bytesWalker, h *InfoHeader) ([]Pixel, error) {
	out := allocPixels(h, len(w.data))
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			v, err := w.nextU16()
			if err != nil {
				return nil, fmt.Errorf("16-bit uncompressed: row %d col %d: %w", row, col, err)
			}
			out = append(out, Pixel{
				R: scaleChannel(uint8((v>>10)&0x1F), 0x1F, 0xFF),
				G: scaleChannel(uint8((v>>5)&0x1F), 0x1F, 0xFF),
				B: scaleChannel(uint8(v&0x1F), 0x1F, 0xFF),
				A: 0xFF,
			})
		}
		w.alignU32()
	}
	return out, nil
}

// paletteAt bounds-checks a color table lookup. A crafted file can index
// past the table it shipped; that is a container error, not a panic.
func paletteAt(pal Palette, idx int) (Pixel, error) {
	if idx >= len(pal) {
		return Pixel{}, fmt.Errorf("%w: palette index %d out of range (%d entries)",
			ErrInvalidBitmap, idx, len(pal))
	}
	return pal[idx], nil
}

func read8Indexed(w *bytesWalker, h *InfoHeader, pal Palette) ([]Pixel, error) {
	out := allocPixels(h, len(w.data))
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			idx, err := w.nextU8()
			if err != nil {
				return nil, fmt.Errorf("8-bit indexed: row %d col %d: %w", row, col, err)
			}
			px, err := paletteAt(pal, int(idx))
			if err != nil {
				return nil, err
			}
			out = append(out, px)
		}
		w.alignU32()
	}
	return out, nil
}

// read4Indexed reads two 4-bit indices per byte, high nibble first. The
// low nibble of the last byte of an odd-width row is padding and is not
// emitted.
func read4Indexed(w *bytesWalker, h *InfoHeader, pal Palette) ([]Pixel, error) {
	out := allocPixels(h, len(w.data))
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col += 2 {
			b, err := w.nextU8()
			if err != nil {
				return nil, fmt.Errorf("4-bit indexed: row %d col %d: %w", row, col, err)
			}
			px, err := paletteAt(pal, int(b>>4))
			if err != nil {
				return nil, err
			}
			out = append(out, px)
			if col+1 < h.Width {
				px, err = paletteAt(pal, int(b&0x0F))
				if err != nil {
					return nil, err
				}
				out = append(out, px)
			}
		}
		w.alignU32()
	}
	return out, nil
}

// read1Indexed reads eight pixels per byte, MSB first: a clear bit selects
// palette entry 0, a set bit entry 1. A row whose width is not a multiple
// of 8 ends with one partial byte whose high bits carry the remaining
// pixels.
func read1Indexed(w *bytesWalker, h *InfoHeader, pal Palette) ([]Pixel, error) {
	out := allocPixels(h, len(w.data))
	for row := int32(0); row < h.Height; row++ {
		emitted := int32(0)
		for ; emitted+8 <= h.Width; emitted += 8 {
			b, err := w.nextU8()
			if err != nil {
				return nil, fmt.Errorf("1-bit indexed: row %d col %d: %w", row, emitted, err)
			}
			if out, err = appendPixelsFromByte(out, pal, b, 8); err != nil {
				return nil, err
			}
		}
		if remaining := h.Width - emitted; remaining > 0 {
			b, err := w.nextU8()
			if err != nil {
				return nil, fmt.Errorf("1-bit indexed: row %d col %d: %w", row, emitted, err)
			}
			if out, err = appendPixelsFromByte(out, pal, b, int(remaining)); err != nil {
				return nil, err
			}
		}
		w.alignU32()
	}
	return out, nil
}

// appendPixelsFromByte expands the top nBits bits of b into pixels, MSB
// first.
func appendPixelsFromByte(out []Pixel, pal Palette, b uint8, nBits int) ([]Pixel, error) {
	for mask := uint8(0x80); nBits > 0; nBits-- {
		idx := 0
		if b&mask != 0 {
			idx = 1
		}
		px, err := paletteAt(pal, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, px)
		mask >>= 1
	}
	return out, nil
}
