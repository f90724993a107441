package bmpio

// Palette is the ordered color table of an indexed image (1, 4 or 8 bits
// per pixel). The wire layout is one 4-byte B,G,R,0x00 entry per color,
// placed immediately after the info header.
type Palette []Pixel

// paletteSize returns the number of color table entries for an indexed bit
// depth, or 0 for direct-color depths.
func paletteSize(bpp uint16) int {
	switch bpp {
	case 1:
		return 2
	case 4:
		return 16
	case 8:
		return 256
	}
	return 0
}

// readPalette interprets the byte region between the info header and the
// pixel array as 4-byte color entries. The entry count follows from the
// region size, not from the colors-used header field — real files disagree
// with that field often enough that the offsets are the only safe source.
func readPalette(data []byte) Palette {
	pal := make(Palette, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		pal = append(pal, Pixel{
			B: data[i],
			G: data[i+1],
			R: data[i+2],
			A: 0xFF,
		})
	}
	return pal
}

// appendTo serializes the color table in wire order. The fourth byte of
// each entry is reserved and written as zero.
func (pal Palette) appendTo(data []byte) []byte {
	for _, px := range pal {
		data = append(data, px.B, px.G, px.R, 0x00)
	}
	return data
}

// NearestIndex returns the index of the palette entry closest to px by
// squared RGB distance. Ties resolve to the lowest index. Returns -1 for
// an empty palette.
func (pal Palette) NearestIndex(px Pixel) int {
	if len(pal) == 0 {
		return -1
	}
	best := 0
	bestDist := px.distanceSquared(pal[0])
	for i := 1; i < len(pal); i++ {
		if d := px.distanceSquared(pal[i]); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// vga16 is the classic 16-color table used when converting to 4-bit with
// no palette present.
var vga16 = [16]Pixel{
	RGB(0x00, 0x00, 0x00), RGB(0x80, 0x00, 0x00), RGB(0x00, 0x80, 0x00), RGB(0x80, 0x80, 0x00),
	RGB(0x00, 0x00, 0x80), RGB(0x80, 0x00, 0x80), RGB(0x00, 0x80, 0x80), RGB(0xC0, 0xC0, 0xC0),
	RGB(0x80, 0x80, 0x80), RGB(0xFF, 0x00, 0x00), RGB(0x00, 0xFF, 0x00), RGB(0xFF, 0xFF, 0x00),
	RGB(0x00, 0x00, 0xFF), RGB(0xFF, 0x00, 0xFF), RGB(0x00, 0xFF, 0xFF), RGB(0xFF, 0xFF, 0xFF),
}

// defaultPalette builds the color table assigned when an image is created
// in, or converted to, an indexed format without one: black/white for
// 1-bit, the VGA 16-color table for 4-bit, a grayscale ramp for 8-bit.
func defaultPalette(bpp uint16) Palette {
	switch bpp {
	case 1:
		return Palette{Black, White}
	case 4:
		return Palette(vga16[:])
	case 8:
		pal := make(Palette, 256)
		for i := range pal {
			v := uint8(i)
			pal[i] = RGB(v, v, v)
		}
		return pal
	}
	return nil
}
