package bmpio

// encodePixels serializes a pixel grid into the wire layout named by the
// header, mirroring decodePixels routine for routine. Indexed formats
// quantize each pixel to its nearest palette entry.
func encodePixels(data []byte, pixels []Pixel, h *InfoHeader, pal Palette) ([]byte, error) {
	switch {
	case h.Compression == BitFields && h.BitsPerPixel == 32:
		return write32BitField(data, pixels, h), nil
	case h.Compression == BitFields && h.BitsPerPixel == 16:
		return write16BitField(data, pixels, h), nil
	case h.Compression == Uncompressed && h.BitsPerPixel == 32:
		return write32Uncompressed(data, pixels), nil
	case h.Compression == Uncompressed && h.BitsPerPixel == 24:
		return write24Uncompressed(data, pixels, h), nil
	case h.Compression == Uncompressed && h.BitsPerPixel == 16:
		return write16Uncompressed(data, pixels, h), nil
	case h.Compression == Uncompressed && h.BitsPerPixel <= 8:
		if !formatSupported(h.Compression, h.BitsPerPixel) {
			break
		}
		if len(pal) == 0 {
			return nil, ErrMissingPalette
		}
		switch h.BitsPerPixel {
		case 8:
			return write8Indexed(data, pixels, h, pal), nil
		case 4:
			return write4Indexed(data, pixels, h, pal), nil
		case 1:
			return write1Indexed(data, pixels, h, pal), nil
		}
	}
	return nil, errUnsupportedFormat(h.Compression, h.BitsPerPixel)
}

// write32BitField packs the four channels at their mask offsets. Alpha is
// ANDed with the alpha mask before the OR, so an XRGB header (alpha mask
// zero) and an ARGB header share this path.
func write32BitField(data []byte, pixels []Pixel, h *InfoHeader) []byte {
	redOff, _ := maskShift(h.RedMask)
	greenOff, _ := maskShift(h.GreenMask)
	blueOff, _ := maskShift(h.BlueMask)
	alphaOff, _ := maskShift(h.AlphaMask)

	for _, px := range pixels {
		v := uint32(px.R)<<redOff |
			uint32(px.G)<<greenOff |
			uint32(px.B)<<blueOff |
			uint32(px.A)<<alphaOff&h.AlphaMask
		data = appendU32(data, v)
	}
	return data
}

// write16BitField rescales each channel from the 8-bit range down to its
// mask's zero-based maximum, then packs at the mask offsets. Rows are
// padded to 4-byte boundaries with zero bytes.
func write16BitField(data []byte, pixels []Pixel, h *InfoHeader) []byte {
	redOff, redMax := maskShift(h.RedMask)
	greenOff, greenMax := maskShift(h.GreenMask)
	blueOff, blueMax := maskShift(h.BlueMask)
	alphaOff, alphaMax := maskShift(h.AlphaMask)

	padding := pad4(int(h.Width) * 2)
	i := 0
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			px := pixels[i]
			i++
			v := uint16(scaleChannel(px.R, 0xFF, redMax))<<redOff |
				uint16(scaleChannel(px.G, 0xFF, greenMax))<<greenOff |
				uint16(scaleChannel(px.B, 0xFF, blueMax))<<blueOff |
				uint16(scaleChannel(px.A, 0xFF, alphaMax))<<alphaOff&uint16(h.AlphaMask)
			data = appendU16(data, v)
		}
		data = appendZeros(data, padding)
	}
	return data
}

// write32Uncompressed emits B,G,R and a fixed zero padding byte per pixel.
// This layout has no alpha channel; the source alpha is dropped.
func write32Uncompressed(data []byte, pixels []Pixel) []byte {
	for _, px := range pixels {
		data = append(data, px.B, px.G, px.R, 0x00)
	}
	return data
}

func write24Uncompressed(data []byte, pixels []Pixel, h *InfoHeader) []byte {
	padding := pad4(int(h.Width) * 3)
	i := 0
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			px := pixels[i]
			i++
			data = append(data, px.B, px.G, px.R)
		}
		data = appendZeros(data, padding)
	}
	return data
}

// write16Uncompressed packs 5-5-5 BGR words, the mirror of the fixed
// layout read16Uncompressed expects. Bit 15 stays clear.
func write16Uncompressed(data []byte, pixels []Pixel, h *InfoHeader) []byte {
	padding := pad4(int(h.Width) * 2)
	i := 0
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			px := pixels[i]
			i++
			v := uint16(scaleChannel(px.R, 0xFF, 0x1F))<<10 |
				uint16(scaleChannel(px.G, 0xFF, 0x1F))<<5 |
				uint16(scaleChannel(px.B, 0xFF, 0x1F))
			data = appendU16(data, v)
		}
		data = appendZeros(data, padding)
	}
	return data
}

func write8Indexed(data []byte, pixels []Pixel, h *InfoHeader, pal Palette) []byte {
	padding := pad4(int(h.Width))
	i := 0
	for row := int32(0); row < h.Height; row++ {
		for col := int32(0); col < h.Width; col++ {
			data = append(data, uint8(pal.NearestIndex(pixels[i])))
			i++
		}
		data = appendZeros(data, padding)
	}
	return data
}

// write4Indexed packs two indices per byte, high nibble first. An
// odd-width row ends with its last index in the high nibble and a zero low
// nibble.
func write4Indexed(data []byte, pixels []Pixel, h *InfoHeader, pal Palette) []byte {
	padding := pad4((int(h.Width) + 1) / 2)
	i := 0
	for row := int32(0); row < h.Height; row++ {
		col := int32(0)
		for ; col+2 <= h.Width; col += 2 {
			hi := uint8(pal.NearestIndex(pixels[i]))
			lo := uint8(pal.NearestIndex(pixels[i+1]))
			i += 2
			data = append(data, hi<<4|lo&0x0F)
		}
		if col < h.Width {
			data = append(data, uint8(pal.NearestIndex(pixels[i]))<<4)
			i++
		}
		data = appendZeros(data, padding)
	}
	return data
}

// write1Indexed packs eight indices per byte, MSB first; any nonzero
// nearest index sets the bit. A partial final byte carries the remaining
// pixels in its high bits.
func write1Indexed(data []byte, pixels []Pixel, h *InfoHeader, pal Palette) []byte {
	bytesPerRow := (int(h.Width) + 7) / 8
	padding := pad4(bytesPerRow)
	i := 0
	for row := int32(0); row < h.Height; row++ {
		col := int32(0)
		for ; col+8 <= h.Width; col += 8 {
			data = append(data, byteFromPixels(pal, pixels[i:i+8]))
			i += 8
		}
		if remaining := int(h.Width - col); remaining > 0 {
			data = append(data, byteFromPixels(pal, pixels[i:i+remaining]))
			i += remaining
		}
		data = appendZeros(data, padding)
	}
	return data
}

func byteFromPixels(pal Palette, pixels []Pixel) uint8 {
	var b uint8
	mask := uint8(0x80)
	for _, px := range pixels {
		if pal.NearestIndex(px) != 0 {
			b |= mask
		}
		mask >>= 1
	}
	return b
}

func appendZeros(data []byte, n int) []byte {
	for ; n > 0; n-- {
		data = append(data, 0x00)
	}
	return data
}
