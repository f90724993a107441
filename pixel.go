package bmpio

// Pixel is one image sample with 8-bit red, green, blue and alpha channels.
// It has value semantics: pixels are copied, never shared.
type Pixel struct {
	R, G, B, A uint8
}

// RGB returns an opaque pixel.
func RGB(r, g, b uint8) Pixel { return Pixel{R: r, G: g, B: b, A: 0xFF} }

// RGBA returns a pixel with an explicit alpha channel.
func RGBA(r, g, b, a uint8) Pixel { return Pixel{R: r, G: g, B: b, A: a} }

// RGBAFromUint32 unpacks a 0xRRGGBBAA word.
func RGBAFromUint32(c uint32) Pixel {
	return Pixel{
		R: uint8(c >> 24),
		G: uint8(c >> 16),
		B: uint8(c >> 8),
		A: uint8(c),
	}
}

// RGBFromUint32 unpacks a 0xRRGGBBxx word, forcing the pixel opaque.
func RGBFromUint32(c uint32) Pixel { return RGBAFromUint32(c | 0xFF) }

// SameColor reports whether p and q have identical red, green and blue
// channels. Alpha is deliberately ignored: this is the equality used for
// palette quantization and ColorToAlpha.
func (p Pixel) SameColor(q Pixel) bool {
	return p.R == q.R && p.G == q.G && p.B == q.B
}

// distanceSquared is the squared Euclidean distance between two pixels in
// RGB space. Alpha does not participate.
func (p Pixel) distanceSquared(q Pixel) uint32 {
	dr := int32(p.R) - int32(q.R)
	dg := int32(p.G) - int32(q.G)
	db := int32(p.B) - int32(q.B)
	return uint32(dr*dr + dg*dg + db*db)
}

// Common colors.
var (
	Black = RGB(0x00, 0x00, 0x00)
	White = RGB(0xFF, 0xFF, 0xFF)
	Red   = RGB(0xFF, 0x00, 0x00)
	Green = RGB(0x00, 0xFF, 0x00)
	Blue  = RGB(0x00, 0x00, 0xFF)

	// Transparent is the initial fill of freshly allocated bitmaps.
	Transparent = RGBA(0xFF, 0xFF, 0xFF, 0x00)
)
